package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ouroboros-backend/internal/config"
	"ouroboros-backend/internal/database"
	"ouroboros-backend/internal/handlers"
	"ouroboros-backend/internal/middleware"
	"ouroboros-backend/internal/repository"
	"ouroboros-backend/internal/router"
	"ouroboros-backend/internal/services"
	"ouroboros-backend/internal/websocket"
	"ouroboros-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting Ouroboros Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	planRepo := repository.NewPlanRepo(pool)
	subjectRepo := repository.NewSubjectRepo(pool)
	recordRepo := repository.NewRecordRepo(pool)
	reviewRepo := repository.NewReviewRepo(pool)
	examRepo := repository.NewExamRepo(pool)
	jobRepo := repository.NewJobRepo(pool)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	plannerService := services.NewPlannerService(planRepo, subjectRepo, recordRepo, jobRepo, redisClients.Queue)
	recordService := services.NewRecordService(recordRepo, reviewRepo, subjectRepo, plannerService)

	// ──── Initialize Handlers ────
	planHandler := handlers.NewPlanHandler(planRepo, plannerService)
	subjectHandler := handlers.NewSubjectHandler(subjectRepo)
	recordHandler := handlers.NewRecordHandler(recordRepo, recordService)
	reviewHandler := handlers.NewReviewHandler(reviewRepo)
	examHandler := handlers.NewExamHandler(examRepo)
	cycleHandler := handlers.NewCycleHandler(plannerService)
	statsHandler := handlers.NewStatsHandler(pool)
	jobHandler := handlers.NewJobHandler(jobRepo)

	// ──── Step 5: Start Job Worker Pool ────
	workerPool := worker.NewPool(redisClients.Queue, plannerService, jobRepo, cfg.WorkerCount)
	workerPool.Start()
	log.Printf("✓ Worker pool started (%d goroutines)", cfg.WorkerCount)

	// ──── Step 6: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, jwtAuth)
	log.Println("✓ WebSocket hub started")

	// ──── Step 7: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		planHandler,
		subjectHandler,
		recordHandler,
		reviewHandler,
		examHandler,
		cycleHandler,
		statsHandler,
		jobHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Ouroboros Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
