package cycle

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// CreationTime extracts a record's creation instant from the millisecond
// timestamp that prefixes its id. Malformed ids fall back to the end of the
// record's calendar day so old imports still attribute sensibly.
func CreationTime(rec StudyRecord) time.Time {
	head, _, _ := strings.Cut(rec.ID, "-")
	if ms, err := strconv.ParseInt(head, 10, 64); err == nil && ms > 0 {
		return time.UnixMilli(ms)
	}
	return time.Date(rec.Date.Year(), rec.Date.Month(), rec.Date.Day(), 23, 59, 59, 0, rec.Date.Location())
}

// ComputeProgress attributes logged study time onto the cycle's sessions and
// computes the completed-cycle count. Only records created at or after
// generatedAt participate (nil generatedAt keeps everything). Time beyond
// whole completed passes is distributed in date order onto sessions of the
// matching subject, in cycle order, capped at each session's duration;
// leftovers with no remaining capacity still count toward the current pass
// total but never spill into other subjects' sessions.
//
// The function is pure: identical inputs always produce identical snapshots.
func ComputeProgress(sessions []StudySession, records []StudyRecord, generatedAt *time.Time) ProgressSnapshot {
	snapshot := EmptySnapshot(generatedAt)

	totalCycle := 0.0
	for _, s := range sessions {
		totalCycle += float64(s.DurationMinutes)
	}
	if totalCycle == 0 {
		return snapshot
	}

	eligible := make([]StudyRecord, 0, len(records))
	for _, rec := range records {
		if !rec.CountInPlanning {
			continue
		}
		if generatedAt != nil && CreationTime(rec).Before(*generatedAt) {
			continue
		}
		eligible = append(eligible, rec)
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Date.Before(eligible[j].Date)
	})

	total := 0.0
	for _, rec := range eligible {
		total += float64(rec.StudyTimeMs) / 60000
	}

	completed := int(math.Floor(total / totalCycle))
	threshold := totalCycle * float64(completed)
	snapshot.CompletedCycles = completed

	// remaining capacity per session of the current pass
	capacity := make(map[string]float64, len(sessions))
	for _, s := range sessions {
		capacity[s.ID] = float64(s.DurationMinutes)
	}

	cumulative := 0.0
	for _, rec := range eligible {
		minutes := float64(rec.StudyTimeMs) / 60000
		before := cumulative
		cumulative += minutes
		if cumulative <= threshold {
			continue // belongs to an already-completed pass
		}
		portion := minutes
		if before < threshold {
			portion = cumulative - threshold // straddles the rollover point
		}

		snapshot.CurrentCycleProgressMinutes += portion
		for _, s := range sessions {
			if portion <= 0 {
				break
			}
			if s.SubjectID != rec.SubjectID || capacity[s.ID] <= 0 {
				continue
			}
			fill := math.Min(portion, capacity[s.ID])
			snapshot.SessionProgressMinutes[s.ID] += fill
			capacity[s.ID] -= fill
			portion -= fill
		}
	}

	return snapshot
}

// CompletionProjection returns the snapshot a client shows while acknowledging
// a just-finished pass: every session at full duration and the current-cycle
// total equal to the whole cycle. The true rolled-over snapshot from
// ComputeProgress is applied right after.
func CompletionProjection(sessions []StudySession, previous ProgressSnapshot) ProgressSnapshot {
	projection := EmptySnapshot(previous.GeneratedAt)
	projection.CompletedCycles = previous.CompletedCycles
	for _, s := range sessions {
		projection.SessionProgressMinutes[s.ID] = float64(s.DurationMinutes)
		projection.CurrentCycleProgressMinutes += float64(s.DurationMinutes)
	}
	return projection
}
