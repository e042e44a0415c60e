package cycle

import (
	"fmt"
	"reflect"
	"testing"
	"time"
)

var progressNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func minuteRecord(subjectID string, minutes float64, day int) StudyRecord {
	date := progressNow.AddDate(0, 0, day)
	return StudyRecord{
		ID:              fmt.Sprintf("%d-%s-%d", date.UnixMilli(), subjectID, day),
		Date:            date,
		SubjectID:       subjectID,
		TopicText:       "topic",
		StudyTimeMs:     int64(minutes * 60000),
		CountInPlanning: true,
	}
}

func twoSessionCycle() []StudySession {
	return []StudySession{
		{ID: "sess-1", SubjectID: "s1", SubjectName: "A", DurationMinutes: 60},
		{ID: "sess-2", SubjectID: "s2", SubjectName: "B", DurationMinutes: 40},
	}
}

func TestComputeProgress_EmptyInputs(t *testing.T) {
	snap := ComputeProgress(nil, []StudyRecord{minuteRecord("s1", 30, 0)}, nil)
	if snap.CompletedCycles != 0 || snap.CurrentCycleProgressMinutes != 0 || len(snap.SessionProgressMinutes) != 0 {
		t.Errorf("Expected zero snapshot for empty cycle, got %+v", snap)
	}

	snap = ComputeProgress(twoSessionCycle(), nil, nil)
	if snap.CompletedCycles != 0 || snap.CurrentCycleProgressMinutes != 0 {
		t.Errorf("Expected zero snapshot for no records, got %+v", snap)
	}
}

func TestComputeProgress_Rollover(t *testing.T) {
	// 100-minute cycle, 250 eligible minutes: two full passes plus 50.
	sessions := twoSessionCycle()
	records := []StudyRecord{
		minuteRecord("s1", 100, 0),
		minuteRecord("s2", 100, 1),
		minuteRecord("s1", 50, 2),
	}

	snap := ComputeProgress(sessions, records, nil)
	if snap.CompletedCycles != 2 {
		t.Errorf("Expected 2 completed cycles, got %d", snap.CompletedCycles)
	}
	if snap.CurrentCycleProgressMinutes != 50 {
		t.Errorf("Expected 50 current-cycle minutes, got %v", snap.CurrentCycleProgressMinutes)
	}
	// The 50-minute tail is all subject s1, filling its 60-minute session.
	if snap.SessionProgressMinutes["sess-1"] != 50 {
		t.Errorf("Expected 50 minutes on sess-1, got %v", snap.SessionProgressMinutes["sess-1"])
	}
}

func TestComputeProgress_StraddlingRecordSplit(t *testing.T) {
	// 100-minute cycle; a single 130-minute record completes one pass and
	// carries 30 minutes into the next.
	sessions := twoSessionCycle()
	records := []StudyRecord{minuteRecord("s1", 130, 0)}

	snap := ComputeProgress(sessions, records, nil)
	if snap.CompletedCycles != 1 {
		t.Errorf("Expected 1 completed cycle, got %d", snap.CompletedCycles)
	}
	if snap.CurrentCycleProgressMinutes != 30 {
		t.Errorf("Expected 30 carried minutes, got %v", snap.CurrentCycleProgressMinutes)
	}
	if snap.SessionProgressMinutes["sess-1"] != 30 {
		t.Errorf("Expected 30 minutes on sess-1, got %v", snap.SessionProgressMinutes["sess-1"])
	}
}

func TestComputeProgress_SessionCap(t *testing.T) {
	sessions := twoSessionCycle()
	// 90 minutes on s1 but only 60 minutes of s1 capacity: the excess counts
	// toward the cycle total without spilling into s2's session.
	records := []StudyRecord{minuteRecord("s1", 90, 0)}

	snap := ComputeProgress(sessions, records, nil)
	for _, s := range sessions {
		if snap.SessionProgressMinutes[s.ID] > float64(s.DurationMinutes) {
			t.Errorf("Session %s over capacity: %v > %d", s.ID, snap.SessionProgressMinutes[s.ID], s.DurationMinutes)
		}
	}
	if snap.SessionProgressMinutes["sess-1"] != 60 {
		t.Errorf("Expected sess-1 full at 60, got %v", snap.SessionProgressMinutes["sess-1"])
	}
	if snap.SessionProgressMinutes["sess-2"] != 0 {
		t.Errorf("Expected no spill into sess-2, got %v", snap.SessionProgressMinutes["sess-2"])
	}
	if snap.CurrentCycleProgressMinutes != 90 {
		t.Errorf("Expected full 90 minutes in cycle total, got %v", snap.CurrentCycleProgressMinutes)
	}
}

func TestComputeProgress_FillsSessionsInCycleOrder(t *testing.T) {
	sessions := []StudySession{
		{ID: "a1", SubjectID: "s1", DurationMinutes: 30},
		{ID: "b1", SubjectID: "s2", DurationMinutes: 30},
		{ID: "a2", SubjectID: "s1", DurationMinutes: 30},
	}
	records := []StudyRecord{minuteRecord("s1", 45, 0)}

	snap := ComputeProgress(sessions, records, nil)
	if snap.SessionProgressMinutes["a1"] != 30 || snap.SessionProgressMinutes["a2"] != 15 {
		t.Errorf("Expected 30/15 split across s1 sessions, got %v / %v",
			snap.SessionProgressMinutes["a1"], snap.SessionProgressMinutes["a2"])
	}
	if snap.SessionProgressMinutes["b1"] != 0 {
		t.Errorf("Expected untouched s2 session, got %v", snap.SessionProgressMinutes["b1"])
	}
}

func TestComputeProgress_Idempotent(t *testing.T) {
	sessions := twoSessionCycle()
	records := []StudyRecord{
		minuteRecord("s1", 70, 0),
		minuteRecord("s2", 45, 1),
		minuteRecord("s1", 20, 2),
	}
	gen := progressNow.AddDate(0, 0, -1)

	first := ComputeProgress(sessions, records, &gen)
	second := ComputeProgress(sessions, records, &gen)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Snapshots differ between identical calls:\n%+v\n%+v", first, second)
	}
}

func TestComputeProgress_GenerationTimestampFilter(t *testing.T) {
	sessions := twoSessionCycle()
	gen := progressNow

	before := minuteRecord("s1", 60, -1) // created before generation
	after := minuteRecord("s1", 25, 1)

	snap := ComputeProgress(sessions, []StudyRecord{before, after}, &gen)
	if snap.CurrentCycleProgressMinutes != 25 {
		t.Errorf("Expected only post-generation minutes (25), got %v", snap.CurrentCycleProgressMinutes)
	}
}

func TestComputeProgress_SkipsRecordsOutsidePlanning(t *testing.T) {
	sessions := twoSessionCycle()
	rec := minuteRecord("s1", 30, 0)
	rec.CountInPlanning = false

	snap := ComputeProgress(sessions, []StudyRecord{rec}, nil)
	if snap.CurrentCycleProgressMinutes != 0 {
		t.Errorf("Expected non-planning record to be ignored, got %v minutes", snap.CurrentCycleProgressMinutes)
	}
}

func TestCreationTime(t *testing.T) {
	ts := time.Date(2026, 3, 5, 8, 30, 0, 0, time.UTC)
	rec := StudyRecord{
		ID:   fmt.Sprintf("%d-abc", ts.UnixMilli()),
		Date: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
	}
	if got := CreationTime(rec); !got.Equal(ts) {
		t.Errorf("Expected %v from id prefix, got %v", ts, got)
	}

	// Malformed id falls back to the end of the record's calendar day.
	rec.ID = "imported-abc"
	want := time.Date(2026, 3, 4, 23, 59, 59, 0, time.UTC)
	if got := CreationTime(rec); !got.Equal(want) {
		t.Errorf("Expected end-of-day fallback %v, got %v", want, got)
	}
}

func TestCompletionProjection(t *testing.T) {
	sessions := twoSessionCycle()
	previous := ProgressSnapshot{CompletedCycles: 3}

	proj := CompletionProjection(sessions, previous)
	if proj.CurrentCycleProgressMinutes != 100 {
		t.Errorf("Expected projection at full 100 minutes, got %v", proj.CurrentCycleProgressMinutes)
	}
	for _, s := range sessions {
		if proj.SessionProgressMinutes[s.ID] != float64(s.DurationMinutes) {
			t.Errorf("Expected session %s at full duration", s.ID)
		}
	}
	if proj.CompletedCycles != 3 {
		t.Errorf("Expected completed count carried over, got %d", proj.CompletedCycles)
	}
}
