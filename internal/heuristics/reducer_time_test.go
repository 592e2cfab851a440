package heuristics

import (
	"sync"
	"testing"

	"github.com/miradorstack/mirador-jobdoctor/internal/models"
	"github.com/miradorstack/mirador-jobdoctor/internal/stats"
)

func reducers(n int, runTimeMs int64) []models.TaskData {
	tasks := make([]models.TaskData, 0, n)
	for i := 0; i < n; i++ {
		tasks = append(tasks, models.TaskData{Timed: true, TotalRunTimeMs: runTimeMs})
	}
	return tasks
}

func TestReducerTimeManyShortTasks(t *testing.T) {
	h := NewReducerTime()
	res := h.Apply(models.JobData{ID: "job_1", Reducers: reducers(50, 30*stats.SecondInMs)})

	if res.Name != ReducerTimeName {
		t.Fatalf("unexpected name %q", res.Name)
	}
	// CRITICAL for runtime, capped to LOW by the task count.
	if res.Severity != models.SeverityLow {
		t.Fatalf("expected LOW, got %s", res.Severity)
	}
	if v, _ := res.Detail("Average task time"); v != "30 sec" {
		t.Fatalf("unexpected average detail %q", v)
	}
}

func TestReducerTimeNoTasks(t *testing.T) {
	res := NewReducerTime().Apply(models.JobData{})
	if res.Severity != models.SeverityNone {
		t.Fatalf("expected NONE for empty job, got %s", res.Severity)
	}
	want := []models.HeuristicDetail{
		{Name: "Number of tasks", Value: "0"},
		{Name: "Average task time", Value: "0 sec"},
	}
	if len(res.Details) != len(want) {
		t.Fatalf("unexpected details %+v", res.Details)
	}
	for i := range want {
		if res.Details[i] != want[i] {
			t.Fatalf("detail %d = %+v, want %+v", i, res.Details[i], want[i])
		}
	}
}

func TestReducerTimeLongTasksSuppressedByWideJob(t *testing.T) {
	res := NewReducerTime().Apply(models.JobData{Reducers: reducers(600, 3*stats.HourInMs)})
	if res.Severity != models.SeverityNone {
		t.Fatalf("expected long-runtime signal suppressed to NONE, got %s", res.Severity)
	}
}

func TestReducerTimeLongTasksOnNarrowJob(t *testing.T) {
	// 5 reducers: numTasksReverse rates CRITICAL, long runtime rates CRITICAL.
	res := NewReducerTime().Apply(models.JobData{Reducers: reducers(5, 3*stats.HourInMs)})
	if res.Severity != models.SeverityCritical {
		t.Fatalf("expected CRITICAL, got %s", res.Severity)
	}
	if v, _ := res.Detail("Number of tasks"); v != "5" {
		t.Fatalf("unexpected task count detail %q", v)
	}
}

func TestReducerTimeShortRuntimeBoundary(t *testing.T) {
	h := NewReducerTime()
	cases := []struct {
		avg  int64
		want models.Severity
	}{
		{10 * stats.MinuteInMs, models.SeverityNone},
		{10*stats.MinuteInMs - 1, models.SeverityLow},
	}
	for _, tc := range cases {
		// 1000 reducers keep the task-count cap at CRITICAL so the runtime ladder decides.
		res := h.Apply(models.JobData{Reducers: reducers(1000, tc.avg)})
		if res.Severity != tc.want {
			t.Fatalf("avg %d: expected %s, got %s", tc.avg, tc.want, res.Severity)
		}
	}
}

func TestReducerTimeUntimedCountButDoNotAverage(t *testing.T) {
	tasks := reducers(60, 20*stats.SecondInMs)
	for i := 0; i < 40; i++ {
		tasks = append(tasks, models.TaskData{ID: "untimed"})
	}
	res := NewReducerTime().Apply(models.JobData{Reducers: tasks})

	if v, _ := res.Detail("Number of tasks"); v != "100" {
		t.Fatalf("expected 100 tasks, got %q", v)
	}
	if v, _ := res.Detail("Average task time"); v != "20 sec" {
		t.Fatalf("expected untimed tasks excluded from average, got %q", v)
	}
	// Short runtime CRITICAL, 100 tasks MODERATE.
	if res.Severity != models.SeverityModerate {
		t.Fatalf("expected MODERATE, got %s", res.Severity)
	}
}

func TestReducerTimeDoesNotMutateInput(t *testing.T) {
	tasks := []models.TaskData{{ID: "a", Timed: true, TotalRunTimeMs: 5}, {ID: "b"}}
	job := models.JobData{ID: "job", Reducers: tasks}
	NewReducerTime().Apply(job)
	if tasks[0].TotalRunTimeMs != 5 || tasks[1].Timed {
		t.Fatalf("input mutated: %+v", tasks)
	}
}

func TestReducerTimeConcurrentApply(t *testing.T) {
	h := NewReducerTime()
	job := models.JobData{Reducers: reducers(50, 30*stats.SecondInMs)}

	var wg sync.WaitGroup
	errs := make(chan models.Severity, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sev := h.Apply(job).Severity; sev != models.SeverityLow {
				errs <- sev
			}
		}()
	}
	wg.Wait()
	close(errs)
	for sev := range errs {
		t.Fatalf("concurrent apply returned %s", sev)
	}
}

func TestNewReducerTimeWithThresholdsRejectsBadLadder(t *testing.T) {
	th := DefaultReducerTimeThresholds()
	th.NumTasksReverse = models.Ladder{Low: 10, Moderate: 20, Severe: 49, Critical: 100}
	if _, err := NewReducerTimeWithThresholds(th); err == nil {
		t.Fatalf("expected validation error")
	}
}
