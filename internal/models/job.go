package models

// TaskData describes one reducer task attempt of a job.
type TaskData struct {
	ID string
	// Timed is false for tasks that were skipped or killed before the
	// history server recorded a run time.
	Timed          bool
	TotalRunTimeMs int64
}

// RunTimeMs returns the task's total run time and whether it was timed.
func (t TaskData) RunTimeMs() (int64, bool) {
	if !t.Timed {
		return 0, false
	}
	return t.TotalRunTimeMs, true
}

// JobData is the read-only view of a finished job handed to heuristics.
type JobData struct {
	ID       string
	Reducers []TaskData
}
