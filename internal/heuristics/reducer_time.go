package heuristics

import (
	"strconv"

	"github.com/miradorstack/mirador-jobdoctor/internal/models"
	"github.com/miradorstack/mirador-jobdoctor/internal/stats"
)

// ReducerTimeName is the stable name reported by ReducerTime.
const ReducerTimeName = "Reducer Time"

// ReducerTimeThresholds are the four ladders ReducerTime rates a job on.
type ReducerTimeThresholds struct {
	// ShortRuntime is read descending: fast reducers are suspicious.
	ShortRuntime models.Ladder
	// LongRuntime is read ascending.
	LongRuntime models.Ladder
	// NumTasks is read ascending and caps the short-runtime signal, so small
	// jobs are not flagged for having fast reducers.
	NumTasks models.Ladder
	// NumTasksReverse is read descending and caps the long-runtime signal,
	// so jobs that already fan out widely are not flagged for slow reducers.
	NumTasksReverse models.Ladder
}

// DefaultReducerTimeThresholds returns the built-in tables.
func DefaultReducerTimeThresholds() ReducerTimeThresholds {
	return ReducerTimeThresholds{
		ShortRuntime: models.Ladder{
			Low:      10 * stats.MinuteInMs,
			Moderate: 5 * stats.MinuteInMs,
			Severe:   2 * stats.MinuteInMs,
			Critical: 1 * stats.MinuteInMs,
		},
		LongRuntime: models.Ladder{
			Low:      15 * stats.MinuteInMs,
			Moderate: 30 * stats.MinuteInMs,
			Severe:   1 * stats.HourInMs,
			Critical: 2 * stats.HourInMs,
		},
		NumTasks:        models.Ladder{Low: 10, Moderate: 51, Severe: 200, Critical: 500},
		NumTasksReverse: models.Ladder{Low: 100, Moderate: 49, Severe: 20, Critical: 10},
	}
}

// Validate checks each ladder against the direction it is read in.
func (t ReducerTimeThresholds) Validate() error {
	checks := []struct {
		name      string
		ladder    models.Ladder
		ascending bool
	}{
		{"shortRuntime", t.ShortRuntime, false},
		{"longRuntime", t.LongRuntime, true},
		{"numTasks", t.NumTasks, true},
		{"numTasksReverse", t.NumTasksReverse, false},
	}
	for _, c := range checks {
		if err := c.ladder.Validate(c.ascending); err != nil {
			return &ThresholdError{Ladder: c.name, Err: err}
		}
	}
	return nil
}

// ThresholdError names the ladder that failed validation.
type ThresholdError struct {
	Ladder string
	Err    error
}

func (e *ThresholdError) Error() string {
	return "ladder " + e.Ladder + ": " + e.Err.Error()
}

func (e *ThresholdError) Unwrap() error { return e.Err }

// ReducerTime flags jobs whose reducers are, on average, much shorter or
// much longer than the task count justifies.
type ReducerTime struct {
	thresholds ReducerTimeThresholds
}

var _ Heuristic[models.JobData] = (*ReducerTime)(nil)

// NewReducerTime builds the heuristic with the default thresholds.
func NewReducerTime() *ReducerTime {
	return &ReducerTime{thresholds: DefaultReducerTimeThresholds()}
}

// NewReducerTimeWithThresholds builds the heuristic with custom thresholds.
func NewReducerTimeWithThresholds(t ReducerTimeThresholds) (*ReducerTime, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &ReducerTime{thresholds: t}, nil
}

// Name implements Heuristic.
func (h *ReducerTime) Name() string { return ReducerTimeName }

// Thresholds returns the ladders in use.
func (h *ReducerTime) Thresholds() ReducerTimeThresholds { return h.thresholds }

// Apply rates the job's reducers. Untimed reducers count toward the task
// total but not toward the average run time.
func (h *ReducerTime) Apply(job models.JobData) models.HeuristicResult {
	numTasks := int64(len(job.Reducers))
	averageMs := stats.AverageTimed(job.Reducers)

	short := models.MinSeverity(
		h.thresholds.ShortRuntime.Descending(averageMs),
		h.thresholds.NumTasks.Ascending(numTasks),
	)
	long := models.MinSeverity(
		h.thresholds.LongRuntime.Ascending(averageMs),
		h.thresholds.NumTasksReverse.Descending(numTasks),
	)

	result := models.NewHeuristicResult(ReducerTimeName, models.MaxSeverity(short, long))
	result.AddDetail("Number of tasks", strconv.FormatInt(numTasks, 10))
	result.AddDetail("Average task time", stats.ReadableTimespan(averageMs))
	return result
}
