package heuristics

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/miradorstack/mirador-jobdoctor/internal/models"
	"github.com/miradorstack/mirador-jobdoctor/internal/utils"
)

const loadOp = "heuristics.load"

// PackFile is the YAML root of a heuristic pack.
type PackFile struct {
	ReducerTime *ReducerTimePack `yaml:"reducerTime"`
}

// ReducerTimePack overrides ReducerTime ladders. Omitted ladders keep their
// defaults. Runtime ladders are Go duration strings such as "10m".
type ReducerTimePack struct {
	ShortRuntime    []time.Duration `yaml:"shortRuntime"`
	LongRuntime     []time.Duration `yaml:"longRuntime"`
	NumTasks        []int64         `yaml:"numTasks"`
	NumTasksReverse []int64         `yaml:"numTasksReverse"`
}

// LoadReducerTime builds ReducerTime from the pack at path. An empty path or
// a missing file yields the defaults.
func LoadReducerTime(path string) (*ReducerTime, error) {
	if path == "" {
		return NewReducerTime(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewReducerTime(), nil
		}
		return nil, utils.NewAppError(loadOp, "read heuristic pack", err)
	}
	return ParseReducerTime(data)
}

// ParseReducerTime builds ReducerTime from raw pack YAML.
func ParseReducerTime(data []byte) (*ReducerTime, error) {
	var pack PackFile
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, utils.NewAppError(loadOp, "parse heuristic pack", err)
	}

	thresholds := DefaultReducerTimeThresholds()
	if p := pack.ReducerTime; p != nil {
		overrides := []struct {
			name   string
			values []int64
			dst    *models.Ladder
		}{
			{"shortRuntime", durationsToMs(p.ShortRuntime), &thresholds.ShortRuntime},
			{"longRuntime", durationsToMs(p.LongRuntime), &thresholds.LongRuntime},
			{"numTasks", p.NumTasks, &thresholds.NumTasks},
			{"numTasksReverse", p.NumTasksReverse, &thresholds.NumTasksReverse},
		}
		for _, o := range overrides {
			if o.values == nil {
				continue
			}
			ladder, err := ladderFrom(o.values)
			if err != nil {
				return nil, utils.NewAppError(loadOp, "invalid ladder "+o.name, err)
			}
			*o.dst = ladder
		}
	}

	h, err := NewReducerTimeWithThresholds(thresholds)
	if err != nil {
		return nil, utils.NewAppError(loadOp, "invalid thresholds", err)
	}
	return h, nil
}

func ladderFrom(values []int64) (models.Ladder, error) {
	if len(values) != 4 {
		return models.Ladder{}, fmt.Errorf("expected 4 cutoffs, got %d", len(values))
	}
	return models.Ladder{Low: values[0], Moderate: values[1], Severe: values[2], Critical: values[3]}, nil
}

func durationsToMs(ds []time.Duration) []int64 {
	if ds == nil {
		return nil
	}
	out := make([]int64, len(ds))
	for i, d := range ds {
		out[i] = d.Milliseconds()
	}
	return out
}
