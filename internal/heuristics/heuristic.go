// Package heuristics holds the rules that rate a finished job's execution.
package heuristics

import "github.com/miradorstack/mirador-jobdoctor/internal/models"

// Heuristic rates one kind of job data. Implementations are immutable values
// and Apply is safe to call concurrently.
type Heuristic[T any] interface {
	Name() string
	Apply(data T) models.HeuristicResult
}
