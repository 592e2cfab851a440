// Package stats reduces task timing samples to the aggregates heuristics
// rate, and renders them for people.
package stats

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	SecondInMs int64 = 1000
	MinuteInMs       = 60 * SecondInMs
	HourInMs         = 60 * MinuteInMs
)

// Timed is implemented by samples that may or may not carry a duration.
type Timed interface {
	RunTimeMs() (int64, bool)
}

// Average returns the arithmetic mean of values, truncated toward zero.
// An empty slice averages to 0. Negative samples violate the caller's
// contract and panic.
func Average(values []int64) int64 {
	if len(values) == 0 {
		return 0
	}
	var sum int64
	for _, v := range values {
		if v < 0 {
			panic(fmt.Sprintf("stats: negative duration sample %d", v))
		}
		sum += v
	}
	return sum / int64(len(values))
}

// AverageTimed averages the run times of the timed samples, skipping the rest.
func AverageTimed[T Timed](samples []T) int64 {
	values := make([]int64, 0, len(samples))
	for _, s := range samples {
		if ms, ok := s.RunTimeMs(); ok {
			values = append(values, ms)
		}
	}
	return Average(values)
}

// ReadableTimespan formats milliseconds as "1 hr 2 min 3 sec", dropping zero
// components. Anything under a second reads "0 sec".
func ReadableTimespan(ms int64) string {
	seconds := ms / SecondInMs
	hours := seconds / 3600
	minutes := (seconds / 60) % 60
	seconds %= 60

	parts := make([]string, 0, 3)
	if hours > 0 {
		parts = append(parts, strconv.FormatInt(hours, 10)+" hr")
	}
	if minutes > 0 {
		parts = append(parts, strconv.FormatInt(minutes, 10)+" min")
	}
	if seconds > 0 {
		parts = append(parts, strconv.FormatInt(seconds, 10)+" sec")
	}
	if len(parts) == 0 {
		return "0 sec"
	}
	return strings.Join(parts, " ")
}
