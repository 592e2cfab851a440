package stats

import "testing"

type sample struct {
	ms    int64
	timed bool
}

func (s sample) RunTimeMs() (int64, bool) { return s.ms, s.timed }

func TestAverageEmpty(t *testing.T) {
	if got := Average(nil); got != 0 {
		t.Fatalf("expected 0 for empty input, got %d", got)
	}
	if got := AverageTimed([]sample{{ms: 500}, {ms: 900}}); got != 0 {
		t.Fatalf("expected 0 when nothing is timed, got %d", got)
	}
}

func TestAverageTruncates(t *testing.T) {
	if got := Average([]int64{1, 2}); got != 1 {
		t.Fatalf("expected truncated mean 1, got %d", got)
	}
	if got := Average([]int64{30_000, 30_000, 30_000}); got != 30_000 {
		t.Fatalf("expected 30000, got %d", got)
	}
}

func TestAverageTimedSkipsUntimed(t *testing.T) {
	samples := []sample{
		{ms: 1000, timed: true},
		{ms: 99_999, timed: false},
		{ms: 3000, timed: true},
	}
	if got := AverageTimed(samples); got != 2000 {
		t.Fatalf("expected 2000, got %d", got)
	}
}

func TestAveragePermutationInvariant(t *testing.T) {
	a := []int64{7, 300, 12, 45_000, 1}
	b := []int64{45_000, 1, 300, 7, 12}
	if Average(a) != Average(b) {
		t.Fatalf("average depends on order: %d vs %d", Average(a), Average(b))
	}
}

func TestAverageDoesNotMutate(t *testing.T) {
	values := []int64{3, 1, 2}
	Average(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Fatalf("input mutated: %v", values)
	}
}

func TestAverageNegativePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for negative sample")
		}
	}()
	Average([]int64{10, -1})
}

func TestReadableTimespan(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "0 sec"},
		{999, "0 sec"},
		{30 * SecondInMs, "30 sec"},
		{MinuteInMs, "1 min"},
		{10*MinuteInMs - 1, "9 min 59 sec"},
		{3 * HourInMs, "3 hr"},
		{HourInMs + 2*MinuteInMs + 5*SecondInMs, "1 hr 2 min 5 sec"},
		{26*HourInMs + SecondInMs + 1, "26 hr 1 sec"},
	}
	for _, tc := range cases {
		if got := ReadableTimespan(tc.ms); got != tc.want {
			t.Fatalf("ReadableTimespan(%d) = %q, want %q", tc.ms, got, tc.want)
		}
	}
}
