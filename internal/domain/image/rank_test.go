package image

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestParseSort(t *testing.T) {
	cases := []struct {
		in   string
		want Sort
	}{
		{"", SortOld},
		{"old", SortOld},
		{"new", SortNew},
		{"hot", SortHot},
	}
	for _, c := range cases {
		got, err := ParseSort(c.in)
		if err != nil {
			t.Errorf("ParseSort(%q): unexpected error %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseSort(%q) = %q, want %q", c.in, got, c.want)
		}
	}

	if _, err := ParseSort("bogus"); !errors.Is(err, ErrInvalidSort) {
		t.Errorf("expected ErrInvalidSort, got %v", err)
	}
}

func TestScoreZeroVotes(t *testing.T) {
	created := time.Unix(90000, 0)
	// Zero votes count as magnitude 1, so the log term vanishes and only
	// the age term remains.
	if got := Score(0, created); got != 2.0 {
		t.Errorf("Score(0) = %v, want 2.0", got)
	}
}

func TestScoreSignPreserved(t *testing.T) {
	created := time.Unix(45000, 0)
	pos := Score(10, created)
	neg := Score(-10, created)

	if math.Abs(pos-2.0) > 1e-9 {
		t.Errorf("Score(10) = %v, want 2.0", pos)
	}
	if math.Abs(neg-0.0) > 1e-9 {
		t.Errorf("Score(-10) = %v, want 0.0", neg)
	}
}

func TestScoreDecayEquivalence(t *testing.T) {
	// Ten times the votes buys exactly 45000 seconds of age.
	created := time.Unix(1_600_000_000, 0)
	older := Score(100, created)
	newer := Score(10, created.Add(45000*time.Second))

	if math.Abs(older-newer) > 1e-6 {
		t.Errorf("expected adjacent scores, got %v and %v", older, newer)
	}
}

func TestScoreNewerWinsOnEqualVotes(t *testing.T) {
	created := time.Unix(1_600_000_000, 0)
	if Score(5, created.Add(time.Hour)) <= Score(5, created) {
		t.Error("newer image should not score below an older one with equal votes")
	}
}

func TestScoreRounding(t *testing.T) {
	// log10(3) + 45/45000 = 0.47812125471..., rounded to 7 places.
	got := Score(3, time.Unix(45, 0))
	if math.Abs(got-0.4781213) > 1e-12 {
		t.Errorf("Score(3) = %v, want 0.4781213", got)
	}
}

func TestScoreStableOverTime(t *testing.T) {
	created := time.Unix(1_600_000_000, 0)
	first := Score(7, created)
	time.Sleep(2 * time.Millisecond)
	if second := Score(7, created); second != first {
		t.Errorf("score changed between calls: %v then %v", first, second)
	}
}
