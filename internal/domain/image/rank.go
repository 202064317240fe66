package image

import (
	"math"
	"time"
)

// Sort is a feed ordering.
type Sort string

const (
	// SortOld orders by ascending creation time, oldest first.
	SortOld Sort = "old"
	// SortNew orders by descending creation time, newest first.
	SortNew Sort = "new"
	// SortHot orders by descending hot score.
	SortHot Sort = "hot"
)

// ParseSort maps a request parameter to a Sort. An empty value defaults to
// SortOld; anything else unknown is ErrInvalidSort.
func ParseSort(s string) (Sort, error) {
	switch s {
	case "", string(SortOld):
		return SortOld, nil
	case string(SortNew):
		return SortNew, nil
	case string(SortHot):
		return SortHot, nil
	default:
		return "", ErrInvalidSort
	}
}

// hotDecaySeconds is reddit's magic number: the seconds in 12.5 hours. An
// image needs ten times the votes of one posted 12.5 hours later to rank
// above it.
const hotDecaySeconds = 45000.0

// Score computes the hot score for a vote count and creation time:
//
//	sign(votes) * log10(max(|votes|, 1)) + epoch(createdAt) / 45000
//
// rounded to 7 decimal places. Zero votes count as magnitude 1 so the log
// stays defined. The score uses the creation epoch, not the current time,
// so an image's score is fixed until it gets votes.
func Score(votes int64, createdAt time.Time) float64 {
	magnitude := votes
	if magnitude < 0 {
		magnitude = -magnitude
	}
	if magnitude == 0 {
		magnitude = 1
	}

	var sign float64
	switch {
	case votes > 0:
		sign = 1
	case votes < 0:
		sign = -1
	}

	s := sign*math.Log10(float64(magnitude)) + float64(createdAt.Unix())/hotDecaySeconds
	return math.Round(s*1e7) / 1e7
}
