package enrich

import (
	"math"
	"sort"
	"time"
)

// Quantile thresholds for conversation segmentation. A forward gap at or
// above the split threshold starts a new conversation; a gap at or above the
// merge threshold pulls the boundary record back into the conversation that
// precedes it.
const (
	DefaultSplitQuantile = 0.9
	DefaultMergeQuantile = 0.8
)

// ConversationIDs assigns a conversation id to every timestamp of a
// chronologically sorted record set.
//
// For record i the forward gap is t[i+1]-t[i] in minutes; the last record
// has none and never splits. The id of record i is the running count of
// gaps >= the split threshold among records 0..i, minus one when record i's
// own gap also meets the merge threshold. The decrement is applied to the
// running id independently of the increment, so ids can locally dip below
// the preceding record's id; downstream aggregation depends on this exact
// partitioning, so it is kept as is.
func ConversationIDs(times []time.Time, splitQ, mergeQ float64) []int {
	ids := make([]int, len(times))
	n := len(times)
	if n < 2 {
		return ids
	}

	gaps := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		gaps[i] = times[i+1].Sub(times[i]).Minutes()
	}

	split := quantile(gaps, splitQ)
	merge := quantile(gaps, mergeQ)

	id := 0
	for i := range times {
		if i < n-1 && gaps[i] >= split {
			id++
		}
		ids[i] = id
		if i < n-1 && gaps[i] >= merge {
			ids[i]--
		}
	}
	return ids
}

// quantile computes the q-quantile with linear interpolation between the
// two closest order statistics.
func quantile(vals []float64, q float64) float64 {
	s := append([]float64(nil), vals...)
	sort.Float64s(s)

	pos := q * float64(len(s)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return s[lo]
	}
	return s[lo] + (pos-float64(lo))*(s[hi]-s[lo])
}
