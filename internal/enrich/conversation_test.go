package enrich

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avrtt/telegram-chat-analyzer/internal/chatparse"
)

func timesFromGaps(start time.Time, gapMinutes []float64) []time.Time {
	times := []time.Time{start}
	t := start
	for _, g := range gapMinutes {
		t = t.Add(time.Duration(g * float64(time.Minute)))
		times = append(times, t)
	}
	return times
}

func TestConversationIDs_FewRecords(t *testing.T) {
	assert.Empty(t, ConversationIDs(nil, 0.9, 0.8))

	one := []time.Time{time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)}
	assert.Equal(t, []int{0}, ConversationIDs(one, 0.9, 0.8))
}

func TestConversationIDs_SingleDominantGap(t *testing.T) {
	// seven 1-minute gaps, one 4-minute gap, one 200-minute gap.
	// split threshold (P90, linear interpolation) lands between 4 and 200,
	// merge threshold (P80) between 1 and 4: only the long gap splits, and
	// the rows owning the two largest gaps are pulled back by the merge rule.
	start := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	times := timesFromGaps(start, []float64{1, 1, 1, 1, 1, 1, 1, 4, 200})

	ids := ConversationIDs(times, 0.9, 0.8)
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0, 0, -1, 0, 1}, ids)
}

func TestConversationIDs_GapThresholdLaw(t *testing.T) {
	// gaps 1..48 then 200: with linear interpolation P90 = 44.2 and
	// P80 = 39.4, so 5 gaps split and 10 gaps merge back
	gaps := make([]float64, 0, 49)
	for g := 1; g <= 48; g++ {
		gaps = append(gaps, float64(g))
	}
	gaps = append(gaps, 200)
	times := timesFromGaps(time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), gaps)
	require.Len(t, times, 50)

	ids := ConversationIDs(times, 0.9, 0.8)

	split := quantile(gaps, 0.9)
	merge := quantile(gaps, 0.8)
	assert.InDelta(t, 44.2, split, 1e-9)
	assert.InDelta(t, 39.4, merge, 1e-9)

	increments, decrements := 0, 0
	for _, g := range gaps {
		if g >= split {
			increments++
		}
		if g >= merge {
			decrements++
		}
	}
	assert.Equal(t, 5, increments)
	assert.Equal(t, 10, decrements)

	// reconstruct the running-id arithmetic independently
	running := 0
	for i, g := range gaps {
		want := running
		if g >= split {
			running++
			want = running
		}
		if g >= merge {
			want--
		}
		assert.Equal(t, want, ids[i], "row %d", i)
	}
	// last record owns no gap and keeps the running id
	assert.Equal(t, running, ids[len(ids)-1])
}

func TestConversationIDs_LastRecordNeverSplits(t *testing.T) {
	times := timesFromGaps(time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), []float64{1, 1, 1, 500})
	ids := ConversationIDs(times, 0.9, 0.8)
	require.Len(t, ids, 5)
	// the record before the 500-minute gap is merged back; the record after
	// it starts the new conversation
	assert.Equal(t, ids[4], ids[3]+1)
}

func TestEnrich_ConversationAssignmentIsDeterministic(t *testing.T) {
	start := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	gaps := []float64{1, 3, 2, 90, 1, 2, 1, 200, 4}
	times := timesFromGaps(start, gaps)

	var msgs []chatparse.Message
	for i, ts := range times {
		sender := "Alice"
		if i%2 == 1 {
			sender = "Bob"
		}
		msgs = append(msgs, chatparse.Message{Timestamp: ts, Sender: sender, Body: "msg"})
	}

	first := Enrich(msgs, DefaultOptions())
	second := Enrich(msgs, DefaultOptions())
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ConversationID, second[i].ConversationID, "row %d", i)
	}
}
