// Package enrich converts raw adapter output into the canonical record set
// consumed by all downstream analytics: chronological sort, per-record
// feature derivation, conversation segmentation.
package enrich

import (
	"sort"
	"strings"
	"time"

	"github.com/avrtt/telegram-chat-analyzer/internal/chatparse"
)

// Record is the normalized message row. All derived fields are computed
// eagerly at ingestion time; consumers read but never recompute them.
type Record struct {
	Timestamp time.Time
	Username  string
	Message   string

	Date    time.Time
	Year    int
	Hour    string
	Week    time.Time
	Month   time.Time
	DayName string

	IsMedia               bool
	TextLength            int
	UserIsPhoneNumber     bool
	MessageHasPhoneNumber bool
	HasURL                bool
	CleanText             string

	ConversationID int
}

// Options tune enrichment. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	MediaMarker   string
	SplitQuantile float64
	MergeQuantile float64
}

func DefaultOptions() Options {
	return Options{
		MediaMarker:   DefaultMediaMarker,
		SplitQuantile: DefaultSplitQuantile,
		MergeQuantile: DefaultMergeQuantile,
	}
}

// Enrich builds the canonical record set from raw messages. The input is
// sorted chronologically (stable, so same-timestamp messages keep encounter
// order), features are derived per record, and conversation ids are
// assigned across the whole set. Deterministic: the same input always
// yields the same records.
func Enrich(msgs []chatparse.Message, opts Options) []Record {
	sorted := append([]chatparse.Message(nil), msgs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	recs := make([]Record, len(sorted))
	times := make([]time.Time, len(sorted))
	for i, m := range sorted {
		recs[i] = derive(m, opts)
		times[i] = m.Timestamp
	}

	ids := ConversationIDs(times, opts.SplitQuantile, opts.MergeQuantile)
	for i := range recs {
		recs[i].ConversationID = ids[i]
	}
	return recs
}

// derive computes the per-record fields. Pure and order-independent.
func derive(m chatparse.Message, opts Options) Record {
	t := m.Timestamp
	return Record{
		Timestamp: t,
		Username:  m.Sender,
		Message:   m.Body,

		Date:    dateOf(t),
		Year:    t.Year(),
		Hour:    hourOf(t),
		Week:    weekStartOf(t),
		Month:   monthStartOf(t),
		DayName: t.Weekday().String(),

		IsMedia:               strings.Contains(m.Body, opts.MediaMarker),
		TextLength:            WordCount(m.Body),
		UserIsPhoneNumber:     IsPhoneNumber(m.Sender),
		MessageHasPhoneNumber: IsPhoneNumber(m.Body),
		HasURL:                HasURL(m.Body),
		CleanText:             CleanText(m.Body),
	}
}
