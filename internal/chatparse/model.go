package chatparse

import "time"

// Message is one raw (timestamp, sender, body) triple produced by a format
// adapter. Adapters emit messages in encounter order; chronological sorting
// happens later, once all files in a batch are parsed.
type Message struct {
	Timestamp time.Time
	Sender    string
	Body      string
}

// Export is the result of running one format adapter over a single source file.
type Export struct {
	Name     string // chat display name ("" for delimited sources)
	Messages []Message
	Dropped  int // candidate lines/blocks discarded during parsing
}
