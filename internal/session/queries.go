package session

import (
	"database/sql"
	"time"
)

// DaysOrder fixes the display order of day-of-week aggregations.
var DaysOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

type Summary struct {
	Messages      int
	Users         int
	ActiveDays    int
	Conversations int
	MediaMessages int
	URLMessages   int
	FirstMessage  time.Time
	LastMessage   time.Time
}

// Summarize computes the headline metrics of the loaded chat.
func (s *Store) Summarize() (*Summary, error) {
	var sum Summary
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COUNT(DISTINCT username),
		        COUNT(DISTINCT date),
		        COUNT(DISTINCT conversation_id),
		        COALESCE(SUM(is_media), 0),
		        COALESCE(SUM(has_url), 0)
		 FROM messages`,
	).Scan(&sum.Messages, &sum.Users, &sum.ActiveDays, &sum.Conversations, &sum.MediaMessages, &sum.URLMessages)
	if err != nil {
		return nil, err
	}

	if sum.Messages > 0 {
		var first, last string
		err = s.db.QueryRow("SELECT MIN(ts), MAX(ts) FROM messages").Scan(&first, &last)
		if err != nil {
			return nil, err
		}
		if sum.FirstMessage, err = time.Parse(timeLayout, first); err != nil {
			return nil, err
		}
		if sum.LastMessage, err = time.Parse(timeLayout, last); err != nil {
			return nil, err
		}
	}
	return &sum, nil
}

type BucketCount struct {
	Key   string
	Count int
}

// MessagesByUser returns per-user message counts, most active first.
func (s *Store) MessagesByUser(limit int) ([]BucketCount, error) {
	q := "SELECT username, COUNT(*) AS n FROM messages GROUP BY username ORDER BY n DESC, username"
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.Query(q+" LIMIT ?", limit)
	} else {
		rows, err = s.db.Query(q)
	}
	if err != nil {
		return nil, err
	}
	return scanBuckets(rows)
}

// HourlyActivity returns message counts grouped by floored hour, ordered
// "00:00" through "23:00".
func (s *Store) HourlyActivity() ([]BucketCount, error) {
	rows, err := s.db.Query("SELECT hour, COUNT(*) FROM messages GROUP BY hour ORDER BY hour")
	if err != nil {
		return nil, err
	}
	return scanBuckets(rows)
}

// DayOfWeekActivity returns message counts for each weekday, Monday first.
// Days with no messages are included with a zero count.
func (s *Store) DayOfWeekActivity() ([]BucketCount, error) {
	rows, err := s.db.Query("SELECT day_name, COUNT(*) FROM messages GROUP BY day_name")
	if err != nil {
		return nil, err
	}
	counts, err := scanBuckets(rows)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]int, len(counts))
	for _, c := range counts {
		byDay[c.Key] = c.Count
	}
	ordered := make([]BucketCount, 0, len(DaysOrder))
	for _, day := range DaysOrder {
		ordered = append(ordered, BucketCount{Key: day, Count: byDay[day]})
	}
	return ordered, nil
}

func scanBuckets(rows *sql.Rows) ([]BucketCount, error) {
	defer rows.Close()
	var out []BucketCount
	for rows.Next() {
		var b BucketCount
		if err := rows.Scan(&b.Key, &b.Count); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

type Conversation struct {
	ID       int
	Start    time.Time
	End      time.Time
	Messages int
	Users    int
}

// Conversations lists conversation segments in chronological order.
func (s *Store) Conversations() ([]Conversation, error) {
	rows, err := s.db.Query(
		`SELECT conversation_id, MIN(ts), MAX(ts), COUNT(*), COUNT(DISTINCT username)
		 FROM messages GROUP BY conversation_id ORDER BY MIN(ts)`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		var c Conversation
		var start, end string
		if err := rows.Scan(&c.ID, &start, &end, &c.Messages, &c.Users); err != nil {
			return nil, err
		}
		if c.Start, err = time.Parse(timeLayout, start); err != nil {
			return nil, err
		}
		if c.End, err = time.Parse(timeLayout, end); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type TranscriptRow struct {
	Timestamp time.Time
	Username  string
	Message   string
}

// ConversationMessages returns one conversation's messages in
// chronological order.
func (s *Store) ConversationMessages(conversationID int) ([]TranscriptRow, error) {
	rows, err := s.db.Query(
		"SELECT ts, username, message FROM messages WHERE conversation_id = ? ORDER BY seq",
		conversationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TranscriptRow
	for rows.Next() {
		var r TranscriptRow
		var ts string
		if err := rows.Scan(&ts, &r.Username, &r.Message); err != nil {
			return nil, err
		}
		if r.Timestamp, err = time.Parse(timeLayout, ts); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LocationCandidates returns messages that look like shared map locations,
// for the geo marker extractor to parse.
func (s *Store) LocationCandidates() ([]TranscriptRow, error) {
	rows, err := s.db.Query(
		`SELECT ts, username, message FROM messages
		 WHERE message LIKE '%maps.google.com%' AND message LIKE '%q=%' ORDER BY seq`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TranscriptRow
	for rows.Next() {
		var r TranscriptRow
		var ts string
		if err := rows.Scan(&ts, &r.Username, &r.Message); err != nil {
			return nil, err
		}
		if r.Timestamp, err = time.Parse(timeLayout, ts); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
