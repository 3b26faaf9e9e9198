// Package session holds the normalized record store: the canonical,
// chronologically ordered table of enriched messages for one analysis
// session. The table lives in an in-memory SQLite database so downstream
// consumers can filter, group and aggregate without touching the derived
// columns; nothing is written to disk and each new upload batch replaces
// the table wholesale.
package session

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/avrtt/telegram-chat-analyzer/internal/enrich"
	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05"

const schema = `
CREATE TABLE IF NOT EXISTS messages (
    seq               INTEGER PRIMARY KEY,
    ts                TEXT NOT NULL,
    username          TEXT NOT NULL,
    message           TEXT NOT NULL,
    date              TEXT NOT NULL,
    year              INTEGER NOT NULL,
    hour              TEXT NOT NULL,
    week              TEXT NOT NULL,
    month             TEXT NOT NULL,
    day_name          TEXT NOT NULL,
    is_media          INTEGER NOT NULL,
    text_length       INTEGER NOT NULL,
    user_is_phone     INTEGER NOT NULL,
    message_has_phone INTEGER NOT NULL,
    has_url           INTEGER NOT NULL,
    clean_text        TEXT NOT NULL,
    conversation_id   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_username ON messages(username);
CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id);
`

type Store struct {
	db   *sql.DB
	name string
}

// Open creates an empty in-memory store.
func Open() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	// a second connection would see its own empty :memory: database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Name is the display name of the currently loaded chat.
func (s *Store) Name() string {
	return s.name
}

// Replace swaps the whole table for the given record set. Records are
// inserted in slice order, which the caller keeps chronological.
func (s *Store) Replace(name string, recs []enrich.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages"); err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO messages (seq, ts, username, message, date, year, hour, week, month, day_name,
		 is_media, text_length, user_is_phone, message_has_phone, has_url, clean_text, conversation_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range recs {
		_, err := stmt.Exec(
			i,
			r.Timestamp.Format(timeLayout),
			r.Username,
			r.Message,
			r.Date.Format(timeLayout),
			r.Year,
			r.Hour,
			r.Week.Format(timeLayout),
			r.Month.Format(timeLayout),
			r.DayName,
			boolInt(r.IsMedia),
			r.TextLength,
			boolInt(r.UserIsPhoneNumber),
			boolInt(r.MessageHasPhoneNumber),
			boolInt(r.HasURL),
			r.CleanText,
			r.ConversationID,
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.name = name
	return nil
}

// Records returns the full table in insertion (chronological) order.
func (s *Store) Records() ([]enrich.Record, error) {
	rows, err := s.db.Query(
		`SELECT ts, username, message, date, year, hour, week, month, day_name,
		 is_media, text_length, user_is_phone, message_has_phone, has_url, clean_text, conversation_id
		 FROM messages ORDER BY seq`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []enrich.Record
	for rows.Next() {
		var r enrich.Record
		var ts, date, week, month string
		var isMedia, userPhone, msgPhone, hasURL int
		err := rows.Scan(&ts, &r.Username, &r.Message, &date, &r.Year, &r.Hour, &week, &month, &r.DayName,
			&isMedia, &r.TextLength, &userPhone, &msgPhone, &hasURL, &r.CleanText, &r.ConversationID)
		if err != nil {
			return nil, err
		}
		if r.Timestamp, err = time.Parse(timeLayout, ts); err != nil {
			return nil, err
		}
		if r.Date, err = time.Parse(timeLayout, date); err != nil {
			return nil, err
		}
		if r.Week, err = time.Parse(timeLayout, week); err != nil {
			return nil, err
		}
		if r.Month, err = time.Parse(timeLayout, month); err != nil {
			return nil, err
		}
		r.IsMedia = isMedia != 0
		r.UserIsPhoneNumber = userPhone != 0
		r.MessageHasPhoneNumber = msgPhone != 0
		r.HasURL = hasURL != 0
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
