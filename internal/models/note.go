package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// NoteEntry is one dated free-text entry inside a client note log.
type NoteEntry struct {
	Text string    `json:"text"`
	Date time.Time `json:"date"`
}

// NoteEntryList is the ordered entry sequence persisted as a JSONB column.
// Index 0 is the newest entry.
type NoteEntryList []NoteEntry

// Value marshals the entries to JSON for persistence.
func (l NoteEntryList) Value() (driver.Value, error) {
	if l == nil {
		l = NoteEntryList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal note entries: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSON payload into the entry list.
func (l *NoteEntryList) Scan(value interface{}) error {
	if value == nil {
		*l = NoteEntryList{}
		return nil
	}
	data, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("note entries: %w", err)
	}
	if len(data) == 0 {
		*l = NoteEntryList{}
		return nil
	}
	if err := json.Unmarshal(data, l); err != nil {
		return fmt.Errorf("unmarshal note entries: %w", err)
	}
	return nil
}

// ClientNote is a titled, append-only dated log attached to a client.
type ClientNote struct {
	ID          int64         `db:"id" json:"id"`
	ClientID    int64         `db:"client_id" json:"client_id"`
	Title       string        `db:"title" json:"title"`
	Entries     NoteEntryList `db:"entries" json:"entries"`
	LastUpdated time.Time     `db:"last_updated" json:"last_updated"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
}
