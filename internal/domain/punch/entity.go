package punch

import (
	"time"
)

// RawEvent is one observation as delivered by a capture terminal.
type RawEvent struct {
	UserID    string `json:"userid"`
	Timestamp string `json:"timestamp"`
	Name      string `json:"name"`
}

// PunchEvent is a normalized observation ready for buffering.
type PunchEvent struct {
	WorkerID   string // normalized id (canonical when the checksum validates)
	Name       string
	Timestamp  time.Time // local wall clock, second precision
	Area       string
	DeviceName string
}

// BufferedRecord is a PunchEvent persisted in the durable local buffer.
type BufferedRecord struct {
	ID        int64
	WorkerID  string
	Name      string
	Timestamp time.Time
	Area      string
	Sent      bool
}

// FeedEntry is one row of the bounded live feed shown by the dashboard.
type FeedEntry struct {
	EventID string `json:"id"`
	Time    string `json:"hora"`
	Name    string `json:"nombre"`
	Area    string `json:"area"`
	Device  string `json:"dispositivo"`
	Status  string `json:"estado"`
}
