package models

import "time"

// LogEntry is one row of the access/audit log. The timestamp is assigned
// by the store at insert time.
type LogEntry struct {
	ID        int       `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	System    string    `json:"system"`
	Attribute string    `json:"attribute"`
	Message   string    `json:"message"`
}
