package models

// Session points at the active user. Timestamp is unix milliseconds.
type Session struct {
	UserID    string `json:"userId"`
	Timestamp int64  `json:"timestamp"`
}
