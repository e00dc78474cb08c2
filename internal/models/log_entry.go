package models

// EntrySeparator joins the timestamp and message of a rendered entry.
const EntrySeparator = " - "

// LogEntry is a single line of the system log.
type LogEntry struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp,omitempty"` // hh:mm:ss; empty for bare lines
	Message   string `json:"message"`
}

// String renders the entry the way it is shown and exported.
func (e LogEntry) String() string {
	if e.Timestamp == "" {
		return e.Message
	}
	return e.Timestamp + EntrySeparator + e.Message
}
