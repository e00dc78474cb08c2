// Package journal keeps the bounded, append-only system log.
package journal

import (
	"time"

	"labclimate/internal/models"

	"github.com/google/uuid"
)

// DefaultCapacity is the number of entries retained when none is configured.
// It is also the most the log ever holds.
const DefaultCapacity = 50

const (
	clockLayout    = "15:04:05"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// Journal is not safe for concurrent use; it is owned by the simulation loop.
type Journal struct {
	entries  []models.LogEntry
	capacity int
	now      func() time.Time
}

// New returns an empty journal. A capacity outside 1..DefaultCapacity falls
// back to DefaultCapacity.
func New(capacity int, now func() time.Time) *Journal {
	if capacity <= 0 || capacity > DefaultCapacity {
		capacity = DefaultCapacity
	}
	if now == nil {
		now = time.Now
	}
	return &Journal{
		entries:  make([]models.LogEntry, 0, capacity),
		capacity: capacity,
		now:      now,
	}
}

// Append records msg stamped with the current clock time and returns the new entry.
func (j *Journal) Append(msg string) models.LogEntry {
	return j.push(models.LogEntry{
		Timestamp: j.now().Format(clockLayout),
		Message:   msg,
	})
}

// AppendLine records msg without a timestamp.
func (j *Journal) AppendLine(msg string) models.LogEntry {
	return j.push(models.LogEntry{Message: msg})
}

func (j *Journal) push(e models.LogEntry) models.LogEntry {
	e.ID = uuid.NewString()
	j.entries = append(j.entries, e)
	if over := len(j.entries) - j.capacity; over > 0 {
		// drop oldest first
		j.entries = append(j.entries[:0], j.entries[over:]...)
	}
	return e
}

// Clear replaces the log with a single "Log cleared at ..." line.
func (j *Journal) Clear() {
	j.entries = j.entries[:0]
	j.AppendLine("Log cleared at " + j.now().Format(dateTimeLayout))
}

// Entries returns a copy of the log, oldest first.
func (j *Journal) Entries() []models.LogEntry {
	out := make([]models.LogEntry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Len reports the number of retained entries.
func (j *Journal) Len() int { return len(j.entries) }

// Capacity reports the retention limit.
func (j *Journal) Capacity() int { return j.capacity }

// Last returns the newest entry, if any.
func (j *Journal) Last() (models.LogEntry, bool) {
	if len(j.entries) == 0 {
		return models.LogEntry{}, false
	}
	return j.entries[len(j.entries)-1], true
}
