package export

import (
	"bufio"
	"os"
	"strings"
	"time"

	"labclimate/internal/models"
)

const csvHeader = "Timestamp,Message\n"

// splitEntry breaks a rendered line on the first separator. Lines without one
// are stamped with the export time.
func splitEntry(line string, now time.Time) (ts, msg string) {
	if ts, msg, ok := strings.Cut(line, models.EntrySeparator); ok {
		return ts, msg
	}
	return now.Format(exportedLayout), line
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// csvRow renders one always-quoted row including the trailing newline.
func csvRow(e models.LogEntry, now time.Time) string {
	ts, msg := splitEntry(e.String(), now)
	return quote(ts) + "," + quote(msg) + "\n"
}

func writeCSV(path string, entries []models.LogEntry, now time.Time) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	_, _ = w.WriteString(csvHeader)
	for _, e := range entries {
		_, _ = w.WriteString(csvRow(e, now))
	}
	return w.Flush()
}
