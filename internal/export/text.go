package export

import (
	"bufio"
	"os"
	"time"

	"labclimate/internal/models"
)

// writeText dumps a header, the export time and one entry per line.
// The document format uses the same layout.
func writeText(path string, entries []models.LogEntry, now time.Time) (err error) {
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
	_, _ = w.WriteString(reportTitle + "\n")
	_, _ = w.WriteString("Exported on: " + now.Format(exportedLayout) + "\n\n")
	for _, e := range entries {
		_, _ = w.WriteString(e.String() + "\n")
	}
	return w.Flush()
}
