// Package export serializes the system log to files.
package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"labclimate/internal/models"
)

const (
	reportTitle     = "Temperature Control System Log"
	exportedLayout  = "2006-01-02 15:04:05"
	fileStampLayout = "20060102_150405"
	defaultBaseName = "temperature_log_"
)

// ErrUnknownFormat is returned for formats other than the five supported ones.
var ErrUnknownFormat = errors.New("unknown export format: must be text, csv, document, pdf or sqlite")

// extensions maps each format to the file suffix it is written with.
var extensions = map[models.ExportFormat]string{
	models.FormatText:     ".txt",
	models.FormatCSV:      ".csv",
	models.FormatDocument: ".doc",
	models.FormatPDF:      ".pdf",
	models.FormatSQLite:   ".db",
}

// extraSuffixes are also accepted as-is for a format. The document dump is
// plain text under either Word extension.
var extraSuffixes = map[models.ExportFormat][]string{
	models.FormatDocument: {".docx"},
}

type writeFunc func(path string, entries []models.LogEntry, now time.Time) error

// Exporter writes log snapshots. Dir is used when a request carries no path.
type Exporter struct {
	Dir string
	Now func() time.Time
}

// NewExporter returns an exporter rooted at dir.
func NewExporter(dir string) *Exporter {
	return &Exporter{Dir: dir, Now: time.Now}
}

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(s string) (models.ExportFormat, error) {
	f := models.ExportFormat(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case "txt":
		return models.FormatText, nil
	case "doc", "docx", "word":
		return models.FormatDocument, nil
	case "db":
		return models.FormatSQLite, nil
	}
	if _, ok := extensions[f]; !ok {
		return "", ErrUnknownFormat
	}
	return f, nil
}

// Export writes entries in the requested format and returns the final path.
func (x *Exporter) Export(req models.ExportRequest, entries []models.LogEntry) (string, error) {
	format, err := ParseFormat(string(req.Format))
	if err != nil {
		return "", err
	}
	now := x.now()
	path := x.resolvePath(req.Path, format, now)

	var write writeFunc
	switch format {
	case models.FormatText, models.FormatDocument:
		write = writeText
	case models.FormatCSV:
		write = writeCSV
	case models.FormatPDF:
		write = writePDF
	case models.FormatSQLite:
		write = writeSQLite
	}
	if err := write(path, entries, now); err != nil {
		return path, fmt.Errorf("write %s export to %q: %w", format, path, err)
	}
	return path, nil
}

func (x *Exporter) now() time.Time {
	if x.Now == nil {
		return time.Now()
	}
	return x.Now()
}

// resolvePath picks a default file name when path is empty and appends the
// format's extension when it is missing.
func (x *Exporter) resolvePath(path string, format models.ExportFormat, now time.Time) string {
	if strings.TrimSpace(path) == "" {
		path = filepath.Join(x.Dir, defaultBaseName+now.Format(fileStampLayout))
	}
	lower := strings.ToLower(path)
	for _, suffix := range extraSuffixes[format] {
		if strings.HasSuffix(lower, suffix) {
			return path
		}
	}
	ext := extensions[format]
	if !strings.HasSuffix(lower, ext) {
		path += ext
	}
	return path
}
