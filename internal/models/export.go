package models

// ExportFormat selects the serializer used for a log export.
type ExportFormat string

const (
	FormatText     ExportFormat = "text"
	FormatCSV      ExportFormat = "csv"
	FormatDocument ExportFormat = "document"
	FormatPDF      ExportFormat = "pdf"
	FormatSQLite   ExportFormat = "sqlite"
)

// ExportRequest asks for the current log in a given format.
// An empty Path lets the exporter pick a timestamped file name.
type ExportRequest struct {
	Format ExportFormat `json:"format"`
	Path   string       `json:"path,omitempty"`
}

// ExportResult reports how an export went. Failures are carried here, not as errors.
type ExportResult struct {
	OK      bool   `json:"ok"`
	Path    string `json:"path,omitempty"`
	Entries int    `json:"entries"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}
