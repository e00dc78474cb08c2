package export

import (
	"time"

	"labclimate/internal/models"

	"github.com/go-pdf/fpdf"
)

const (
	pdfFont       = "Arial"
	pdfLineHeight = 6.0
)

// writePDF lays the log out on A4 pages: bold title, export time, then entries.
func writePDF(path string, entries []models.LogEntry, now time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	// core fonts are cp1252; entries carry "°"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 16)
	pdf.Cell(0, 10, tr(reportTitle))
	pdf.Ln(10)

	pdf.SetFont(pdfFont, "", 10)
	pdf.Cell(0, pdfLineHeight, tr("Exported on: "+now.Format(exportedLayout)))
	pdf.Ln(pdfLineHeight * 2)

	for _, e := range entries {
		pdf.MultiCell(0, pdfLineHeight, tr(e.String()), "", "L", false)
	}
	return pdf.OutputFileAndClose(path)
}
