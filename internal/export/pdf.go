package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFRenderer turns records into a paginated document. It is a seam so
// environments without a rendering backend can run with it unset.
type PDFRenderer interface {
	Render(records []Record, generatedAt time.Time) ([]byte, error)
}

// maxValueLen is the display cutoff for long string values
const maxValueLen = 100

// schemaLegend describes the record shape on the first page
var schemaLegend = [][2]string{
	{"ID", "Unique identifier"},
	{"Location", "Requested location"},
	{"Date Range", "Start and end dates"},
	{"Created At", "Request timestamp"},
	{"Weather Data", "Forecast information"},
}

type fpdfRenderer struct{}

func (r *fpdfRenderer) Render(records []Record, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 12, "Weather Data Export Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated on: %s", formatTimestamp(generatedAt)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Total Records: %d", len(records)), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	if len(records) == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 6, "No data available.", "", 1, "L", false, 0, "")
	} else {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 8, "Data Structure", "", 1, "L", false, 0, "")
		drawFieldTable(pdf, tr, "Field", "Description", schemaLegend, 128, 128, 128)
		pdf.Ln(10)

		for i, record := range records {
			pdf.SetFont("Helvetica", "B", 14)
			pdf.CellFormat(0, 8, fmt.Sprintf("Record %d", i+1), "", 1, "L", false, 0, "")

			rows := make([][2]string, 0, len(record))
			for _, f := range record {
				if f.Value == nil {
					continue
				}
				rows = append(rows, [2]string{formatKey(f.Key), truncateValue(fmt.Sprint(f.Value))})
			}
			drawFieldTable(pdf, tr, "Field", "Value", rows, 173, 216, 230)
			pdf.Ln(6)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// drawFieldTable renders a bordered two-column table with a filled
// header row, wrapping long values across lines.
func drawFieldTable(pdf *gofpdf.Fpdf, tr func(string) string, leftHeader, rightHeader string, rows [][2]string, hr, hg, hb int) {
	const keyWidth, valueWidth, lineHeight = 50.0, 120.0, 6.0

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(hr, hg, hb)
	pdf.CellFormat(keyWidth, lineHeight, leftHeader, "1", 0, "L", true, 0, "")
	pdf.CellFormat(valueWidth, lineHeight, rightHeader, "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		lines := pdf.SplitText(tr(row[1]), valueWidth-2)
		if len(lines) == 0 {
			lines = []string{""}
		}
		rowHeight := lineHeight * float64(len(lines))

		x, y := pdf.GetXY()
		pdf.CellFormat(keyWidth, rowHeight, tr(row[0]), "1", 0, "L", false, 0, "")
		pdf.MultiCell(valueWidth, lineHeight, tr(row[1]), "1", "L", false)
		pdf.SetXY(x, y+rowHeight)
	}
}

func truncateValue(value string) string {
	runes := []rune(value)
	if len(runes) <= maxValueLen {
		return value
	}
	return string(runes[:maxValueLen]) + "..."
}
