// Package export serializes weather request records to the five
// supported interchange formats. It is read-only over the record list
// and has no storage dependencies.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmarkov/weather-requests-api/internal/apperr"
)

// Supported export formats
const (
	FormatJSON     = "json"
	FormatXML      = "xml"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatPDF      = "pdf"
)

// Result carries the serialized export and its HTTP/file metadata
type Result struct {
	Content     []byte
	ContentType string
	Filename    string
}

// Exporter serializes record lists. The PDF renderer is pluggable; a
// nil renderer makes pdf exports fail with UnsupportedFormat.
type Exporter struct {
	pdf PDFRenderer
	now func() time.Time
}

// NewExporter creates an exporter with the default PDF renderer
func NewExporter() *Exporter {
	return &Exporter{pdf: &fpdfRenderer{}, now: time.Now}
}

// Export serializes records to the given format. The filename is
// stamped with the current timestamp to second precision so repeated
// exports in the same run do not collide.
func (e *Exporter) Export(records []Record, format string) (*Result, error) {
	stamp := e.now().Format("20060102_150405")

	switch strings.ToLower(format) {
	case FormatJSON:
		content, err := e.toJSON(records)
		if err != nil {
			return nil, fmt.Errorf("error exporting to JSON: %w", err)
		}
		return &Result{
			Content:     content,
			ContentType: "application/json",
			Filename:    fmt.Sprintf("weather_data_%s.json", stamp),
		}, nil

	case FormatXML:
		content, err := e.toXML(records)
		if err != nil {
			return nil, fmt.Errorf("error exporting to XML: %w", err)
		}
		return &Result{
			Content:     content,
			ContentType: "application/xml",
			Filename:    fmt.Sprintf("weather_data_%s.xml", stamp),
		}, nil

	case FormatCSV:
		content, err := e.toCSV(records)
		if err != nil {
			return nil, fmt.Errorf("error exporting to CSV: %w", err)
		}
		return &Result{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("weather_data_%s.csv", stamp),
		}, nil

	case FormatMarkdown, "md":
		return &Result{
			Content:     e.toMarkdown(records),
			ContentType: "text/markdown",
			Filename:    fmt.Sprintf("weather_data_%s.md", stamp),
		}, nil

	case FormatPDF:
		if e.pdf == nil {
			return nil, apperr.New(apperr.KindUnsupportedFormat,
				"PDF export requires a document renderer and none is available")
		}
		content, err := e.pdf.Render(records, e.now())
		if err != nil {
			return nil, fmt.Errorf("error exporting to PDF: %w", err)
		}
		return &Result{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("weather_data_%s.pdf", stamp),
		}, nil

	default:
		return nil, apperr.New(apperr.KindUnsupportedFormat,
			fmt.Sprintf("Unsupported format: %s. Supported formats: json, xml, csv, markdown, pdf", format))
	}
}

// toJSON renders records as a 2-space indented array of objects with
// keys in canonical field order.
func (e *Exporter) toJSON(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')

	for i, record := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString("\n  {")
		first := true
		for _, f := range record {
			if !first {
				buf.WriteByte(',')
			}
			first = false

			key, err := json.Marshal(f.Key)
			if err != nil {
				return nil, err
			}
			value, err := json.Marshal(f.Value)
			if err != nil {
				return nil, err
			}
			buf.WriteString("\n    ")
			buf.Write(key)
			buf.WriteString(": ")
			buf.Write(value)
		}
		if !first {
			buf.WriteString("\n  ")
		}
		buf.WriteByte('}')
	}

	if len(records) > 0 {
		buf.WriteByte('\n')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// toXML renders a weather_data root with one record element per entry,
// a 1-based id attribute and one leaf element per non-null field.
func (e *Exporter) toXML(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<weather_data>\n")

	for i, record := range records {
		fmt.Fprintf(&buf, "  <record id=\"%d\">\n", i+1)
		for _, f := range record {
			if f.Value == nil {
				continue
			}
			buf.WriteString("    <" + f.Key + ">")
			if err := xml.EscapeText(&buf, []byte(fmt.Sprint(f.Value))); err != nil {
				return nil, err
			}
			buf.WriteString("</" + f.Key + ">\n")
		}
		buf.WriteString("  </record>\n")
	}

	buf.WriteString("</weather_data>\n")
	return buf.Bytes(), nil
}

// toCSV renders one header row holding the sorted union of keys across
// all records, so heterogeneous records share a consistent header.
// Missing or null values become empty cells.
func (e *Exporter) toCSV(records []Record) ([]byte, error) {
	if len(records) == 0 {
		return []byte{}, nil
	}

	keySet := map[string]struct{}{}
	for _, record := range records {
		for _, f := range record {
			keySet[f.Key] = struct{}{}
		}
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(keys); err != nil {
		return nil, err
	}

	for _, record := range records {
		row := make([]string, len(keys))
		for i, key := range keys {
			if v := record.Get(key); v != nil {
				row[i] = fmt.Sprint(v)
			}
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// toMarkdown renders a titled document with one section per record.
// The weather_data field is wrapped in a preformatted block.
func (e *Exporter) toMarkdown(records []Record) []byte {
	if len(records) == 0 {
		return []byte("# Weather Data Export\n\nNo data available.")
	}

	var b strings.Builder
	b.WriteString("# Weather Data Export\n")
	fmt.Fprintf(&b, "\n*Generated on: %s*\n\n", formatTimestamp(e.now()))
	fmt.Fprintf(&b, "**Total Records:** %d\n\n", len(records))

	for i, record := range records {
		fmt.Fprintf(&b, "## Record %d\n\n", i+1)

		for _, f := range record {
			if f.Value == nil {
				continue
			}
			if f.Key == "weather_data" {
				fmt.Fprintf(&b, "**%s:**\n```\n%v\n```\n", formatKey(f.Key), f.Value)
			} else {
				fmt.Fprintf(&b, "**%s:** %v\n", formatKey(f.Key), f.Value)
			}
		}

		b.WriteString("\n---\n\n")
	}

	return []byte(strings.TrimRight(b.String(), "\n"))
}
