package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Section is a titled group of rows, one per month in a schedule export.
type Section struct {
	Title string
	Rows  []map[string]string
	// EmptyNote is rendered when the section has no rows.
	EmptyNote string
}

// Document defines sectioned tabular export content.
type Document struct {
	Title    string
	Headers  []string
	Sections []Section
}

// SectionHeader is the leading CSV column naming each row's section.
const SectionHeader = "Month"

// CSVExporter renders documents into CSV bytes, one record per row with the
// section title in the first column.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the document.
func (e *CSVExporter) Render(doc Document) ([]byte, error) {
	if len(doc.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(append([]string{SectionHeader}, doc.Headers...)); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, section := range doc.Sections {
		if len(section.Rows) == 0 {
			record := make([]string, len(doc.Headers)+1)
			record[0] = section.Title
			record[1] = section.EmptyNote
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
			continue
		}
		for _, row := range section.Rows {
			record := make([]string, 0, len(doc.Headers)+1)
			record = append(record, section.Title)
			for _, header := range doc.Headers {
				record = append(record, row[header])
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
