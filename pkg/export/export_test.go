package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	return Document{
		Title:   "Maintenance schedule",
		Headers: []string{"Day", "Task"},
		Sections: []Section{
			{Title: "January 2024", EmptyNote: "No Maintenance Scheduled"},
			{Title: "February 2024", Rows: []map[string]string{
				{"Day": "5", "Task": "Gutter cleaning"},
				{"Day": "20", "Task": "HVAC, filter"},
			}},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDocument())
	require.NoError(t, err)

	want := "Month,Day,Task\n" +
		"January 2024,No Maintenance Scheduled,\n" +
		"February 2024,5,Gutter cleaning\n" +
		"February 2024,20,\"HVAC, filter\"\n"
	assert.Equal(t, want, string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Document{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

	_, err = NewPDFExporter().Render(Document{Title: "x"})
	require.Error(t, err)
}
