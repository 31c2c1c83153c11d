package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderReportWithTable(t *testing.T) {
	exporter := NewPDFExporter()

	data := Dataset{
		Headers: []string{"Slot", "Trainer"},
		Rows: []map[string]string{
			{"Slot": "1", "Trainer": "Ada Lovelace"},
			{"Slot": "2", "Trainer": "unassigned"},
		},
	}

	out, err := exporter.RenderReport("Optimization Report", []string{"Score: 0hard/0soft"}, data)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestRenderReportWithoutTable(t *testing.T) {
	exporter := NewPDFExporter()

	out, err := exporter.RenderReport("", []string{"no results"}, Dataset{})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}
