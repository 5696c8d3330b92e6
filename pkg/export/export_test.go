package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Dataset {
	return Dataset{
		Title:   "Courses",
		Headers: []string{"code", "name", "gpa"},
		Rows: []map[string]string{
			{"code": "CSE 101", "name": "Algorithms, Analysis", "gpa": "3.10"},
			{"code": "CSE 130", "name": "Principles of Computer Systems Design"},
		},
	}
}

func TestCSVRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sample())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "code,name,gpa", lines[0])
	assert.Equal(t, `CSE 101,"Algorithms, Analysis",3.10`, lines[1])
	assert.Equal(t, "CSE 130,Principles of Computer Systems Design,", lines[2])
}

func TestPDFRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sample())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderRequiresHeaders(t *testing.T) {
	var exporters = []Exporter{NewCSVExporter(), NewPDFExporter()}
	for _, e := range exporters {
		_, err := e.Render(Dataset{})
		assert.Error(t, err, e.Extension())
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
