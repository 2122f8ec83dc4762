package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LogConfig{Level: "debug", Format: "json", Output: &buf, ServiceName: "racecard"})

	log.WithRun("run-1").WithDocument("race3.docx").Info().
		Int("entries", 8).
		Err(errors.New("boom")).
		Msg("document processed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "racecard", entry["service"])
	assert.Equal(t, "run-1", entry["run_id"])
	assert.Equal(t, "race3.docx", entry["document"])
	assert.Equal(t, float64(8), entry["entries"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "document processed", entry["message"])
}

func TestLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LogConfig{Level: "warn", Format: "json", Output: &buf})

	log.Debug().Msg("hidden")
	log.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogger_ConsoleNoColor(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LogConfig{Level: "info", Format: "console", Output: &buf, NoColor: true})

	log.WithOperation("ingest").Info().Str("document", "race3.docx").Msg("Document extracted")

	out := buf.String()
	assert.Contains(t, out, "Document extracted")
	assert.Contains(t, out, "document=race3.docx")
	assert.Contains(t, out, "operation=ingest")
	assert.NotContains(t, out, "\x1b[")
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().WithRun("x").Error().Err(errors.New("ignored")).Msg("dropped")
	})
}

func TestParseLevel(t *testing.T) {
	assert.True(t, ValidLevel("DEBUG"))
	assert.True(t, ValidLevel("warning"))
	assert.False(t, ValidLevel("verbose"))
	assert.Equal(t, parseLevel("info"), parseLevel("verbose"))
}
