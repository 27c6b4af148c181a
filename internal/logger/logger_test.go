package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_Levels(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, setup(&bytes.Buffer{}, false).GetLevel())
	assert.Equal(t, zerolog.DebugLevel, setup(&bytes.Buffer{}, true).GetLevel())
}

func TestFields(t *testing.T) {
	var buf bytes.Buffer
	l := Fields(setup(&buf, false), "bundle.yaml", "esbuild")

	l.Info().Msg("composed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "bundle.yaml", line["fragment"])
	assert.Equal(t, "esbuild", line["backend"])
	assert.Equal(t, "composed", line["message"])
}
