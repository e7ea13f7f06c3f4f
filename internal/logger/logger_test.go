package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("warn", &buf)
	assert.Equal(t, zerolog.WarnLevel, l.GetLevel())

	l.Info().Msg("dropped")
	assert.Empty(t, buf.String())

	l.Warn().Str("post_id", "abc").Msg("kept")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["message"])
	assert.Equal(t, "abc", line["post_id"])
	assert.Contains(t, line, "pid")
}

func TestNewWithWriter_InvalidLevelDefaultsToInfo(t *testing.T) {
	l := NewWithWriter("loud", &bytes.Buffer{})
	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())

	l = NewWithWriter("", &bytes.Buffer{})
	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())
}
