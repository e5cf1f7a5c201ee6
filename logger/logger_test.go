package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Level: "debug", Output: &buf}).Component("store")

	log.Info("opened").Int("conns", 3).Send()

	entry := decode(t, &buf)
	assert.Equal(t, "opened", entry["message"])
	assert.Equal(t, "store", entry["component"])
	assert.Equal(t, "prd-workspace", entry["service"])
	assert.EqualValues(t, 3, entry["conns"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Level: "warn", Output: &buf})

	log.Info("hidden").Send()
	assert.Zero(t, buf.Len())

	log.Warn("shown").Send()
	assert.NotZero(t, buf.Len())
}

func TestLogTransition(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Output: &buf})

	log.LogTransition("edit", "doc-1", 2, time.Millisecond, errors.New("conflict"))

	entry := decode(t, &buf)
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "edit", entry["kind"])
	assert.EqualValues(t, 2, entry["from_version"])
	assert.Equal(t, "conflict", entry["error"])
}
