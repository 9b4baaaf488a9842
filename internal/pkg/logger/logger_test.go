package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithFieldsWritesStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")

	log.WithFields(map[string]interface{}{
		"user_id": "u-1",
		"plan":    "basic",
	}).Info("Subscription created")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Subscription created", entry["message"])
	assert.Equal(t, "u-1", entry["user_id"])
	assert.Equal(t, "basic", entry["plan"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "error")

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.ErrorWithErr(errors.New("boom"), "kept")
	assert.Contains(t, buf.String(), "boom")
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	assert.Equal(t, parseLevel("info"), parseLevel("nonsense"))
	assert.Equal(t, parseLevel("debug"), parseLevel("DEBUG"))
}

func TestComponentTagsEntries(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, "debug").Component("billing").Debug("checkout")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "billing", entry["component"])
	assert.Equal(t, "debug", entry["level"])
}

func TestEnabled(t *testing.T) {
	log := NewWithWriter(&bytes.Buffer{}, "warn")
	assert.False(t, log.Enabled("info"))
	assert.True(t, log.Enabled("warn"))
	assert.True(t, log.Enabled("error"))
	assert.False(t, Nop().Enabled("error"))
}
