package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTo_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewTo(&buf, "debug", "json")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("rows", 3).Info("built tables")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "built tables", entry["msg"])
	assert.Equal(t, float64(3), entry["rows"])
}

func TestNewTo_InvalidLevelFallsBack(t *testing.T) {
	var buf bytes.Buffer
	log := NewTo(&buf, "loud", "text")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.Contains(t, buf.String(), "invalid_level=loud")
}
