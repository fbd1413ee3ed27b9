package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithOutput(&buf, "debug", FormatJSON)
	require.NoError(t, err)

	logger.WithField("rows", 3).Debug("normalized")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "normalized", entry["msg"])
	assert.Equal(t, float64(3), entry["rows"])
}

func TestNewWithOutputLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithOutput(&buf, "warn", FormatText)
	require.NoError(t, err)

	logger.Info("hidden")
	assert.Empty(t, buf.String())
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
}

func TestNewRejectsBadSettings(t *testing.T) {
	_, err := New("loud", FormatText)
	assert.Error(t, err)

	_, err = New("info", "xml")
	assert.Error(t, err)
}
