package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"justeat/config"
)

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	log.Info("dropped")
	log.WithField("order_id", 7).Warn("kept")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "kept", entry["msg"])
	require.Equal(t, float64(7), entry["order_id"])
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	log := NewWithOutput(config.LogConfig{Level: "loud"}, &bytes.Buffer{})
	require.Equal(t, logrus.InfoLevel, log.GetLevel())
}
