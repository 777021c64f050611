package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithComponent(t *testing.T) {
	log, err := New(Options{})
	require.NoError(t, err)
	entry := WithComponent(log, "test")
	if v, ok := entry.Data["component"]; !ok || v != "test" {
		t.Fatalf("component field missing: %v", entry.Data)
	}
}

func TestInvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestInvalidFormat(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestDefaultsToInfoJSON(t *testing.T) {
	log, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())

	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.WithField("component", "svc").Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "svc", line["component"])
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forecast.log")
	log, err := New(Options{Level: "debug", Format: "text", File: path})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	log.Info("written to file")
	assert.FileExists(t, path)
}
