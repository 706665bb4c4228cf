package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter("rashi_api", &Config{Encoding: "json", Level: "warn"}, &buf)
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("module not available", "module", "geocoder")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "rashi_api", rec["app"])
	assert.Equal(t, "geocoder", rec["module"])
	assert.Equal(t, "WARN", rec["level"])
}

func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter("rashi_api", &Config{AddSource: true}, &buf)
	require.NoError(t, err)

	log.Info("module loaded", "module", "ephemeris")
	out := buf.String()
	assert.Contains(t, out, "msg=\"module loaded\"")
	assert.Contains(t, out, "app=rashi_api")
	assert.Contains(t, out, "source=logger/logger_test.go:")
}

func TestNewWithWriter_InvalidConfig(t *testing.T) {
	_, err := NewWithWriter("x", &Config{Level: "verbose"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "level verbose")

	_, err = NewWithWriter("x", &Config{Encoding: "xml"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "encoding xml")
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "rashi/module.go", shortPath("/src/internal/usecases/rashi/module.go"))
	assert.Equal(t, "main.go", shortPath("main.go"))
}
