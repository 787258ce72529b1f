package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel(" WARNING "))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("bogus"))
}

func TestTUIModeBuffersRecentEntries(t *testing.T) {
	var buf bytes.Buffer
	InitForTUI(LevelInfo, &buf, 2)

	Debug("test", "hidden")
	Info("test", "first")
	Warn("test", "second %d", 2)
	Error("test", errors.New("boom"), "third")

	entries := Recent()
	assert.Len(t, entries, 2)
	assert.Equal(t, "second 2", entries[0].Message)
	assert.Equal(t, "third", entries[1].Message)
	assert.True(t, strings.HasSuffix(entries[1].String(), "third: boom"))
	assert.Contains(t, buf.String(), "subsystem=test")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestCLIModeDoesNotBuffer(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelDebug, &buf)

	Info("cli", "hello %s", "world")

	assert.Empty(t, Recent())
	assert.Contains(t, buf.String(), "hello world")
}
