package logger

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func reset() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	assert.False(t, IsVerbose())
	SetVerbose(true)
	assert.True(t, IsVerbose())
}

func TestSilentUnlessVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)
	Debug("hidden %d", 1)
	Info("hidden")
	Warn("hidden")
	Section("hidden")
	assert.Empty(t, buf.String())
}

func TestLevels(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("chunks=%d", 3)
	Info("loaded %s", "doc.pdf")
	Warn("slow")
	Section("Query")

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] chunks=3\n")
	assert.Contains(t, out, "[INFO] loaded doc.pdf\n")
	assert.Contains(t, out, "[WARN] slow\n")
	assert.Contains(t, out, "\n=== Query ===\n")
	assert.Same(t, &buf, Output())
}

func TestTimed(t *testing.T) {
	defer reset()
	defer func() { now = time.Now }()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now = func() time.Time { return clock }
	done := Timed("encode chunks")
	clock = clock.Add(1500 * time.Millisecond)
	done()

	assert.Equal(t, "[DEBUG] encode chunks took 1.5s\n", buf.String())
}
