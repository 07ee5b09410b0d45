package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_DebugLevel(t *testing.T) {
	t.Setenv("DEBUG", "")

	var buf bytes.Buffer
	l := New(&buf, false)
	l.Debug("hidden")
	l.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	l = New(&buf, true)
	l.Debug("visible")
	assert.Contains(t, buf.String(), "level=DEBUG")
}

func TestOrDefault(t *testing.T) {
	d := Discard()
	assert.Same(t, d, OrDefault(d))
	assert.Same(t, Logger, OrDefault(nil))
}
