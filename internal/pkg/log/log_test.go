package log

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	color.NoColor = true
	buf := &bytes.Buffer{}
	SetOutput(buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })
	return buf
}

func TestLevels(t *testing.T) {
	buf := capture(t)

	Info("hello %s", "world")
	Warn("careful")
	Error("boom: %d", 42)

	out := buf.String()
	assert.Contains(t, out, "[INFO]  hello world")
	assert.Contains(t, out, "[WARN]  careful")
	assert.Contains(t, out, "[Error] boom: 42")
}

func TestWithContextStampsRequestID(t *testing.T) {
	buf := capture(t)

	ctx := WithRequestID(context.Background(), "req-1")
	ErrorWithContext(ctx, "failed")

	assert.Contains(t, buf.String(), "[req_id=req-1] failed")
	assert.Equal(t, "", RequestID(context.Background()))
}

func TestInfoStruct(t *testing.T) {
	buf := capture(t)

	InfoStruct(struct{ Name string }{Name: "devflow"})

	assert.Contains(t, buf.String(), "devflow")
}
