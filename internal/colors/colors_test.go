package colors

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T, color bool) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)
	SetForceColor(color)
	t.Cleanup(func() {
		SetOutput(nil, nil)
		SetForceColor(false)
	})
	return &out, &errOut
}

type recordingLogger struct {
	levels   []string
	messages []string
}

func (r *recordingLogger) record(level, msg string) {
	r.levels = append(r.levels, level)
	r.messages = append(r.messages, msg)
}

func (r *recordingLogger) Debug(msg string, args ...any) { r.record("debug", msg) }
func (r *recordingLogger) Info(msg string, args ...any)  { r.record("info", msg) }
func (r *recordingLogger) Warn(msg string, args ...any)  { r.record("warn", msg) }
func (r *recordingLogger) Error(msg string, args ...any) { r.record("error", msg) }

func TestError(t *testing.T) {
	_, errOut := captureOutput(t, true)

	Error("something went wrong")

	output := errOut.String()
	assert.Contains(t, output, "Error:")
	assert.Contains(t, output, "something went wrong")
	assert.Contains(t, output, Red)
}

func TestSuccess(t *testing.T) {
	out, _ := captureOutput(t, true)

	Success("operation", "completed")

	output := out.String()
	assert.Contains(t, output, checkmark)
	assert.Contains(t, output, "operation completed")
	assert.Contains(t, output, Green)
}

func TestWarningWithoutTerminalHasNoEscapes(t *testing.T) {
	_, errOut := captureOutput(t, false)

	Warning("careful")

	assert.Equal(t, "Warning: careful\n", errOut.String())
}

func TestInfoGoesToStdout(t *testing.T) {
	out, errOut := captureOutput(t, false)

	Info("hello")

	assert.Equal(t, "hello\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestDebugRespectsFlag(t *testing.T) {
	_, errOut := captureOutput(t, false)

	SetDebug(false)
	Debug("hidden")
	assert.Empty(t, errOut.String())

	SetDebug(true)
	t.Cleanup(func() { SetDebug(false) })
	Debug("shown")
	assert.Contains(t, errOut.String(), "Debug: shown")
}

func TestMessagesMirrorToLogger(t *testing.T) {
	captureOutput(t, false)
	rec := &recordingLogger{}
	SetLogger(rec)
	t.Cleanup(func() { SetLogger(nil) })

	Error("e")
	Warning("w")
	Info("i")
	Success("s")

	assert.Equal(t, []string{"error", "warn", "info", "info"}, rec.levels)
	assert.Equal(t, []string{"e", "w", "i", "s"}, rec.messages)
}
