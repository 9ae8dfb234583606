package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestSetup_VerboseMode(t *testing.T) {
	t.Setenv("DEVRIG_DEBUG", "")
	var buf bytes.Buffer
	Setup(true, &buf)
	t.Cleanup(func() { Setup(false, os.Stderr) })

	Debug("debug message", "key", "value")

	output := buf.String()
	if !strings.Contains(output, "debug message") {
		t.Errorf("Debug message should appear in verbose mode, got: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("Expected key=value in output, got: %s", output)
	}
}

func TestSetup_NonVerboseMode(t *testing.T) {
	t.Setenv("DEVRIG_DEBUG", "")
	var buf bytes.Buffer
	Setup(false, &buf)
	t.Cleanup(func() { Setup(false, os.Stderr) })

	Debug("debug message")
	Info("info message")

	if buf.Len() != 0 {
		t.Errorf("Debug and info should be suppressed by default, got: %s", buf.String())
	}

	Warn("warn message")
	if !strings.Contains(buf.String(), "warn message") {
		t.Errorf("Expected warning in output, got: %s", buf.String())
	}
}

func TestSetup_DebugEnv(t *testing.T) {
	t.Setenv("DEVRIG_DEBUG", "1")
	var buf bytes.Buffer
	Setup(false, &buf)
	t.Cleanup(func() { Setup(false, os.Stderr) })

	Debug("from env")

	if !strings.Contains(buf.String(), "from env") {
		t.Errorf("DEVRIG_DEBUG=1 should enable debug logs, got: %s", buf.String())
	}
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	Setup(false, &buf)
	t.Cleanup(func() { Setup(false, os.Stderr) })

	Error("boom", "code", 2)

	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("Expected error in output, got: %s", buf.String())
	}
}
