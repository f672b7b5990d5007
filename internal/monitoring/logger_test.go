package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	// Save original loggers
	origLogf, origWarnf := Logf, Warnf
	defer func() { Logf, Warnf = origLogf, origWarnf }()

	// Test setting a custom logger
	var lines []string
	customLogger := func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	}

	SetLogger(customLogger)
	Logf("processed %d points", 42)
	Warnf("band %s is empty", "0-10m")

	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(lines))
	}
	if lines[0] != "processed 42 points" {
		t.Errorf("Logf produced %q", lines[0])
	}
	if lines[1] != "Warning: band 0-10m is empty" {
		t.Errorf("Warnf produced %q, want Warning prefix", lines[1])
	}

	// Test setting nil logger (should create no-ops)
	lines = nil
	SetLogger(nil)
	// These should not panic and not reach the old callback
	Logf("test message")
	Warnf("test message")
	if len(lines) != 0 {
		t.Errorf("no-op logger should not have triggered callback, got %v", lines)
	}
}

func TestLogf_Default(t *testing.T) {
	// Test that the loggers are not nil by default
	if Logf == nil {
		t.Error("Logf should not be nil by default")
	}
	if Warnf == nil {
		t.Error("Warnf should not be nil by default")
	}

	// Test that we can call them without panic
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("default logger panicked: %v", r)
		}
	}()

	Logf("test message: %s", "value")
	Warnf("test message: %s", "value")
}
