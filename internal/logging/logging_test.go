package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	l, err := New(false, "")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) || !l.Core().Enabled(zapcore.WarnLevel) {
		t.Fatalf("default logger should emit warnings only")
	}
	l, err = New(true, "json")
	if err != nil {
		t.Fatalf("new json: %v", err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug logger should emit debug entries")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(false, "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
