package utils

import "testing"

func TestNewLoggerWithLevel(t *testing.T) {
	for _, level := range []string{"debug", "INFO", " warn ", "error", "bogus", ""} {
		l := NewLoggerWithLevel(level)
		if l == nil {
			t.Fatalf("NewLoggerWithLevel(%q) returned nil", level)
		}
		l.Debug("[test] debug %d", 1)
		l.Info("[test] info %s", "x")
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Info("[test] %d", 1)
	l.Warn("[test] %d", 2)
	l.Error("[test] %d", 3)
	if err := l.Sync(); err != nil {
		t.Errorf("Sync: got %v, want nil", err)
	}
}
