package logger

import "testing"

func TestNewBuildsEveryMode(t *testing.T) {
	for _, mode := range []string{"prod", "production", "PROD ", "test", "dev", ""} {
		log, err := New(mode)
		if err != nil {
			t.Fatalf("mode %q: %v", mode, err)
		}
		if log == nil {
			t.Fatalf("mode %q: expected a logger", mode)
		}
		// Children and every level must be usable regardless of mode.
		child := log.With("component", "logger_test")
		child.Debug("debug line", "k", 1)
		child.Info("info line")
		child.Warn("warn line")
		child.Error("error line")
	}
}
