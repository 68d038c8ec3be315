package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNew(t *testing.T) {
	for _, f := range []Format{Console, JSON} {
		l, err := New("warn", f)
		if err != nil {
			t.Fatalf("New(%s): %v", f, err)
		}
		if l.Core().Enabled(zapcore.InfoLevel) {
			t.Errorf("%s logger should not log info at warn level", f)
		}
		if !l.Core().Enabled(zapcore.ErrorLevel) {
			t.Errorf("%s logger should log errors", f)
		}
	}

	if _, err := New("nope", Console); err == nil {
		t.Error("expected error")
	}
}
