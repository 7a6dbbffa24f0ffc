package logger

import (
	"strings"
	"testing"
)

func TestSanitizeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		in        string
		maxLength int
		want      string
	}{
		{name: "empty", in: "", maxLength: 10, want: ""},
		{name: "clean string passes through", in: "/api/v1/streaks", maxLength: 100, want: "/api/v1/streaks"},
		{name: "newlines stripped", in: "line1\nline2\rline3", maxLength: 100, want: "line1line2line3"},
		{name: "control characters stripped", in: "a\x00b\x1bc", maxLength: 100, want: "abc"},
		{name: "truncated with ellipsis", in: strings.Repeat("z", 20), maxLength: 10, want: strings.Repeat("z", 10) + "..."},
		{name: "invalid utf8 repaired", in: "ok\xffok", maxLength: 100, want: "okok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := SanitizeString(tt.in, tt.maxLength); got != tt.want {
				t.Errorf("SanitizeString(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizePathTruncates(t *testing.T) {
	t.Parallel()

	long := "/" + strings.Repeat("a", MaxPathLength+50)
	got := SanitizePath(long)
	if len(got) != MaxPathLength+3 {
		t.Errorf("expected truncation to %d chars plus ellipsis, got %d", MaxPathLength, len(got))
	}
}

func TestNewProductionLogger(t *testing.T) {
	t.Parallel()

	logger, err := NewProductionLogger(false)
	if err != nil {
		t.Fatalf("NewProductionLogger() error = %v", err)
	}
	logger.Info("startup")

	if err := Sync(nil); err != nil {
		t.Errorf("Sync(nil) should not error, got %v", err)
	}
}
