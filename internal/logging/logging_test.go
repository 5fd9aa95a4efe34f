package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(42), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"info", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnknownLevel) {
			t.Errorf("ParseLevel(%q) error = %v, want ErrUnknownLevel", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func newTestLogger(buf *bytes.Buffer, level Level) *Logger {
	l := New(Config{Level: level, Output: buf, Prefix: "test"})
	l.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return l
}

func TestLogger_FormatAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, LevelDebug)

	l.WithComponent("drag").WithField("item", "a").Info("moved to %d,%d", 3, 4)

	want := "2024-05-01T12:00:00.000 [INFO] test: moved to 3,4 {component=drag, item=a}\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, LevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown")

	if n := strings.Count(buf.String(), "\n"); n != 2 {
		t.Errorf("got %d lines, want 2:\n%s", n, buf.String())
	}
	if l.Enabled(LevelInfo) {
		t.Error("Enabled(Info) = true at warn level")
	}

	l.SetLevel(LevelDebug)
	if !l.Enabled(LevelDebug) {
		t.Error("Enabled(Debug) = false after SetLevel(Debug)")
	}
}

func TestLogger_SetLevelReachesDerived(t *testing.T) {
	var buf bytes.Buffer
	root := newTestLogger(&buf, LevelInfo)
	child := root.WithComponent("drag").WithField("item", "0")

	child.Debug("hidden")
	root.SetLevel(LevelDebug)
	child.Debug("pressed")

	if got := buf.String(); strings.Contains(got, "hidden") || !strings.Contains(got, "[DEBUG] test: pressed {component=drag, item=0}") {
		t.Errorf("output = %q, want only the debug line after SetLevel", got)
	}

	// Setting the level on a derived logger changes the whole family.
	child.SetLevel(LevelError)
	if root.Enabled(LevelWarn) {
		t.Error("root still enabled at warn after child.SetLevel(Error)")
	}
}

func TestLogger_FieldOverride(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, LevelInfo)

	l.WithField("k", 1).WithField("k", 2).Info("x")
	if !strings.Contains(buf.String(), "{k=2}") {
		t.Errorf("output = %q, want single field k=2", buf.String())
	}
}

func TestNull(t *testing.T) {
	l := Null()
	l.Error("nothing")
	if l.Enabled(LevelError) {
		t.Error("Null logger reports enabled")
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.log")

	l, closeFn, err := Open(path, LevelInfo)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	l.Info("hello")
	if err := closeFn(); err != nil {
		t.Fatalf("close error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[INFO] reorderlist: hello") {
		t.Errorf("log file = %q", data)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	l, closeFn, err := Open("", LevelDebug)
	if err != nil {
		t.Fatalf("Open(\"\") error = %v", err)
	}
	if l.Enabled(LevelError) {
		t.Error("empty path should give a disabled logger")
	}
	if err := closeFn(); err != nil {
		t.Errorf("close error = %v", err)
	}
}
