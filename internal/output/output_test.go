package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestEmitJSONModeIndents(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, ModeJSON, true)
	if err := w.Emit(map[string]string{"id": "bd-1"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"id\"") {
		t.Errorf("expected indented JSON, got %q", buf.String())
	}
}

func TestEmitJSONLModeIsOneLine(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, ModeJSONL, true)
	if err := w.Emit(map[string]string{"id": "bd-1"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("expected exactly one newline, got %q", buf.String())
	}
	var decoded map[string]string
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestLineOnlyWritesInPlainMode(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, ModeJSON, true)
	w.Line("should not appear")
	if buf.Len() != 0 {
		t.Errorf("expected no output in JSON mode, got %q", buf.String())
	}

	var plainBuf bytes.Buffer
	plain := New(&plainBuf, ModePlain, true)
	plain.Line("hello %s", "world")
	if plainBuf.String() != "hello world\n" {
		t.Errorf("Line output = %q, want %q", plainBuf.String(), "hello world\n")
	}
}

func TestColorDisabledWhenColorEnabledFalse(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, ModePlain, false)
	got := w.Green("ok")
	if got != "ok" {
		t.Errorf("Green(%q) = %q, want plain text with color disabled", "ok", got)
	}
}

func TestRelativeFormatsPastTime(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	got := Relative(past)
	if got == "" {
		t.Error("expected a non-empty relative time string")
	}
}

func TestRelativeZeroTimeIsEmpty(t *testing.T) {
	if got := Relative(time.Time{}); got != "" {
		t.Errorf("Relative(zero) = %q, want empty string", got)
	}
}
