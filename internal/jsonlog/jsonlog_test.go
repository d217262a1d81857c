package jsonlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	t.Run("below minimum level is dropped", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, LevelError)
		l.PrintInfo("should not appear", nil)
		if buf.Len() != 0 {
			t.Errorf("expected no output; got %q", buf.String())
		}
	})

	t.Run("info entry is valid JSON with properties", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, LevelInfo)
		l.PrintInfo("starting server", map[string]string{"addr": ":4000"})
		var entry struct {
			Level      string            `json:"level"`
			Message    string            `json:"message"`
			Properties map[string]string `json:"properties"`
			Trace      string            `json:"trace"`
		}
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if entry.Level != "INFO" {
			t.Errorf("expected level INFO; got %s", entry.Level)
		}
		if entry.Message != "starting server" {
			t.Errorf("expected message %q; got %q", "starting server", entry.Message)
		}
		if entry.Properties["addr"] != ":4000" {
			t.Errorf("expected addr property; got %v", entry.Properties)
		}
		if entry.Trace != "" {
			t.Error("info entries should not carry a stack trace")
		}
	})

	t.Run("error entry carries a stack trace", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, LevelInfo)
		l.PrintError(errors.New("boom"), nil)
		var entry struct {
			Level string `json:"level"`
			Trace string `json:"trace"`
		}
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if entry.Level != "ERROR" {
			t.Errorf("expected level ERROR; got %s", entry.Level)
		}
		if entry.Trace == "" {
			t.Error("expected a stack trace on error entries")
		}
	})

	t.Run("Write logs at error level", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, LevelInfo)
		if _, err := l.Write([]byte("http server error")); err != nil {
			t.Fatal(err)
		}
		if !bytes.Contains(buf.Bytes(), []byte(`"level":"ERROR"`)) {
			t.Errorf("expected an ERROR entry; got %s", buf.String())
		}
	})
}
