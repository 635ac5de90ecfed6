package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestNewLoggerReturnsSingletonPerComponent(t *testing.T) {
	first := NewLogger("test-component")
	second := NewLogger("test-component")

	if first != second {
		t.Error("expected the same entry for repeated component lookups")
	}

	other := NewLogger("other-component")
	if first == other {
		t.Error("expected distinct entries for distinct components")
	}
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&TextFormatter{Config: FormatConfig{DisableTimestamp: true}})

	logger.WithField("component", "fmt-test").WithField("key", "value").Info("hello")

	out := buf.String()
	if !strings.Contains(out, "[INFO]") {
		t.Errorf("expected level tag in output, got %q", out)
	}
	if !strings.Contains(out, "fmt-test") {
		t.Errorf("expected component in output, got %q", out)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "key=value") {
		t.Errorf("expected extra fields in output, got %q", out)
	}
}

func TestTextFormatterTimestamp(t *testing.T) {
	f := &TextFormatter{Config: FormatConfig{}}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "careful",
		Data:    logrus.Fields{},
	}

	out, err := f.Format(entry)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(out), "2026-01-02 03:04:05") {
		t.Errorf("expected timestamp prefix, got %q", out)
	}
	if !strings.Contains(string(out), "[WARN]") {
		t.Errorf("expected shortened warn level, got %q", out)
	}
}
