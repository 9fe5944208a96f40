package fix

import (
	"log/slog"
	"sync"
	"testing"
)

func TestLogger_Interface(t *testing.T) {
	// Verify that *slog.Logger implements our Logger interface
	var _ Logger = slog.Default()
}

func TestDefaultLogger(t *testing.T) {
	logger := defaultLogger()

	if logger == nil {
		t.Fatal("defaultLogger returned nil")
	}

	if logger != slog.Default() {
		t.Error("defaultLogger did not return slog.Default()")
	}
}

func TestDefaultLogger_Methods(t *testing.T) {
	logger := defaultLogger()

	// These should not panic - just verify they can be called
	logger.Debug("debug message", "key", "value")
	logger.Info("info message", "key", "value")
	logger.Warn("warn message", "key", "value")
	logger.Error("error message", "key", "value")
}

// mockLogger records log calls; safe for use from both engine loops.
type mockLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *mockLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

func (l *mockLogger) logged(msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.messages {
		if m == msg {
			return true
		}
	}
	return false
}

func (l *mockLogger) Debug(msg string, args ...any) { l.record(msg) }
func (l *mockLogger) Info(msg string, args ...any)  { l.record(msg) }
func (l *mockLogger) Warn(msg string, args ...any)  { l.record(msg) }
func (l *mockLogger) Error(msg string, args ...any) { l.record(msg) }

func TestLogger_CustomImplementation(t *testing.T) {
	mock := &mockLogger{}
	var logger Logger = mock

	logger.Debug("test debug", "key1", "value1")
	logger.Info("test info", "key2", "value2")
	logger.Warn("test warn", "key3", "value3")
	logger.Error("test error", "key4", "value4")

	for _, msg := range []string{"test debug", "test info", "test warn", "test error"} {
		if !mock.logged(msg) {
			t.Errorf("message %q not recorded", msg)
		}
	}
}
