package fix

import (
	"testing"
	"time"
)

func TestClockOption(t *testing.T) {
	clock := fixedClock{}
	opt := ClockOption(clock)

	var opts options
	opt(&opts)

	if opts.clock != clock {
		t.Error("clock not set correctly")
	}
}

func TestLoggerOption(t *testing.T) {
	logger := &mockLogger{}
	opt := LoggerOption(logger)

	var opts options
	opt(&opts)

	if opts.logger != logger {
		t.Error("logger not set correctly")
	}
}

func TestPollIntervalOption(t *testing.T) {
	opt := PollIntervalOption(50 * time.Millisecond)

	var opts options
	opt(&opts)

	if opts.pollInterval != 50*time.Millisecond {
		t.Errorf("pollInterval = %v, want 50ms", opts.pollInterval)
	}
}

func TestChunkSizeOption(t *testing.T) {
	opt := ChunkSizeOption(4096)

	var opts options
	opt(&opts)

	if opts.chunkSize != 4096 {
		t.Errorf("chunkSize = %d, want 4096", opts.chunkSize)
	}
}

func TestBufferSizeOption(t *testing.T) {
	opt := BufferSizeOption(8)

	var opts options
	opt(&opts)

	if opts.bufferSize != 8 {
		t.Errorf("bufferSize = %d, want 8", opts.bufferSize)
	}
}

func TestCheckOptions_Defaults(t *testing.T) {
	var opts options
	checkOptions(&opts)

	if opts.clock == nil {
		t.Error("default clock not set")
	}
	if opts.logger == nil {
		t.Error("default logger not set")
	}
	if opts.pollInterval != defaultPollInterval {
		t.Errorf("pollInterval = %v, want %v", opts.pollInterval, defaultPollInterval)
	}
	if opts.chunkSize != defaultChunkSize {
		t.Errorf("chunkSize = %d, want %d", opts.chunkSize, defaultChunkSize)
	}
	if opts.bufferSize != defaultBufferSize {
		t.Errorf("bufferSize = %d, want %d", opts.bufferSize, defaultBufferSize)
	}
}

func TestCheckOptions_KeepsExplicitValues(t *testing.T) {
	opts := options{
		clock:        fixedClock{},
		logger:       &mockLogger{},
		pollInterval: 10 * time.Millisecond,
		chunkSize:    64,
		bufferSize:   2,
	}
	checkOptions(&opts)

	if opts.pollInterval != 10*time.Millisecond || opts.chunkSize != 64 || opts.bufferSize != 2 {
		t.Error("checkOptions overwrote explicit values")
	}
	if (opts.clock != fixedClock{}) {
		t.Error("checkOptions overwrote explicit clock")
	}
}
