package fix

import (
	"time"
)

// options holds the configuration for an engine.
type options struct {
	clock  Clock
	logger Logger

	pollInterval time.Duration // shutdown-flag recheck interval for both loops
	chunkSize    int           // size of the temporary read buffer
	bufferSize   int           // capacity of the incoming/outgoing channels
}

// Option is a function that configures engine options.
type Option func(*options)

// ClockOption returns an Option that sets the time source used to populate
// SendingTime on outgoing messages. Defaults to the system clock.
func ClockOption(clock Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// LoggerOption returns an Option that sets the logger.
// If not set, the default slog logger will be used.
func LoggerOption(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// PollIntervalOption returns an Option that sets the timeout both loops use
// before rechecking the shutdown flag. It bounds shutdown latency: a blocked
// read or channel wait only notices the flag once the interval elapses.
func PollIntervalOption(interval time.Duration) Option {
	return func(o *options) {
		o.pollInterval = interval
	}
}

// ChunkSizeOption returns an Option that sets the size of the temporary
// buffer used for each transport read.
func ChunkSizeOption(size int) Option {
	return func(o *options) {
		o.chunkSize = size
	}
}

// BufferSizeOption returns an Option that sets the capacity of the message
// channels allocated by NewInitiator and NewAcceptor.
func BufferSizeOption(size int) Option {
	return func(o *options) {
		o.bufferSize = size
	}
}

// Default configuration values.
const (
	// defaultPollInterval is how long a loop blocks before rechecking the
	// shutdown flag.
	defaultPollInterval = time.Second
	// defaultChunkSize is the size of the temporary read buffer.
	defaultChunkSize = 512
	// defaultBufferSize is the capacity of the message channels.
	defaultBufferSize = 1024
)

// checkOptions sets default values for unset engine options.
func checkOptions(opts *options) {
	if opts.clock == nil {
		opts.clock = NewSystemClock()
	}

	if opts.logger == nil {
		opts.logger = defaultLogger()
	}

	if opts.pollInterval <= 0 {
		opts.pollInterval = defaultPollInterval
	}

	if opts.chunkSize <= 0 {
		opts.chunkSize = defaultChunkSize
	}

	if opts.bufferSize <= 0 {
		opts.bufferSize = defaultBufferSize
	}
}
