// Package fix implements the wire-level message layer of a point-to-point,
// session-oriented FIX-style protocol: a tag=value codec with body-length and
// checksum validation, reassembly of complete messages from a fragmented byte
// stream, and a duplex engine running concurrent send/receive loops over one
// transport connection.
//
// Session semantics (logon enforcement, sequence-gap detection, heartbeats,
// resend requests) are out of scope; the engine moves validated messages
// between the connection and a pair of channels and nothing more.
package fix

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// State describes the engine lifecycle.
type State int32

const (
	// StateRunning is the initial state, set at construction.
	StateRunning State = iota
	// StateShuttingDown is entered when Shutdown is called.
	StateShuttingDown
	// StateStopped is entered once both loops have exited.
	StateStopped
)

// Engine owns one transport connection and runs a receive loop
// (read, reassemble, decode, publish) and a send loop (consume, encode,
// write) as two independently cancellable goroutines.
//
// The only state shared between the loops is the atomic lifecycle flag; the
// connection's read side is used exclusively by the receive loop and the
// write side by the send loop. Cancellation is cooperative: each loop blocks
// for at most the poll interval before rechecking the flag, so shutdown
// latency is bounded by one interval plus any in-flight operation.
//
// A fault in one loop is fatal to that loop only; the other keeps running.
// The engine exposes no combined health signal, so callers needing fail-fast
// behavior must observe the connection or channels externally.
type Engine struct {
	mode string

	opts   options
	codec  *Codec
	logger Logger

	state atomic.Int32
	group errgroup.Group
	conn  net.Conn
}

// NewEngine creates an engine in the Running state. The mode string only
// labels log output (conventionally "Initiator" or "Acceptor").
func NewEngine(mode string, opt ...Option) *Engine {
	var opts options
	for _, o := range opt {
		o(&opts)
	}
	checkOptions(&opts)

	e := &Engine{
		mode:   mode,
		opts:   opts,
		codec:  NewCodec(opts.clock),
		logger: opts.logger,
	}
	e.state.Store(int32(StateRunning))
	return e
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

func (e *Engine) running() bool {
	return e.State() == StateRunning
}

// Start spawns the receive and send loops over the given connection.
// Messages arriving on outgoing are encoded and written in request order;
// messages decoded from the connection are published to incoming in arrival
// order. The loops run until Shutdown is called or their side of the
// transport fails.
func (e *Engine) Start(conn net.Conn, outgoing <-chan *Message, incoming chan<- *Message) {
	e.logger.Info("engine starting", "mode", e.mode)
	e.conn = conn

	e.group.Go(func() error {
		return e.receiveLoop(conn, incoming)
	})

	e.group.Go(func() error {
		return e.sendLoop(conn, outgoing)
	})
}

// Shutdown signals both loops to stop, blocks until they have exited and
// closes the connection. A loop that exited with a transport error is
// logged, not raised.
// Intended to be called exactly once by the owning caller.
func (e *Engine) Shutdown() {
	e.logger.Info("engine shutting down", "mode", e.mode)
	e.state.Store(int32(StateShuttingDown))

	if err := e.group.Wait(); err != nil {
		e.logger.Error("loop exited with error", "mode", e.mode, "error", err)
	}
	if e.conn != nil {
		_ = e.conn.Close()
	}

	e.state.Store(int32(StateStopped))
	e.logger.Info("engine stopped", "mode", e.mode)
}

// receiveLoop reads chunks from the connection with a bounded deadline,
// reassembles complete frames, decodes them and publishes the results.
// Malformed frames are dropped and processing continues on the remainder.
func (e *Engine) receiveLoop(conn net.Conn, incoming chan<- *Message) error {
	reassembler := NewReassembler()
	chunk := make([]byte, e.opts.chunkSize)

	for e.running() {
		_ = conn.SetReadDeadline(time.Now().Add(e.opts.pollInterval))

		n, err := conn.Read(chunk)
		if n > 0 {
			// A single read may complete several messages; drain the
			// reassembler before blocking on the transport again.
			for frame, ok := reassembler.Feed(chunk[:n]); ok; frame, ok = reassembler.Feed(nil) {
				message, decodeErr := e.codec.Decode(string(frame))
				if decodeErr != nil {
					e.logger.Debug("dropping malformed message",
						"mode", e.mode, "error", decodeErr)
					continue
				}
				e.logger.Debug("received message",
					"mode", e.mode, "msg_type", message.MsgType(), "seq_num", message.SeqNum())
				incoming <- message
			}
		}
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue // deadline elapsed; loop recheck of the shutdown flag
			}
			e.logger.Debug("receive loop exiting", "mode", e.mode, "error", err)
			return errors.Wrap(err, "transport read")
		}
	}

	return nil
}

// sendLoop consumes outgoing messages, encodes them and writes each one fully
// to the connection. A write error is fatal to this loop only.
func (e *Engine) sendLoop(conn net.Conn, outgoing <-chan *Message) error {
	for e.running() {
		select {
		case message, ok := <-outgoing:
			if !ok {
				e.logger.Debug("outgoing channel closed", "mode", e.mode)
				return nil
			}
			payload := e.codec.Encode(message)
			e.logger.Debug("sending message",
				"mode", e.mode, "msg_type", message.MsgType(), "seq_num", message.SeqNum())
			if _, err := conn.Write([]byte(payload)); err != nil {
				e.logger.Debug("send loop exiting", "mode", e.mode, "error", err)
				return errors.Wrap(err, "transport write")
			}
		case <-time.After(e.opts.pollInterval):
			// recheck the shutdown flag
		}
	}

	return nil
}
