package fix

import (
	"net"

	"github.com/pkg/errors"
)

// Engine mode labels.
const (
	ModeInitiator = "Initiator"
	ModeAcceptor  = "Acceptor"
)

// NewInitiator dials the acceptor at addr, starts an engine over the
// connection and returns it together with the outgoing and incoming message
// channels. The caller sends on outgoing and receives on incoming; Shutdown
// stops both loops and closes the connection.
func NewInitiator(addr string, opt ...Option) (*Engine, chan *Message, chan *Message, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "dial %s", addr)
	}

	engine, outgoing, incoming := startEngine(ModeInitiator, conn, opt)
	return engine, outgoing, incoming, nil
}

// NewAcceptor listens on addr, accepts a single connection and starts an
// engine over it. The listener is closed after the accept; one engine serves
// exactly one session.
func NewAcceptor(addr string, opt ...Option) (*Engine, chan *Message, chan *Message, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "listen %s", addr)
	}
	defer listener.Close()

	conn, err := listener.Accept()
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "accept")
	}

	engine, outgoing, incoming := startEngine(ModeAcceptor, conn, opt)
	return engine, outgoing, incoming, nil
}

func startEngine(mode string, conn net.Conn, opt []Option) (*Engine, chan *Message, chan *Message) {
	engine := NewEngine(mode, opt...)

	outgoing := make(chan *Message, engine.opts.bufferSize)
	incoming := make(chan *Message, engine.opts.bufferSize)
	engine.Start(conn, outgoing, incoming)

	return engine, outgoing, incoming
}
