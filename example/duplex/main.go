package main

import (
	"log/slog"
	"time"

	"github.com/Zereker/fix"
)

const addr = "127.0.0.1:12345"

// Minimal initiator/acceptor pair: the initiator sends a Logon, the acceptor
// answers with an ExecutionReport, both shut down.
func main() {
	acceptorDone := make(chan struct{})

	go func() {
		defer close(acceptorDone)

		engine, outgoing, incoming, err := fix.NewAcceptor(addr)
		if err != nil {
			slog.Error("acceptor failed", "error", err)
			return
		}

		message := <-incoming
		slog.Info("acceptor received", "msg_type", message.MsgType(), "message", message)

		outgoing <- newExecutionReport()
		time.Sleep(100 * time.Millisecond) // let the write drain before shutdown
		engine.Shutdown()
	}()

	// Give the acceptor time to start listening.
	time.Sleep(100 * time.Millisecond)

	engine, outgoing, incoming, err := fix.NewInitiator(addr)
	if err != nil {
		slog.Error("initiator failed", "error", err)
		return
	}

	outgoing <- newLogon()

	response := <-incoming
	slog.Info("initiator received", "msg_type", response.MsgType(), "message", response)

	engine.Shutdown()
	<-acceptorDone
}

func newLogon() *fix.Message {
	m := fix.NewMessage()
	m.Header[fix.TagMsgType] = fix.MsgTypeLogon
	m.Header[fix.TagSenderCompID] = "INITIATOR"
	m.Header[fix.TagTargetCompID] = "ACCEPTOR"
	m.Header[fix.TagMsgSeqNum] = "1"
	m.Body["98"] = "0"   // EncryptMethod: none
	m.Body["108"] = "30" // HeartBtInt
	return m
}

func newExecutionReport() *fix.Message {
	m := fix.NewMessage()
	m.Header[fix.TagMsgType] = fix.MsgTypeExecutionReport
	m.Header[fix.TagSenderCompID] = "ACCEPTOR"
	m.Header[fix.TagTargetCompID] = "INITIATOR"
	m.Header[fix.TagMsgSeqNum] = "2"
	m.Body["55"] = "EURUSD" // Symbol
	return m
}
