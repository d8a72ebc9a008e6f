// Package server exposes the notification stream over a line-oriented TCP
// protocol so ops tooling can tail attendance activity without going through
// the HTTP API.
package server

import (
	"bufio"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
)

// StreamServer pushes every line published to the broadcaster to each
// connected client. Clients may send PING (answered with PONG) and QUIT;
// everything else is ignored.
type StreamServer struct {
	broadcaster Subscriber
	cert        *tls.Certificate

	mu       sync.Mutex
	listener net.Listener
}

// Subscriber is the part of the broadcaster the stream server needs.
type Subscriber interface {
	Subscribe() (<-chan string, func())
}

// NewStreamServer creates a server over the given broadcaster.
func NewStreamServer(b Subscriber) *StreamServer {
	return &StreamServer{broadcaster: b}
}

// SetCertificate enables TLS with the given certificate.
func (s *StreamServer) SetCertificate(cert tls.Certificate) {
	s.cert = &cert
}

// Listen starts accepting connections on the port and blocks until the
// listener is closed via Stop.
func (s *StreamServer) Listen(port string) error {
	var listener net.Listener
	var err error

	if s.cert != nil {
		config := &tls.Config{Certificates: []tls.Certificate{*s.cert}}
		listener, err = tls.Listen("tcp", ":"+port, config)
	} else {
		listener, err = net.Listen("tcp", ":"+port)
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	defer listener.Close()

	semaphore := make(chan struct{}, 100) // Max 100 concurrent tails

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			continue
		}

		go func(c net.Conn) {
			semaphore <- struct{}{}
			defer func() {
				<-semaphore
				c.Close()
			}()
			s.handleConnection(c)
		}(conn)
	}
}

// Addr returns the bound listener address, or "" before Listen has bound.
func (s *StreamServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop closes the listener; Listen returns afterwards.
func (s *StreamServer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		s.listener.Close()
		s.listener = nil
	}
}

func (s *StreamServer) handleConnection(conn net.Conn) {
	lines, cancel := s.broadcaster.Subscribe()
	defer cancel()

	// Reader side: commands from the client. Closing done ends the writer.
	done := make(chan struct{})
	go func() {
		defer close(done)
		reader := bufio.NewReader(conn)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			switch strings.ToUpper(strings.TrimSpace(line)) {
			case "PING":
				fmt.Fprintln(conn, "PONG")
			case "QUIT":
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-lines:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if _, err := fmt.Fprintln(conn, msg); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
