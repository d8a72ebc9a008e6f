package sdk

import (
	"bufio"
	"crypto/tls"
	"fmt"
	"net"
	"strings"
	"time"
)

// LogStream tails the daemon's TCP notification stream.
type LogStream struct {
	conn   net.Conn
	reader *bufio.Reader
}

// DialLogStream connects to the stream server. With useTLS the dial skips
// certificate verification, since the daemon serves a self-signed cert for
// internal traffic.
func DialLogStream(addr string, useTLS bool) (*LogStream, error) {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 60 * time.Second,
	}

	var conn net.Conn
	var err error
	if useTLS {
		config := &tls.Config{InsecureSkipVerify: true}
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, config)
	} else {
		conn, err = dialer.Dial("tcp", addr)
	}
	if err != nil {
		return nil, err
	}
	return &LogStream{conn: conn, reader: bufio.NewReader(conn)}, nil
}

// Recv blocks until the next status line arrives.
func (s *LogStream) Recv() (string, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Close tells the server we are done and drops the connection.
func (s *LogStream) Close() error {
	fmt.Fprintln(s.conn, "QUIT")
	return s.conn.Close()
}
