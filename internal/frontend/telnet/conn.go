package telnet

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
)

// Telnet IAC (Interpret As Command) constants per RFC 854.
const (
	IAC  byte = 255 // Interpret As Command
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250 // Sub-negotiation Begin
	SE   byte = 240 // Sub-negotiation End

	OptSuppressGoAhead byte = 3
)

// maxLineBytes caps a single input line.
const maxLineBytes = 1024

// Conn wraps a TCP connection with Telnet line handling. Input is filtered
// of IAC sequences and control bytes; output newlines are sent as CRLF.
type Conn struct {
	id     string
	raw    net.Conn
	reader *bufio.Reader
	mu     sync.Mutex

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewConn wraps a raw TCP connection.
//
// Precondition: raw must be a valid, open network connection.
func NewConn(id string, raw net.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{
		id:           id,
		raw:          raw,
		reader:       bufio.NewReaderSize(raw, 4096),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// ID returns the connection's unique identifier.
func (c *Conn) ID() string {
	return c.id
}

// Negotiate asks the client to suppress go-ahead.
func (c *Conn) Negotiate() error {
	return c.Write([]byte{IAC, WILL, OptSuppressGoAhead})
}

// ReadLine reads one line of input without its line terminator. IAC
// sequences and control bytes other than tab are dropped, and invalid
// UTF-8 is replaced.
//
// Postcondition: Returns the next line, or an error (including io.EOF).
func (c *Conn) ReadLine() (string, error) {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	}

	var line bytes.Buffer
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			return sanitize(line.Bytes()), err
		}

		switch {
		case b == IAC:
			if err := c.skipCommand(); err != nil {
				return sanitize(line.Bytes()), err
			}
			continue
		case b == '\n':
			return sanitize(line.Bytes()), nil
		case b == '\r':
			if next, err := c.reader.Peek(1); err == nil && (next[0] == '\n' || next[0] == 0) {
				_, _ = c.reader.ReadByte()
			}
			return sanitize(line.Bytes()), nil
		case b < 32 && b != '\t':
			continue
		}
		if line.Len() < maxLineBytes {
			line.WriteByte(b)
		}
	}
}

func sanitize(b []byte) string {
	return strings.ToValidUTF8(string(b), "?")
}

// skipCommand consumes the rest of an IAC sequence.
func (c *Conn) skipCommand() error {
	cmd, err := c.reader.ReadByte()
	if err != nil {
		return err
	}
	switch cmd {
	case WILL, WONT, DO, DONT:
		_, err := c.reader.ReadByte()
		return err
	case SB:
		var prev byte
		for {
			b, err := c.reader.ReadByte()
			if err != nil {
				return err
			}
			if prev == IAC && b == SE {
				return nil
			}
			prev = b
		}
	}
	return nil
}

// WriteText sends text followed by CRLF, converting embedded newlines to CRLF.
func (c *Conn) WriteText(text string) error {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return c.Write([]byte(strings.ReplaceAll(text, "\n", "\r\n") + "\r\n"))
}

// Prompt sends text without a line terminator.
func (c *Conn) Prompt(text string) error {
	return c.Write([]byte(text))
}

// Ask sends a prompt and reads the answer, trimmed of surrounding space.
func (c *Conn) Ask(prompt string) (string, error) {
	if err := c.Prompt(prompt); err != nil {
		return "", fmt.Errorf("writing prompt: %w", err)
	}
	line, err := c.ReadLine()
	return strings.TrimSpace(line), err
}

// Write sends raw bytes to the client.
func (c *Conn) Write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	_, err := c.raw.Write(data)
	return err
}

// Close closes the underlying TCP connection.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// RemoteAddr returns the remote network address of the client.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}
