package testutil

import (
	"net"
	"strings"
	"testing"
	"time"
)

// TelnetClient drives a Telnet server line by line in tests. Output read
// past a match is kept for the next ReadUntil.
type TelnetClient struct {
	t       *testing.T
	conn    net.Conn
	pending strings.Builder
}

// NewTelnetClient connects to addr.
//
// Postcondition: The connection is closed by t.Cleanup.
func NewTelnetClient(t *testing.T, addr string) *TelnetClient {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		t.Fatalf("dialing %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return &TelnetClient{t: t, conn: conn}
}

// ReadUntil consumes output up to and including the first occurrence of
// substr and returns it. The test fails if substr does not arrive in time.
//
// Precondition: substr must be non-empty.
func (c *TelnetClient) ReadUntil(substr string, timeout time.Duration) string {
	c.t.Helper()
	deadline := time.Now().Add(timeout)
	buf := make([]byte, 1024)
	for {
		have := c.pending.String()
		if i := strings.Index(have, substr); i >= 0 {
			end := i + len(substr)
			c.pending.Reset()
			c.pending.WriteString(have[end:])
			return have[:end]
		}
		_ = c.conn.SetReadDeadline(deadline)
		n, err := c.conn.Read(buf)
		c.pending.Write(buf[:n])
		if err != nil && !strings.Contains(c.pending.String(), substr) {
			c.t.Fatalf("waiting for %q: got %q: %v", substr, c.pending.String(), err)
		}
	}
}

// Send writes text followed by CRLF.
func (c *TelnetClient) Send(text string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := c.conn.Write([]byte(text + "\r\n")); err != nil {
		c.t.Fatalf("sending %q: %v", text, err)
	}
}

// Close closes the connection.
func (c *TelnetClient) Close() {
	_ = c.conn.Close()
}
