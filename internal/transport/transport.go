package transport

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrTimedOut       = errors.New("transport: timed out")
	ErrConnectionLost = errors.New("transport: connection lost")
)

// LineTransport is the protocol engine's boundary to an already-open byte
// stream. SendLine writes one request line; ReceiveLine blocks for one reply
// line or a timeout. Implementations own framing and deadlines.
type LineTransport interface {
	SendLine(ctx context.Context, line string) error
	ReceiveLine(ctx context.Context) (string, error)
}

// Config defines serial link and timeout defaults.
type Config struct {
	Port        string
	BaudRate    int
	ReadTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		BaudRate:    115200,
		ReadTimeout: 3 * time.Second,
	}
}

// lineBuffer accumulates raw bytes and yields complete LF-terminated lines.
// A trailing CR is stripped so CRLF devices work unchanged.
type lineBuffer struct {
	pending []byte
}

func (b *lineBuffer) Feed(data []byte) {
	b.pending = append(b.pending, data...)
}

func (b *lineBuffer) Next() (string, bool) {
	i := bytes.IndexByte(b.pending, '\n')
	if i < 0 {
		return "", false
	}
	line := string(b.pending[:i])
	b.pending = b.pending[i+1:]
	return strings.TrimSuffix(line, "\r"), true
}
