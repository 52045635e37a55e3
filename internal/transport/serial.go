package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

var ErrPortRequired = errors.New("transport: serial port name required")

// readSlice bounds each blocking port read so ReceiveLine can notice its
// deadline and context between reads.
const readSlice = 50 * time.Millisecond

// Serial is a LineTransport over one open serial port. It is not safe for
// concurrent use; the client serializes access.
type Serial struct {
	port serial.Port
	cfg  Config
	buf  lineBuffer
}

// OpenSerial opens the configured port and wraps it in line framing.
func OpenSerial(cfg Config) (*Serial, error) {
	if strings.TrimSpace(cfg.Port) == "" {
		return nil, ErrPortRequired
	}
	port, err := serial.Open(cfg.Port, &serial.Mode{BaudRate: cfg.BaudRate})
	if err != nil {
		return nil, fmt.Errorf("transport: open %s: %w", cfg.Port, err)
	}
	if err := port.SetReadTimeout(readSlice); err != nil {
		port.Close()
		return nil, fmt.Errorf("transport: set read timeout: %w", err)
	}
	log.Info().Str("port", cfg.Port).Int("baud", cfg.BaudRate).Msg("transport: serial port open")
	return &Serial{port: port, cfg: cfg}, nil
}

// SendLine writes one request line, appending the linefeed terminator.
func (s *Serial) SendLine(ctx context.Context, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.port.Write([]byte(line + "\n")); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrConnectionLost
		}
		return fmt.Errorf("%w: %v", ErrConnectionLost, err)
	}
	log.Debug().Str("line", line).Msg("transport: sent")
	return nil
}

// ReceiveLine blocks until one full reply line arrives, the configured read
// timeout elapses, or ctx is done. A context deadline earlier than the
// configured timeout wins.
func (s *Serial) ReceiveLine(ctx context.Context) (string, error) {
	deadline := time.Now().Add(s.cfg.ReadTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	tmp := make([]byte, 256)
	for {
		if line, ok := s.buf.Next(); ok {
			log.Debug().Str("line", line).Msg("transport: received")
			return line, nil
		}
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return "", ErrTimedOut
			}
			return "", err
		}
		if time.Now().After(deadline) {
			log.Warn().Dur("timeout", s.cfg.ReadTimeout).Msg("transport: receive timed out")
			return "", ErrTimedOut
		}
		n, err := s.port.Read(tmp)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", ErrConnectionLost
			}
			return "", fmt.Errorf("%w: %v", ErrConnectionLost, err)
		}
		s.buf.Feed(tmp[:n])
	}
}

// Close releases the underlying port.
func (s *Serial) Close() error {
	return s.port.Close()
}
