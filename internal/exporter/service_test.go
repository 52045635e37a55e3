package exporter

import (
	"context"
	"testing"
	"time"

	"github.com/Diffraction-Limited/goboltwood/internal/client"
	"github.com/Diffraction-Limited/goboltwood/internal/testutil/testlog"
	"github.com/Diffraction-Limited/goboltwood/internal/transport"
)

const ocDump = "12.5 4.2 55 1013.2 0 18.4 20.9 -28.6 14.1 270 3.4 1.2"

// loopTransport answers every G OC ALL with a dump and every G SM ISSAFE
// with safe, forever.
type loopTransport struct {
	last string
}

func (f *loopTransport) SendLine(_ context.Context, line string) error {
	f.last = line
	return nil
}

func (f *loopTransport) ReceiveLine(_ context.Context) (string, error) {
	switch f.last {
	case "G OC ALL":
		return "0 " + ocDump, nil
	case "G SM ISSAFE":
		return "0 1", nil
	default:
		return "1 unexpected command", nil
	}
}

func TestPollOnceUpdatesStatus(t *testing.T) {
	testlog.Start(t)
	svc := New(client.New(&loopTransport{}), nil, DefaultConfig())
	if err := svc.pollOnce(context.Background()); err != nil {
		t.Fatalf("poll once: %v", err)
	}
	st := svc.Status()
	if st.Safe == nil || !*st.Safe {
		t.Fatalf("safety state not captured: %+v", st)
	}
}

func TestPollFailureIsRecordedNotFatal(t *testing.T) {
	testlog.Start(t)
	svc := New(client.New(&timeoutTransport{}), nil, DefaultConfig())
	svc.poll(context.Background())
	st := svc.Status()
	if st.Polls != 1 || st.Failures != 1 || st.LastError == "" {
		t.Fatalf("failure not recorded: %+v", st)
	}
}

type timeoutTransport struct{}

func (timeoutTransport) SendLine(context.Context, string) error { return nil }
func (timeoutTransport) ReceiveLine(context.Context) (string, error) {
	return "", transport.ErrTimedOut
}

func TestRunStopsOnContextCancel(t *testing.T) {
	testlog.Start(t)
	svc := New(client.New(&loopTransport{}), nil, Config{PollInterval: 10 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("run did not stop on cancel")
	}
	if svc.Status().Polls < 2 {
		t.Fatalf("expected repeated polls, got %+v", svc.Status())
	}
}
