package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Diffraction-Limited/goboltwood/internal/observability"
	"github.com/Diffraction-Limited/goboltwood/internal/protocol/amalgam"
	"github.com/Diffraction-Limited/goboltwood/internal/protocol/registry"
	"github.com/Diffraction-Limited/goboltwood/internal/protocol/threshold"
	"github.com/Diffraction-Limited/goboltwood/internal/protocol/wire"
	"github.com/Diffraction-Limited/goboltwood/internal/transport"
	"github.com/rs/zerolog/log"
)

// Result is the outcome of one protocol round trip. A device rejection is an
// ordinary result with OK false and the device's message as Payload, not an
// error: the command was well-formed and the device answered.
type Result struct {
	OK      bool
	Status  wire.Status
	Payload string
}

// DeviceError surfaces a device rejection through the typed convenience
// operations, where there is no Result to carry it.
type DeviceError struct {
	Status  wire.Status
	Message string
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("client: device rejected command: %s: %s", e.Status, e.Message)
}

// Client is the protocol engine: one synchronous request/response call over a
// line transport. The protocol has no message IDs, so a mutex keeps exactly
// one request in flight per connection.
type Client struct {
	mu sync.Mutex
	tr transport.LineTransport
}

func New(tr transport.LineTransport) *Client {
	return &Client{tr: tr}
}

// Execute encodes one command, sends it, and decodes the single reply line.
// Encode failures return before the transport is touched. Transport and
// decode failures are errors; device-reported rejections are not.
func (c *Client) Execute(ctx context.Context, verb wire.Verb, iface registry.Interface, key, value string) (Result, error) {
	line, err := wire.EncodeCommand(verb, iface, key, value)
	if err != nil {
		observability.RecordCommand(iface.Token(), verb.String(), observability.OutcomeError, 0)
		return Result{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	result, err := c.roundTrip(ctx, line)
	elapsed := time.Since(start)
	switch {
	case err != nil:
		if errors.Is(err, transport.ErrTimedOut) {
			observability.RecordTransportTimeout()
		}
		observability.RecordCommand(iface.Token(), verb.String(), observability.OutcomeError, elapsed)
		log.Error().Err(err).Str("line", line).Msg("client: command failed")
		return Result{}, err
	case result.OK:
		observability.RecordCommand(iface.Token(), verb.String(), observability.OutcomeAccepted, elapsed)
	default:
		observability.RecordCommand(iface.Token(), verb.String(), observability.OutcomeRejected, elapsed)
		log.Warn().
			Stringer("status", result.Status).
			Str("message", result.Payload).
			Str("line", line).
			Msg("client: device rejected command")
	}
	return result, nil
}

func (c *Client) roundTrip(ctx context.Context, line string) (Result, error) {
	if err := c.tr.SendLine(ctx, line); err != nil {
		return Result{}, err
	}
	raw, err := c.tr.ReceiveLine(ctx)
	if err != nil {
		return Result{}, err
	}
	resp, err := wire.DecodeResponse(raw)
	if err != nil {
		return Result{}, err
	}
	return Result{OK: resp.OK(), Status: resp.Status, Payload: resp.Payload}, nil
}

// Get reads one property and returns its value string. A rejection surfaces
// as *DeviceError.
func (c *Client) Get(ctx context.Context, iface registry.Interface, key string) (string, error) {
	res, err := c.Execute(ctx, wire.Get, iface, key, "")
	if err != nil {
		return "", err
	}
	if !res.OK {
		return "", &DeviceError{Status: res.Status, Message: res.Payload}
	}
	return res.Payload, nil
}

// Put writes one property. A rejection surfaces as *DeviceError.
func (c *Client) Put(ctx context.Context, iface registry.Interface, key, value string) error {
	res, err := c.Execute(ctx, wire.Put, iface, key, value)
	if err != nil {
		return err
	}
	if !res.OK {
		return &DeviceError{Status: res.Status, Message: res.Payload}
	}
	return nil
}

// GetAll reads and decodes an interface's amalgamated ALL dump.
func (c *Client) GetAll(ctx context.Context, iface registry.Interface) (amalgam.Record, error) {
	payload, err := c.Get(ctx, iface, "all")
	if err != nil {
		return amalgam.Record{}, err
	}
	return amalgam.Decode(iface, payload)
}

// GetThresholds reads and decodes the OC threshold/trigger table.
func (c *Client) GetThresholds(ctx context.Context) (threshold.Record, error) {
	payload, err := c.Get(ctx, registry.ObservingConditions, "thresholds")
	if err != nil {
		return threshold.Record{}, err
	}
	return threshold.Decode(payload)
}

// PutThresholds writes the full threshold/trigger table back to the device.
func (c *Client) PutThresholds(ctx context.Context, rec threshold.Record) error {
	payload, err := rec.Encode()
	if err != nil {
		return err
	}
	return c.Put(ctx, registry.ObservingConditions, "thresholds", payload)
}

// IsSafe reads the safety monitor state.
func (c *Client) IsSafe(ctx context.Context) (bool, error) {
	payload, err := c.Get(ctx, registry.SafetyMonitor, "is_safe")
	if err != nil {
		return false, err
	}
	switch payload {
	case "1":
		return true, nil
	case "0":
		return false, nil
	default:
		return false, fmt.Errorf("%w: is_safe payload %q", wire.ErrMalformedResponse, payload)
	}
}

// Serial reads the device serial number.
func (c *Client) Serial(ctx context.Context) (string, error) {
	return c.Get(ctx, registry.DeviceDescriptor, "serial")
}
