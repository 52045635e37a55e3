package exporter

import (
	"context"
	"sync"
	"time"

	"github.com/Diffraction-Limited/goboltwood/internal/client"
	"github.com/Diffraction-Limited/goboltwood/internal/mqtt"
	"github.com/Diffraction-Limited/goboltwood/internal/observability"
	"github.com/Diffraction-Limited/goboltwood/internal/protocol/registry"
	"github.com/rs/zerolog/log"
)

// Config configures the polling loop.
type Config struct {
	PollInterval time.Duration
}

func DefaultConfig() Config {
	return Config{PollInterval: 30 * time.Second}
}

// Status is a snapshot of the poller for the HTTP status endpoint.
type Status struct {
	Polls      uint64    `json:"polls"`
	Failures   uint64    `json:"failures"`
	LastPollAt time.Time `json:"last_poll_at"`
	LastError  string    `json:"last_error,omitempty"`
	Safe       *bool     `json:"safe,omitempty"`
}

// Service polls the device on an interval, feeds the sensor gauges, and
// optionally republishes readings over MQTT. Retry policy stays here, not in
// the protocol engine: a failed poll is logged and the next tick tries again.
type Service struct {
	client *client.Client
	pub    *mqtt.Publisher
	cfg    Config

	mu     sync.RWMutex
	status Status
}

// New builds a service. pub may be nil to run metrics-only.
func New(cl *client.Client, pub *mqtt.Publisher, cfg Config) *Service {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultConfig().PollInterval
	}
	return &Service{client: cl, pub: pub, cfg: cfg}
}

// Status returns the current poller snapshot.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Run polls once immediately, then on every tick until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	observability.RegisterMetrics()
	log.Info().Dur("interval", s.cfg.PollInterval).Msg("exporter: polling started")

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	s.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("exporter: polling stopped")
			return nil
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

func (s *Service) poll(ctx context.Context) {
	err := s.pollOnce(ctx)

	s.mu.Lock()
	s.status.Polls++
	s.status.LastPollAt = time.Now().UTC()
	if err != nil {
		s.status.Failures++
		s.status.LastError = err.Error()
	} else {
		s.status.LastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Msg("exporter: poll failed")
	}
}

func (s *Service) pollOnce(ctx context.Context) error {
	rec, err := s.client.GetAll(ctx, registry.ObservingConditions)
	if err != nil {
		return err
	}
	for _, v := range rec.Values() {
		observability.RecordCondition(v.Name, v.Number)
	}

	safe, err := s.client.IsSafe(ctx)
	if err != nil {
		return err
	}
	observability.RecordSafe(safe)

	s.mu.Lock()
	s.status.Safe = &safe
	s.mu.Unlock()

	if s.pub != nil {
		if err := s.pub.PublishConditions(rec); err != nil {
			return err
		}
		if err := s.pub.PublishSafety(safe); err != nil {
			return err
		}
	}
	return nil
}
