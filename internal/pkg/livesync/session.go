// Package livesync keeps a display in step with a bakeout device. It prefers the push
// channel and falls back to polling get/all when the push channel cannot be used.
//
// All session state is owned by the goroutine running Session.Run. Socket callbacks,
// timers and callers from other goroutines only post closures onto the event queue, so
// handlers never overlap and device fetches are never concurrent.
package livesync

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/anicoll/bakeout-livesync/internal/pkg/config"
	"github.com/anicoll/bakeout-livesync/internal/pkg/display"
	"github.com/anicoll/bakeout-livesync/internal/pkg/model"
	"github.com/anicoll/bakeout-livesync/internal/pkg/registry"
	"github.com/anicoll/bakeout-livesync/pkg/sockets"
)

var ErrStopped = errors.New("session stopped")

const eventQueueSize = 256

type deviceClient interface {
	GetAll(ctx context.Context) (model.ReadResponse, error)
	Get(ctx context.Context, codename string) (model.ReadResponse, error)
	Set(ctx context.Context, values map[string]float64) (string, error)
}

type connFactory func(opts ...func(*sockets.Conn)) sockets.Connection

type event func(ctx context.Context)

type Session struct {
	cfg      *config.DeviceConfig
	tuning   *config.Tuning
	scheme   config.ColorScheme
	registry *registry.Registry
	display  display.Display
	device   deviceClient
	newConn  connFactory
	logger   *zap.Logger

	events chan event
	done   chan struct{}

	// owned by the Run goroutine
	conn           sockets.Connection
	firstLiveEvent bool

	state atomic.Value // model.TransportState
	stats counters
}

type counters struct {
	liveEvents      atomic.Int64
	discardedEvents atomic.Int64
	polls           atomic.Int64
	sets            atomic.Int64
	errors          atomic.Int64
}

type Stats struct {
	State           model.TransportState `json:"state"`
	LiveEvents      int64                `json:"live_events"`
	DiscardedEvents int64                `json:"discarded_events"`
	Polls           int64                `json:"polls"`
	Sets            int64                `json:"sets"`
	Errors          int64                `json:"errors"`
}

type Option func(*Session)

// WithConnFactory replaces sockets.New as the way push connections are built.
func WithConnFactory(f func(opts ...func(*sockets.Conn)) sockets.Connection) Option {
	return func(s *Session) {
		s.newConn = f
	}
}

func New(cfg *config.Config, device deviceClient, d display.Display, opts ...Option) (*Session, error) {
	if cfg.DeviceCfg == nil || cfg.Tuning == nil {
		return nil, errors.New("device and tuning config are required")
	}
	if cfg.DeviceCfg.IndicatorCount < 1 {
		return nil, fmt.Errorf("indicator count must be positive, got %d", cfg.DeviceCfg.IndicatorCount)
	}
	if cfg.DeviceCfg.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", cfg.DeviceCfg.PollInterval)
	}
	s := &Session{
		cfg:      cfg.DeviceCfg,
		tuning:   cfg.Tuning,
		scheme:   cfg.ColorScheme,
		registry: registry.New(cfg.DeviceCfg.IndicatorCount),
		display:  d,
		device:   device,
		newConn:  sockets.New,
		logger:   zap.L(), // returns the global logger.
		events:   make(chan event, eventQueueSize),
		done:     make(chan struct{}),
	}
	s.state.Store(model.Unconnected)
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Run loads the full state, selects the transport and then processes events until ctx is
// done. It must be called once.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	defer s.closeConn()

	s.logger.Info("starting session",
		zap.String("host", s.cfg.Host),
		zap.Int("channels", s.registry.Count()),
		zap.Duration("poll_interval", s.cfg.PollInterval),
	)
	s.loadAll(ctx)
	s.selectTransport(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session done", zap.String("state", s.State().String()))
			return ctx.Err()
		case ev := <-s.events:
			ev(ctx)
		}
	}
}

func (s *Session) State() model.TransportState {
	return s.state.Load().(model.TransportState)
}

func (s *Session) setState(state model.TransportState) {
	prev := s.State()
	s.state.Store(state)
	s.logger.Debug("transport state", zap.String("from", prev.String()), zap.String("to", state.String()))
}

func (s *Session) Stats() Stats {
	return Stats{
		State:           s.State(),
		LiveEvents:      s.stats.liveEvents.Load(),
		DiscardedEvents: s.stats.discardedEvents.Load(),
		Polls:           s.stats.polls.Load(),
		Sets:            s.stats.sets.Load(),
		Errors:          s.stats.errors.Load(),
	}
}

// SetChannel writes value into the channel's input control and sets the channel from it,
// as if it had been typed in. It returns once the set request has been answered.
func (s *Session) SetChannel(ctx context.Context, channel int, value float64) error {
	return s.call(ctx, func(ctx context.Context) error {
		if !s.registry.Contains(channel) {
			return fmt.Errorf("%w: channel %d", model.ErrUnknownAddress, channel)
		}
		_, input := s.registry.ChannelElements(channel)
		s.display.SetValue(input, formatRaw(value))
		return s.setChannel(ctx, channel)
	})
}

// KeyPress handles a keyboard shortcut. Unbound keys are ignored.
func (s *Session) KeyPress(key rune) {
	s.post(func(ctx context.Context) {
		s.handleKey(ctx, key)
	})
}

// post queues ev for the Run goroutine. It reports false once the session has stopped.
func (s *Session) post(ev event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}

func (s *Session) call(ctx context.Context, fn func(ctx context.Context) error) error {
	reply := make(chan error, 1)
	if !s.post(func(ctx context.Context) { reply <- fn(ctx) }) {
		return ErrStopped
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrStopped
	}
}

func (s *Session) recordErr(msg string, err error, fields ...zap.Field) {
	s.stats.errors.Add(1)
	s.logger.Error(msg, append(fields, zap.Error(err))...)
}
