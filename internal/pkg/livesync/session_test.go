package livesync

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anicoll/bakeout-livesync/internal/pkg/config"
	"github.com/anicoll/bakeout-livesync/internal/pkg/model"
	"github.com/anicoll/bakeout-livesync/internal/pkg/registry"
	"github.com/anicoll/bakeout-livesync/pkg/sockets"
)

const (
	waitFor = 5 * time.Second
	tick    = 5 * time.Millisecond
)

func TestNew_Validation(t *testing.T) {
	tests := map[string]func(cfg *config.Config){
		"no indicators":    func(cfg *config.Config) { cfg.DeviceCfg.IndicatorCount = 0 },
		"no poll interval": func(cfg *config.Config) { cfg.DeviceCfg.PollInterval = 0 },
		"no tuning":        func(cfg *config.Config) { cfg.Tuning = nil },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			useLogger(t, nil)
			cfg := testConfig(unreachablePush)
			mutate(cfg)
			_, err := New(cfg, &MockDevice{}, nil)
			assert.Error(t, err)
		})
	}
}

func TestSession_FallbackWhenDialFails(t *testing.T) {
	tests := map[string]struct {
		pushURI string
		opts    []Option
		status  string
	}{
		"nothing listening": {
			pushURI: unreachablePush,
			status:  model.StatusDialFailed,
		},
		"not a websocket uri": {
			pushURI: "https://cinf-wsserver.fysik.dtu.dk:9002",
			status:  model.StatusDialFailed,
		},
		"connection not initialised": {
			pushURI: "ws://cinf-wsserver.fysik.dtu.dk:9002",
			opts: []Option{WithConnFactory(func(...func(*sockets.Conn)) sockets.Connection {
				return nil
			})},
			status: model.StatusNotInitialised,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			logs := observe(t)
			dev := &MockDevice{}
			s, mem := newTestSession(t, testConfig(tt.pushURI), dev, tt.opts...)
			startSession(t, s)

			assert.Eventually(t, func() bool { return s.State() == model.Fallback }, waitFor, tick)
			assert.Eventually(t, func() bool { return mem.Text(registry.StatusElement) == tt.status }, waitFor, tick)
			// the initial load plus at least two polls of get/all
			assert.Eventually(t, func() bool { return dev.Count("get/all") >= 3 }, waitFor, tick)
			assert.Eventually(t, func() bool { return s.Stats().Polls >= 2 }, waitFor, tick)
			assert.Equal(t, 1, logs.FilterMessage("falling back to polling").Len())
		})
	}
}

func TestSession_LiveUpdates(t *testing.T) {
	useLogger(t, nil)
	ps := newPushServer(t)
	dev := &MockDevice{
		GetAllFunc: func(context.Context) (model.ReadResponse, error) {
			return readResponse(t, `{"3":[1700000000,0.5]}`), nil
		},
	}
	s, mem := newTestSession(t, testConfig(ps.url), dev)
	startSession(t, s)

	req := ps.waitSubscribed(t)
	assert.Equal(t, "subscribe", req.Action)
	assert.Equal(t, []string{
		"rasppi22:1", "rasppi22:diode1",
		"rasppi22:2", "rasppi22:diode2",
		"rasppi22:3", "rasppi22:diode3",
		"rasppi22:4", "rasppi22:diode4",
		"rasppi22:5", "rasppi22:diode5",
		"rasppi22:6", "rasppi22:diode6",
	}, req.Subscriptions)

	assert.Eventually(t, func() bool { return s.State() == model.Live }, waitFor, tick)
	assert.Equal(t, model.StatusLive, mem.Text(registry.StatusElement))
	assert.Equal(t, "0.500", mem.Text("current_value3"))

	// reply to the subscription, replayed and possibly stale
	ps.push(t, `{"host":"rasppi22","data":{"3":[1699999000,9.999]}}`)
	ps.push(t, `{"host":"rasppi22","data":{"3":[1700000001,1.23456]}}`)
	ps.push(t, `{"host":"rasppi22","data":{"diode2":[1700000002,true]}}`)

	assert.Eventually(t, func() bool { return mem.Background("diode5") == greenOn }, waitFor, tick)
	assert.Equal(t, "1.235", mem.Text("current_value3"))
	assert.Equal(t, "1.23456", mem.Value("input3"))

	ps.push(t, `{"host":"rasppi22","data":{"diode2":[1700000003,false]}}`)
	assert.Eventually(t, func() bool { return mem.Background("diode5") == greenOff }, waitFor, tick)

	stats := s.Stats()
	assert.Equal(t, int64(4), stats.LiveEvents)
	assert.Equal(t, int64(1), stats.DiscardedEvents)
	assert.Zero(t, stats.Polls)
	assert.Equal(t, 1, dev.Count("get/all"), "no polling while the push channel is live")
}

func TestSession_CloseFallsBackToPolling(t *testing.T) {
	logs := observe(t)
	ps := newPushServer(t)
	dev := &MockDevice{}
	s, mem := newTestSession(t, testConfig(ps.url), dev)
	startSession(t, s)

	ps.waitSubscribed(t)
	assert.Eventually(t, func() bool { return s.State() == model.Live }, waitFor, tick)

	close(ps.closeConn)

	assert.Eventually(t, func() bool { return s.State() == model.Fallback }, waitFor, tick)
	assert.Eventually(t, func() bool { return mem.Text(registry.StatusElement) == model.StatusClosed }, waitFor, tick)
	assert.Eventually(t, func() bool { return dev.Count("get/all") >= 3 }, waitFor, tick)
	assert.Equal(t, 1, logs.FilterMessage("websocket closed").Len())
}

func TestSession_ShutdownClosesLiveConnection(t *testing.T) {
	logs := observe(t)
	ps := newPushServer(t)
	s, _ := newTestSession(t, testConfig(ps.url), &MockDevice{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	ps.waitSubscribed(t)
	assert.Eventually(t, func() bool { return s.State() == model.Live }, waitFor, tick)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	started := logs.FilterMessage("starting session").All()
	require.Len(t, started, 1)
	assert.Equal(t, int64(6), started[0].ContextMap()["channels"])
	assert.Equal(t, 1, logs.FilterMessage("closing websocket").Len())
}

func TestSession_ShutdownAfterCloseSkipsClosing(t *testing.T) {
	logs := observe(t)
	ps := newPushServer(t)
	s, _ := newTestSession(t, testConfig(ps.url), &MockDevice{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	ps.waitSubscribed(t)
	close(ps.closeConn)
	assert.Eventually(t, func() bool { return s.State() == model.Fallback }, waitFor, tick)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	assert.Zero(t, logs.FilterMessage("closing websocket").Len())
}

func TestSession_ErrorDoesNotFallBack(t *testing.T) {
	logs := observe(t)
	s, mem := newTestSession(t, testConfig(unreachablePush), &MockDevice{})
	s.setState(model.Live)

	s.onError(errors.New("ping failed"))

	assert.Equal(t, model.Live, s.State())
	assert.Empty(t, mem.Text(registry.StatusElement))
	assert.Equal(t, int64(1), s.Stats().Errors)
	assert.Equal(t, 1, logs.FilterMessage("websocket error").Len())
}

func TestSession_FallbackOnlyOnce(t *testing.T) {
	useLogger(t, nil)
	s, mem := newTestSession(t, testConfig(unreachablePush), &MockDevice{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.fallback(ctx, model.StatusDialFailed)
	s.onClose(ctx, io.EOF)

	assert.Equal(t, model.Fallback, s.State())
	assert.Equal(t, model.StatusDialFailed, mem.Text(registry.StatusElement))
}

func TestSession_InitialLoadFailureIsNotFatal(t *testing.T) {
	logs := observe(t)
	dev := &MockDevice{
		GetAllFunc: func(context.Context) (model.ReadResponse, error) {
			return model.ReadResponse{}, errors.New("connection refused")
		},
	}
	s, _ := newTestSession(t, testConfig(unreachablePush), dev)
	startSession(t, s)

	assert.Eventually(t, func() bool { return dev.Count("get/all") >= 3 }, waitFor, tick)
	assert.GreaterOrEqual(t, logs.FilterMessage("failed to read all channels").Len(), 1)
	assert.Equal(t, model.Fallback, s.State())
}

func TestSession_SetChannel(t *testing.T) {
	useLogger(t, nil)
	dev := &MockDevice{
		GetFunc: func(_ context.Context, codename string) (model.ReadResponse, error) {
			return readResponse(t, `[1700000000, 12.5, "`+codename+`"]`), nil
		},
	}
	s, mem := newTestSession(t, testConfig(unreachablePush), dev)
	startSession(t, s)

	require.NoError(t, s.SetChannel(context.Background(), 4, 12.5))
	assert.Equal(t, "12.5", mem.Value("input4"))

	assert.Eventually(t, func() bool { return dev.Count("get/4") == 1 }, waitFor, tick)
	assert.Eventually(t, func() bool { return mem.Text("current_value4") == "12.5" }, waitFor, tick)

	calls := dev.Calls()
	setAt, getAt := indexOf(calls, `set/{"4":12.5}`), indexOf(calls, "get/4")
	require.NotEqual(t, -1, setAt)
	assert.Less(t, setAt, getAt, "read back happens after the set")
	assert.Equal(t, int64(1), s.Stats().Sets)
}

func TestSession_SetChannelErrors(t *testing.T) {
	useLogger(t, nil)
	dev := &MockDevice{
		SetFunc: func(context.Context, map[string]float64) (string, error) {
			return "", errors.New("device busy")
		},
	}
	s, _ := newTestSession(t, testConfig(unreachablePush), dev)
	startSession(t, s)

	assert.ErrorIs(t, s.SetChannel(context.Background(), 9, 0.5), model.ErrUnknownAddress)
	assert.EqualError(t, s.SetChannel(context.Background(), 2, 0.5), "device busy")

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, dev.Count("get/2"), "no read back after a failed set")
}

func TestSession_KeyPress(t *testing.T) {
	useLogger(t, nil)
	dev := &MockDevice{
		GetAllFunc: func(context.Context) (model.ReadResponse, error) {
			return readResponse(t, `{"4":[1700000000,0.5]}`), nil
		},
	}
	s, mem := newTestSession(t, testConfig(unreachablePush), dev)
	startSession(t, s)
	assert.Eventually(t, func() bool { return mem.Value("input4") == "0.5" }, waitFor, tick)

	s.KeyPress('z')
	s.KeyPress('r')

	assert.Eventually(t, func() bool { return dev.Count(`set/{"4":0.55}`) == 1 }, waitFor, tick)
	assert.Eventually(t, func() bool { return dev.Count("get/4") == 1 }, waitFor, tick)
	assert.Equal(t, int64(1), s.Stats().Sets, "unbound keys are ignored")
}

func TestSession_StoppedSession(t *testing.T) {
	useLogger(t, nil)
	s, _ := newTestSession(t, testConfig(unreachablePush), &MockDevice{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Run(ctx), context.Canceled)

	assert.ErrorIs(t, s.SetChannel(context.Background(), 1, 0.5), ErrStopped)
}

func indexOf(calls []string, call string) int {
	for i, c := range calls {
		if c == call {
			return i
		}
	}
	return -1
}
