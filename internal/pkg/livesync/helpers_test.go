package livesync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/anicoll/bakeout-livesync/internal/pkg/config"
	"github.com/anicoll/bakeout-livesync/internal/pkg/display"
	"github.com/anicoll/bakeout-livesync/internal/pkg/model"
)

const (
	unreachablePush = "ws://127.0.0.1:1/ws"
	greenOn         = "radial-gradient(#d5f5e3, #2ecc71)"
	greenOff        = "#145a32"
)

// MockDevice is a mock implementation of deviceClient that records every call.
type MockDevice struct {
	GetAllFunc func(ctx context.Context) (model.ReadResponse, error)
	GetFunc    func(ctx context.Context, codename string) (model.ReadResponse, error)
	SetFunc    func(ctx context.Context, values map[string]float64) (string, error)

	mu    sync.Mutex
	calls []string
}

func (m *MockDevice) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *MockDevice) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockDevice) Count(call string) int {
	n := 0
	for _, c := range m.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (m *MockDevice) GetAll(ctx context.Context) (model.ReadResponse, error) {
	m.record("get/all")
	if m.GetAllFunc != nil {
		return m.GetAllFunc(ctx)
	}
	return model.ReadResponse{All: map[string]model.Reading{}}, nil
}

func (m *MockDevice) Get(ctx context.Context, codename string) (model.ReadResponse, error) {
	m.record("get/" + codename)
	if m.GetFunc != nil {
		return m.GetFunc(ctx, codename)
	}
	return model.ReadResponse{}, nil
}

func (m *MockDevice) Set(ctx context.Context, values map[string]float64) (string, error) {
	data, _ := json.Marshal(values)
	m.record("set/" + string(data))
	if m.SetFunc != nil {
		return m.SetFunc(ctx, values)
	}
	for name := range values {
		return name, nil
	}
	return "", nil
}

func readResponse(t *testing.T, raw string) model.ReadResponse {
	t.Helper()
	res := model.ReadResponse{}
	require.NoError(t, json.Unmarshal([]byte(raw), &res))
	return res
}

func testConfig(pushURI string) *config.Config {
	return &config.Config{
		DeviceCfg: &config.DeviceConfig{
			Host:           "rasppi22",
			IndicatorCount: 6,
			PushURI:        pushURI,
			PollInterval:   20 * time.Millisecond,
		},
		Tuning: &config.Tuning{
			ReadbackDelay:    10 * time.Millisecond,
			HandshakeTimeout: time.Second,
			MaxMessageSize:   100000,
			InputStep:        0.05,
			InputMin:         0,
			InputMax:         1,
		},
		ColorScheme: config.DefaultColorSchemes()["green"],
	}
}

// useLogger swaps the global logger for the duration of the test, since New takes zap.L().
// A nil logger logs through t.
func useLogger(t *testing.T, logger *zap.Logger) {
	t.Helper()
	if logger == nil {
		logger = zaptest.NewLogger(t)
	}
	t.Cleanup(zap.ReplaceGlobals(logger))
}

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	useLogger(t, zap.New(core))
	return logs
}

func newTestSession(t *testing.T, cfg *config.Config, dev *MockDevice, opts ...Option) (*Session, *display.Memory) {
	t.Helper()
	mem := display.NewMemory()
	s, err := New(cfg, dev, mem, opts...)
	require.NoError(t, err)
	return s, mem
}

// startSession runs s until the test ends.
func startSession(t *testing.T, s *Session) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-errCh:
		case <-time.After(5 * time.Second):
			t.Error("session did not stop")
		}
	})
}

// pushServer plays the part of the websocket server: it hands over the subscription
// request and then writes whatever the test sends.
type pushServer struct {
	url        string
	subscribed chan model.SubscribeRequest
	send       chan string
	closeConn  chan struct{}
}

func newPushServer(t *testing.T) *pushServer {
	t.Helper()
	ps := &pushServer{
		subscribed: make(chan model.SubscribeRequest, 1),
		send:       make(chan string),
		closeConn:  make(chan struct{}),
	}
	done := make(chan struct{})
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		req := model.SubscribeRequest{}
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		ps.subscribed <- req
		for {
			select {
			case msg := <-ps.send:
				if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
					return
				}
			case <-ps.closeConn:
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "restart"))
				return
			case <-done:
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(done) })
	ps.url = "ws" + strings.TrimPrefix(srv.URL, "http")
	return ps
}

func (ps *pushServer) waitSubscribed(t *testing.T) model.SubscribeRequest {
	t.Helper()
	select {
	case req := <-ps.subscribed:
		return req
	case <-time.After(5 * time.Second):
		t.Fatal("no subscription received")
	}
	return model.SubscribeRequest{}
}

func (ps *pushServer) push(t *testing.T, msg string) {
	t.Helper()
	select {
	case ps.send <- msg:
	case <-time.After(5 * time.Second):
		t.Fatal("push server did not take the message")
	}
}
