package livesync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/anicoll/bakeout-livesync/internal/pkg/model"
	"github.com/anicoll/bakeout-livesync/internal/pkg/registry"
	"github.com/anicoll/bakeout-livesync/pkg/sockets"
)

// selectTransport tries the push channel once. Any failure to get a connection falls back
// to polling straight away; there is no retry.
func (s *Session) selectTransport(ctx context.Context) {
	s.setState(model.Connecting)
	s.logger.Debug("websocket setup", zap.String("url", s.cfg.PushURI))

	conn, err := s.dial(ctx)
	if err != nil {
		s.recordErr("failed to connect to", err, zap.String("url", s.cfg.PushURI))
		s.fallback(ctx, model.StatusDialFailed)
		return
	}
	if conn == nil {
		s.logger.Error("websocket was not initialised", zap.String("url", s.cfg.PushURI))
		s.fallback(ctx, model.StatusNotInitialised)
		return
	}
	s.conn = conn
	s.display.SetText(registry.StatusElement, model.StatusLive)
	s.logger.Info("successfully connected to", zap.String("url", s.cfg.PushURI))
}

func (s *Session) dial(ctx context.Context) (sockets.Connection, error) {
	u, err := url.Parse(s.cfg.PushURI)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("push uri %q must be ws or wss", s.cfg.PushURI)
	}

	opts := []func(*sockets.Conn){
		sockets.OnConnected(func(c sockets.Connection) {
			s.post(func(context.Context) { s.onOpen(c) })
		}),
		sockets.OnMessage(func(data []byte, _ sockets.Connection) {
			s.post(func(context.Context) { s.onMessage(data) })
		}),
		sockets.OnError(func(err error) {
			s.post(func(context.Context) { s.onError(err) })
		}),
		sockets.OnClose(func(err error) {
			s.post(func(ctx context.Context) { s.onClose(ctx, err) })
		}),
		sockets.WithHandshakeTimeout(s.tuning.HandshakeTimeout),
		sockets.WithMaxMessageSize(s.tuning.MaxMessageSize),
		sockets.WithPingInterval(s.tuning.PingInterval),
	}
	if s.cfg.SslSkipVerify {
		opts = append(opts, sockets.InsecureSkipVerify())
	}

	conn := s.newConn(opts...)
	if conn == nil {
		return nil, nil
	}
	if err := conn.Dial(ctx, u.String()); err != nil {
		return nil, err
	}
	return conn, nil
}

// onOpen subscribes to every channel and indicator of the device.
func (s *Session) onOpen(c sockets.Connection) {
	s.setState(model.Live)
	s.firstLiveEvent = true

	subscriptions := s.registry.Subscriptions(s.cfg.Host)
	s.logger.Info("websocket connected")
	s.logger.Debug("subscribe to data channels", zap.Strings("subscriptions", subscriptions))

	data, err := json.Marshal(model.SubscribeRequest{
		Action:        model.ActionSubscribe,
		Subscriptions: subscriptions,
	})
	if err != nil {
		s.recordErr("failed to encode subscription", err)
		return
	}
	if err := c.Send(sockets.Msg{Body: data}); err != nil {
		s.recordErr("failed to send subscription", err)
	}
}

func (s *Session) onMessage(data []byte) {
	s.stats.liveEvents.Add(1)
	s.route(data)
}

// onError only logs. The connection is given up on when it closes, not before.
func (s *Session) onError(err error) {
	s.stats.errors.Add(1)
	s.logger.Warn("websocket error", zap.Error(err))
}

func (s *Session) onClose(ctx context.Context, err error) {
	s.logger.Warn("websocket closed", zap.Error(err))
	s.conn = nil
	s.fallback(ctx, model.StatusClosed)
}

func (s *Session) closeConn() {
	if s.conn == nil {
		return
	}
	if !s.conn.IsConnected() {
		s.conn = nil
		return
	}
	s.logger.Debug("closing websocket")
	if err := s.conn.Close(); err != nil {
		s.logger.Debug("failed to close websocket", zap.Error(err))
	}
	s.conn = nil
}
