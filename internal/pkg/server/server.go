// Package server exposes the synchroniser's state and controls over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/anicoll/bakeout-livesync/internal/pkg/display"
	"github.com/anicoll/bakeout-livesync/internal/pkg/livesync"
	"github.com/anicoll/bakeout-livesync/internal/pkg/model"
	"github.com/anicoll/bakeout-livesync/pkg/api"
)

const shutdownTimeout = 5 * time.Second

var _ api.ServerInterface = (*server)(nil)

type session interface {
	Stats() livesync.Stats
	SetChannel(ctx context.Context, channel int, value float64) error
	KeyPress(key rune)
}

type snapshotter interface {
	Snapshot() display.Snapshot
}

type server struct {
	session session
	display snapshotter
	logger  *zap.Logger
}

func New(s session, d snapshotter) *server {
	return &server{session: s, display: d, logger: zap.L()}
}

// Handler routes the generated api through the validator and logging middlewares, with CORS around
// the whole mux.
func (s *server) Handler() (http.Handler, error) {
	validate, err := ValidatorMiddleware()
	if err != nil {
		return nil, err
	}
	h := api.HandlerWithOptions(s, api.StdHTTPServerOptions{
		BaseRouter: http.NewServeMux(),
		// the last middleware runs first
		Middlewares: []api.MiddlewareFunc{validate, LoggingMiddleware},
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			handleError(w, http.StatusBadRequest, err)
		},
	})
	return CORSMiddleware(h), nil
}

// Serve listens on addr until ctx is done.
func (s *server) Serve(ctx context.Context, addr string) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:      handler,
		Addr:         addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("serving api", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

func (s *server) GetState(w http.ResponseWriter, r *http.Request) {
	stats := s.session.Stats()
	snap := s.display.Snapshot()
	writeJSON(w, api.State{
		Transport: api.TransportStats{
			State:           api.TransportStatsState(stats.State),
			LiveEvents:      stats.LiveEvents,
			DiscardedEvents: stats.DiscardedEvents,
			Polls:           stats.Polls,
			Sets:            stats.Sets,
			Errors:          stats.Errors,
		},
		Display: api.DisplaySnapshot{
			Texts:       snap.Texts,
			Values:      snap.Values,
			Backgrounds: snap.Backgrounds,
		},
	})
}

func (s *server) PostChannel(w http.ResponseWriter, r *http.Request, channel int) {
	req, err := unmarshalPayload[api.SetChannelPayload](r)
	if err != nil {
		handleError(w, http.StatusBadRequest, err)
		return
	}

	s.logger.Info("setting channel", zap.Int("channel", channel), zap.Float64("value", req.Value))
	if err := s.session.SetChannel(r.Context(), channel, req.Value); err != nil {
		handleError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("success"))
}

func (s *server) PostKey(w http.ResponseWriter, r *http.Request, key string) {
	if utf8.RuneCountInString(key) != 1 {
		handleError(w, http.StatusBadRequest, fmt.Errorf("key must be a single character, got %q", key))
		return
	}
	k, _ := utf8.DecodeRuneInString(key)
	s.session.KeyPress(k)
	w.WriteHeader(http.StatusAccepted)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrUnknownAddress):
		return http.StatusNotFound
	case errors.Is(err, livesync.ErrStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("failed to write response", zap.Error(err))
	}
}

func handleError(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)
	w.Write([]byte(err.Error()))
}

func unmarshalPayload[T any](r *http.Request) (*T, error) {
	var out T
	if err := json.NewDecoder(r.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}
	return &out, nil
}
