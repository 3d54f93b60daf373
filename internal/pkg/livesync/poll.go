package livesync

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/anicoll/bakeout-livesync/internal/pkg/model"
	"github.com/anicoll/bakeout-livesync/internal/pkg/registry"
)

// fallback switches to polling. It happens at most once per session.
func (s *Session) fallback(ctx context.Context, status string) {
	if s.State() == model.Fallback {
		return
	}
	s.setState(model.Fallback)
	s.display.SetText(registry.StatusElement, status)
	s.logger.Info("falling back to polling", zap.String("status", status), zap.Duration("poll_interval", s.cfg.PollInterval))
	s.startPolling(ctx)
}

// startPolling posts a poll every interval until ctx is done. A slow device delays the
// next poll rather than overlapping it.
func (s *Session) startPolling(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.PollInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !s.post(s.poll) {
					return
				}
			}
		}
	}()
}

func (s *Session) poll(ctx context.Context) {
	s.stats.polls.Add(1)
	s.loadAll(ctx)
}

// loadAll fetches get/all and applies it. It serves the initial load and every poll.
func (s *Session) loadAll(ctx context.Context) {
	res, err := s.device.GetAll(ctx)
	if err != nil {
		s.recordErr("failed to read all channels", err)
		return
	}
	s.applyRead(res)
}
