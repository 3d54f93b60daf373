// Package report periodically logs how the synchroniser is doing.
package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/anicoll/bakeout-livesync/internal/pkg/livesync"
)

var ErrSchedule = errors.New("invalid report schedule")

type statsSource interface {
	Stats() livesync.Stats
}

type Reporter struct {
	source statsSource
	logger *zap.Logger
	last   livesync.Stats
}

func New(source statsSource) *Reporter {
	return &Reporter{source: source, logger: zap.L()}
}

// Run logs a report on schedule until ctx is done.
func (r *Reporter) Run(ctx context.Context, schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, r.Report); err != nil {
		return fmt.Errorf("%w %q: %w", ErrSchedule, schedule, err)
	}
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}

// Report logs the totals and what changed since the previous report.
func (r *Reporter) Report() {
	stats := r.source.Stats()
	r.logger.Info("status report",
		zap.Stringer("transport", stats.State),
		zap.Int64("live_events", stats.LiveEvents),
		zap.Int64("live_events_since_last", stats.LiveEvents-r.last.LiveEvents),
		zap.Int64("discarded_events", stats.DiscardedEvents),
		zap.Int64("polls", stats.Polls),
		zap.Int64("polls_since_last", stats.Polls-r.last.Polls),
		zap.Int64("sets", stats.Sets),
		zap.Int64("errors", stats.Errors),
	)
	r.last = stats
}
