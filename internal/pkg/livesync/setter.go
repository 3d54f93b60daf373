package livesync

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/anicoll/bakeout-livesync/internal/pkg/keyboard"
)

// setChannel sends the channel's input value to the device and, after the read back
// delay, reads the channel again so the display shows what the device actually did.
func (s *Session) setChannel(ctx context.Context, channel int) error {
	_, input := s.registry.ChannelElements(channel)
	raw := s.display.Value(input)
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		err = fmt.Errorf("channel %d input %q is not a number: %w", channel, raw, err)
		s.recordErr("failed to set channel", err)
		return err
	}

	name := strconv.Itoa(channel)
	s.logger.Info("setting channel", zap.Int("channel", channel), zap.Float64("value", value))
	s.stats.sets.Add(1)
	ack, err := s.device.Set(ctx, map[string]float64{name: value})
	if err != nil {
		s.recordErr("failed to set channel", err, zap.Int("channel", channel))
		return err
	}
	s.logger.Debug("set reply", zap.String("reply", ack))

	time.AfterFunc(s.tuning.ReadbackDelay, func() {
		s.post(func(ctx context.Context) { s.readBack(ctx, name) })
	})
	return nil
}

func (s *Session) readBack(ctx context.Context, name string) {
	res, err := s.device.Get(ctx, name)
	if err != nil {
		s.recordErr("failed to read back channel", err, zap.String("channel", name))
		return
	}
	s.applyRead(res)
}

// handleKey steps the bound channel's input and sets the channel, since changing the
// input from code does not count as a change on its own.
func (s *Session) handleKey(ctx context.Context, key rune) {
	action, ok := keyboard.Lookup(key)
	if !ok || !s.registry.Contains(action.Channel) {
		return
	}
	_, input := s.registry.ChannelElements(action.Channel)
	stepper := keyboard.Stepper{Step: s.tuning.InputStep, Min: s.tuning.InputMin, Max: s.tuning.InputMax}
	next := stepper.Apply(s.display.Value(input), action.Direction)
	s.logger.Debug("keypress", zap.String("key", string(key)), zap.Int("channel", action.Channel), zap.Stringer("direction", action.Direction), zap.String("value", next))
	s.display.SetValue(input, next)
	_ = s.setChannel(ctx, action.Channel)
}
