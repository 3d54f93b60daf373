package livesync

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/anicoll/bakeout-livesync/internal/pkg/model"
	"github.com/anicoll/bakeout-livesync/internal/pkg/registry"
)

// displayPrecision is the number of decimals shown as a channel's current value.
const displayPrecision = 3

// applyRead handles a get reply: one numeric channel written verbatim, or every channel.
func (s *Session) applyRead(res model.ReadResponse) {
	if res.Single != nil {
		if _, err := res.Single.Float(); err != nil {
			s.recordErr("failed to apply reading", err, zap.String("name", res.Single.Name))
			return
		}
		s.logger.Debug("read reply", zap.String("name", res.Single.Name), zap.String("value", res.Single.Verbatim()))
		s.display.SetText(registry.CurrentValueElement(res.Single.Name), res.Single.Verbatim())
		return
	}
	for key, reading := range res.All {
		addr, err := model.ParseAddress(key)
		if err != nil {
			s.logger.Warn("ignoring reading for unknown address", zap.String("address", key))
			continue
		}
		s.applyAddress(addr, reading)
	}
}

// applyChannel shows the value rounded as the current value and unrounded in the input.
func (s *Session) applyChannel(id int, reading model.Reading) error {
	if !s.registry.Contains(id) {
		return fmt.Errorf("%w: channel %d", model.ErrUnknownAddress, id)
	}
	value, err := reading.Float()
	if err != nil {
		return err
	}
	current, input := s.registry.ChannelElements(id)
	s.display.SetText(current, strconv.FormatFloat(value, 'f', displayPrecision, 64))
	s.display.SetValue(input, formatRaw(value))
	return nil
}

func (s *Session) applyIndicator(id int, reading model.Reading) error {
	if !s.registry.Contains(id) {
		return fmt.Errorf("%w: indicator %d", model.ErrUnknownAddress, id)
	}
	s.display.SetBackground(s.registry.IndicatorElement(id), s.scheme.Style(reading.Truthy()))
	return nil
}

func formatRaw(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
