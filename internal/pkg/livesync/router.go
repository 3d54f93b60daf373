package livesync

import (
	"encoding/json"
	"errors"
	"slices"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/anicoll/bakeout-livesync/internal/pkg/model"
)

// route applies one push message. The first message after the connection opens is the
// reply to the subscription, replayed from the server's last known values, and may be
// older than what get/all already showed, so it is dropped without being decoded.
func (s *Session) route(data []byte) {
	if s.firstLiveEvent {
		s.firstLiveEvent = false
		s.stats.discardedEvents.Add(1)
		s.logger.Debug("skipping first live event", zap.ByteString("event", data))
		return
	}

	ev := model.LiveEvent{}
	if err := json.Unmarshal(data, &ev); err != nil {
		s.recordErr("failed to decode live event", err, zap.ByteString("event", data))
		return
	}
	s.logger.Debug("live event", zap.ByteString("event", data))

	keys := lo.Keys(ev.Data)
	slices.Sort(keys)
	for _, key := range keys {
		addr, err := model.ParseAddress(key)
		if err != nil {
			s.logger.Warn("ignoring live event for unknown address", zap.String("address", key))
			continue
		}
		s.applyAddress(addr, ev.Data[key])
	}
}

func (s *Session) applyAddress(addr model.Address, reading model.Reading) {
	var err error
	switch addr.Kind {
	case model.KindIndicator:
		err = s.applyIndicator(addr.ID, reading)
	case model.KindChannel:
		err = s.applyChannel(addr.ID, reading)
	}
	if errors.Is(err, model.ErrUnknownAddress) {
		s.logger.Warn("ignoring address outside the registry", zap.Stringer("address", addr))
		return
	}
	if err != nil {
		s.recordErr("failed to apply reading", err, zap.Stringer("address", addr))
	}
}
