// Package registry maps device channels and indicators to the display elements that
// show them. It holds no state beyond the channel count.
package registry

import (
	"strconv"

	"github.com/samber/lo"

	"github.com/anicoll/bakeout-livesync/internal/pkg/model"
)

const (
	currentValuePrefix = "current_value"
	inputPrefix        = "input"
	indicatorPrefix    = "diode"

	// StatusElement shows whether the push channel is in use.
	StatusElement = "websocket_status"
)

type Registry struct {
	count int
}

func New(count int) *Registry {
	return &Registry{count: count}
}

func (r *Registry) Count() int {
	return r.count
}

// Channels returns the channel ids 1..N.
func (r *Registry) Channels() []int {
	return lo.RangeFrom(1, r.count)
}

func (r *Registry) Contains(id int) bool {
	return id >= 1 && id <= r.count
}

// MirroredIndicator returns the display position of indicator k. Pins are counted from
// the other side of the box, so k is shown at N+1-k.
func (r *Registry) MirroredIndicator(k int) int {
	return r.count + 1 - k
}

func CurrentValueElement(name string) string {
	return currentValuePrefix + name
}

func InputElement(name string) string {
	return inputPrefix + name
}

func (r *Registry) ChannelElements(id int) (currentValue, input string) {
	name := strconv.Itoa(id)
	return CurrentValueElement(name), InputElement(name)
}

// IndicatorElement is the element showing indicator k after mirroring.
func (r *Registry) IndicatorElement(k int) string {
	return indicatorPrefix + strconv.Itoa(r.MirroredIndicator(k))
}

// Subscriptions lists, for every id, the channel and then the indicator address on host.
func (r *Registry) Subscriptions(host string) []string {
	return lo.FlatMap(r.Channels(), func(id int, _ int) []string {
		return []string{
			model.ChannelAddress(id).Subscription(host),
			model.IndicatorAddress(id).Subscription(host),
		}
	})
}
