package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrUnknownAddress = errors.New("unknown address")

// indicatorPrefix is how the device names its indicator codenames, e.g. "diode3".
const indicatorPrefix = "diode"

// Address identifies a channel or an indicator on the device.
type Address struct {
	Kind Kind
	ID   int
}

func ChannelAddress(id int) Address {
	return Address{Kind: KindChannel, ID: id}
}

func IndicatorAddress(id int) Address {
	return Address{Kind: KindIndicator, ID: id}
}

// ParseAddress classifies a codename as it appears in live event and full state payloads.
func ParseAddress(key string) (Address, error) {
	kind := KindChannel
	digits := key
	if rest, ok := strings.CutPrefix(key, indicatorPrefix); ok {
		kind = KindIndicator
		digits = rest
	}
	id, err := strconv.Atoi(digits)
	if err != nil || id < 1 || strconv.Itoa(id) != digits {
		return Address{}, fmt.Errorf("%w: %q", ErrUnknownAddress, key)
	}
	return Address{Kind: kind, ID: id}, nil
}

// Codename is the wire form without host, "3" or "diode3".
func (a Address) Codename() string {
	if a.Kind == KindIndicator {
		return indicatorPrefix + strconv.Itoa(a.ID)
	}
	return strconv.Itoa(a.ID)
}

// Subscription is the host qualified form used in subscribe requests.
func (a Address) Subscription(host string) string {
	return host + ":" + a.Codename()
}

func (a Address) String() string {
	return a.Kind.String() + ":" + strconv.Itoa(a.ID)
}
