package model

type Kind string

func (k Kind) String() string {
	return string(k)
}

const (
	KindChannel   Kind = "channel"
	KindIndicator Kind = "indicator"
)

type TransportState string

func (ts TransportState) String() string {
	return string(ts)
}

const (
	Unconnected TransportState = "unconnected"
	Connecting  TransportState = "connecting"
	Live        TransportState = "live"
	Fallback    TransportState = "fallback"
)

// Property is the part of a display element a write targets.
type Property string

func (p Property) String() string {
	return string(p)
}

const (
	PropertyText       Property = "text"
	PropertyValue      Property = "value"
	PropertyBackground Property = "background"
)

// Status texts written to the websocket status element.
const (
	StatusLive           = "Yes"
	StatusDialFailed     = "No. Making connection failed."
	StatusNotInitialised = "No. Did not properly initialize."
	StatusClosed         = "No. WebSocket connection closed."
)
