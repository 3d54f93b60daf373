package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var ErrMalformedReading = errors.New("malformed reading")

const ActionSubscribe = "subscribe"

type SubscribeRequest struct {
	Action        string   `json:"action"`
	Subscriptions []string `json:"subscriptions"`
}

// LiveEvent is a message received on the push channel. Only Data is interpreted.
type LiveEvent struct {
	Host string             `json:"host,omitempty"`
	Data map[string]Reading `json:"data"`
}

// Reading is a `[timestamp, value]` or `[timestamp, value, flag]` tuple. The element at
// index 1 is authoritative.
type Reading struct {
	Timestamp float64
	Value     json.RawMessage
	Flag      json.RawMessage
}

func (r *Reading) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedReading, err)
	}
	if len(parts) < 2 {
		return fmt.Errorf("%w: %d elements", ErrMalformedReading, len(parts))
	}
	if err := json.Unmarshal(parts[0], &r.Timestamp); err != nil {
		return fmt.Errorf("%w: timestamp: %v", ErrMalformedReading, err)
	}
	r.Value = parts[1]
	if len(parts) > 2 {
		r.Flag = parts[2]
	}
	return nil
}

func (r Reading) MarshalJSON() ([]byte, error) {
	parts := []json.RawMessage{json.RawMessage(strconv.FormatFloat(r.Timestamp, 'f', -1, 64)), r.Value}
	if len(r.Flag) > 0 {
		parts = append(parts, r.Flag)
	}
	return json.Marshal(parts)
}

// Float is the value as a number. null is rejected rather than read as 0.
func (r Reading) Float() (float64, error) {
	v := bytes.TrimSpace(r.Value)
	if bytes.Equal(v, []byte("null")) {
		return 0, fmt.Errorf("%w: value is null", ErrMalformedReading)
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		return 0, fmt.Errorf("%w: value %s is not a number", ErrMalformedReading, r.Value)
	}
	return f, nil
}

// Truthy reports whether the value would count as "on": true, a non zero number, a non
// empty string, or any array or object.
func (r Reading) Truthy() bool {
	v := bytes.TrimSpace(r.Value)
	if len(v) == 0 {
		return false
	}
	switch v[0] {
	case 't':
		return true
	case 'f', 'n':
		return false
	case '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return false
		}
		return s != ""
	case '[', '{':
		return true
	}
	f, err := strconv.ParseFloat(string(v), 64)
	return err == nil && f != 0
}

// Verbatim is the value exactly as the device sent it, strings unquoted.
func (r Reading) Verbatim() string {
	return rawText(r.Value)
}

// ChannelReading is the `[timestamp, value, name]` reply to a single channel get.
type ChannelReading struct {
	Reading
	Name string
}

func (c *ChannelReading) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedReading, err)
	}
	if len(parts) < 3 {
		return fmt.Errorf("%w: expected [timestamp, value, name], got %d elements", ErrMalformedReading, len(parts))
	}
	if err := c.Reading.UnmarshalJSON(data); err != nil {
		return err
	}
	c.Flag = nil
	c.Name = rawText(parts[2])
	return nil
}

// ReadResponse is the reply to a get request: either one channel or every channel.
type ReadResponse struct {
	Single *ChannelReading
	All    map[string]Reading
}

func (rr *ReadResponse) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty response", ErrMalformedReading)
	}
	switch trimmed[0] {
	case '[':
		single := &ChannelReading{}
		if err := json.Unmarshal(trimmed, single); err != nil {
			return err
		}
		rr.Single = single
		return nil
	case '{':
		all := map[string]Reading{}
		if err := json.Unmarshal(trimmed, &all); err != nil {
			return err
		}
		rr.All = all
		return nil
	}
	return fmt.Errorf("%w: unexpected response %q", ErrMalformedReading, trimmed)
}

func rawText(raw json.RawMessage) string {
	v := bytes.TrimSpace(raw)
	if len(v) > 0 && v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
	}
	return string(v)
}
