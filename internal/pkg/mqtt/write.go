package mqtt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gosimple/slug"

	"github.com/anicoll/bakeout-livesync/internal/pkg/model"
	"github.com/anicoll/bakeout-livesync/internal/pkg/registry"
)

// valueTemplate pulls the value out of a statePayload for Home Assistant.
const valueTemplate = "{{ value_json.value }}"

type statePayload struct {
	Value     string `json:"value"`
	Timestamp int64  `json:"timestamp"`
}

// Write publishes each update to <base>/<element>/<property>.
func (s *service) Write(ctx context.Context, updates []model.Update) error {
	for _, u := range updates {
		if err := s.publishUpdate(ctx, u); err != nil {
			return fmt.Errorf("publish %s/%s: %w", u.Element, u.Property, err)
		}
	}
	return nil
}

func (s *service) publishUpdate(ctx context.Context, u model.Update) error {
	payload, err := json.Marshal(statePayload{Value: u.Value, Timestamp: u.Timestamp.Unix()})
	if err != nil {
		return err
	}
	return wait(ctx, s.client.Publish(s.topic(u.Element, u.Property), 0, false, payload))
}

func (s *service) topic(element string, property model.Property) string {
	return fmt.Sprintf("%s/%s/%s", s.base, element, property)
}

// RegisterDevice announces the device's websocket status as a Home Assistant sensor.
func (s *service) RegisterDevice(ctx context.Context, device *model.Device) error {
	id := slug.Make(device.Model + " " + device.Host)
	if _, exists := s.registered[id]; exists {
		return nil
	}

	payload, err := json.Marshal(defaultRegisterMsg(s.base, id, device))
	if err != nil {
		return err
	}
	topic := fmt.Sprintf("homeassistant/sensor/%s/config", id)
	if err := wait(ctx, s.client.Publish(topic, 1, true, payload)); err != nil {
		return err
	}
	s.registered[id] = struct{}{}
	return nil
}

func defaultRegisterMsg(base, id string, device *model.Device) model.RegisterMessage {
	name := fmt.Sprintf("%s %s", device.Model, device.Host)
	return model.RegisterMessage{
		Tilda:         base,
		Name:          name,
		ID:            id,
		StateTopic:    fmt.Sprintf("~/%s/%s", registry.StatusElement, model.PropertyText),
		ValueTemplate: valueTemplate,
		Device: model.RegisterDevice{
			Name:         name,
			Identifiers:  []string{id},
			Model:        device.Model,
			Manufacturer: "CINF",
		},
	}
}
