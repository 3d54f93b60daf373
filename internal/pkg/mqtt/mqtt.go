package mqtt

import (
	"context"
	"errors"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gosimple/slug"
)

const (
	topicRoot      = "bakeout"
	connectTimeout = 5 * time.Second
)

// Client is the part of the paho client the service publishes through.
type Client interface {
	Connect() paho_mqtt.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) paho_mqtt.Token
}

type service struct {
	client Client
	base   string

	registered map[string]struct{}
}

// New publishes under bakeout/<host slug>.
func New(client Client, host string) *service {
	return &service{
		client:     client,
		base:       topicRoot + "/" + slug.Make(host),
		registered: make(map[string]struct{}),
	}
}

func (s *service) Connect() error {
	token := s.client.Connect()
	res := token.WaitTimeout(connectTimeout)
	if err := token.Error(); err != nil {
		return err
	}
	if res {
		return nil
	}
	return errors.New("unable to connect in time")
}

func wait(ctx context.Context, token paho_mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
