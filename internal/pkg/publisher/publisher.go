// Package publisher mirrors display writes to external sinks such as MQTT.
package publisher

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/anicoll/bakeout-livesync/internal/pkg/contxt"
	"github.com/anicoll/bakeout-livesync/internal/pkg/model"
)

var errAlreadyRegistered = errors.New("publisher already registered")

const (
	queueSize = 1024
	maxBatch  = 64
)

// Publisher receives display writes that changed something.
type Publisher interface {
	Write(ctx context.Context, updates []model.Update) error
	RegisterDevice(ctx context.Context, device *model.Device) error
}

// Registry is a display that forwards every changed write to the registered publishers.
// Writes only enqueue, so a slow broker never holds up the caller.
type Registry struct {
	device  *model.Device
	timeout time.Duration
	now     func() time.Time

	mu         sync.RWMutex
	publishers map[string]Publisher

	last    sync.Map
	updates chan model.Update
}

func New(device *model.Device, timeout time.Duration) *Registry {
	return &Registry{
		device:     device,
		timeout:    timeout,
		now:        time.Now,
		publishers: make(map[string]Publisher),
		updates:    make(chan model.Update, queueSize),
	}
}

func (r *Registry) Register(name string, p Publisher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.publishers[name]; ok {
		return errAlreadyRegistered
	}
	r.publishers[name] = p
	return nil
}

func (r *Registry) SetText(element, text string) {
	r.enqueue(element, model.PropertyText, text)
}

func (r *Registry) SetValue(element, value string) {
	r.enqueue(element, model.PropertyValue, value)
}

func (r *Registry) SetBackground(element, style string) {
	r.enqueue(element, model.PropertyBackground, style)
}

// Value returns the last input value forwarded for element.
func (r *Registry) Value(element string) string {
	v, ok := r.last.Load(key(element, model.PropertyValue))
	if !ok {
		return ""
	}
	return v.(string)
}

// Run announces the device to every publisher and then forwards queued writes in batches
// until ctx is done.
func (r *Registry) Run(ctx context.Context) error {
	r.registerDevice(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u := <-r.updates:
			batch := []model.Update{u}
		drain:
			for len(batch) < maxBatch {
				select {
				case u := <-r.updates:
					batch = append(batch, u)
				default:
					break drain
				}
			}
			r.publish(ctx, batch)
		}
	}
}

func (r *Registry) enqueue(element string, property model.Property, value string) {
	k := key(element, property)
	if !r.shouldUpdate(k, value) {
		return
	}
	select {
	case r.updates <- model.Update{Element: element, Property: property, Value: value, Timestamp: r.now()}:
	default:
		// forget the value so the next identical write is retried
		r.last.Delete(k)
		zap.L().Warn("publisher queue full, dropping update", zap.String("element", element), zap.Stringer("property", property))
	}
}

func (r *Registry) snapshot() map[string]Publisher {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pubs := make(map[string]Publisher, len(r.publishers))
	for name, p := range r.publishers {
		pubs[name] = p
	}
	return pubs
}

func (r *Registry) publish(ctx context.Context, batch []model.Update) {
	for name, p := range r.snapshot() {
		pctx, cancel := contxt.NewContext(ctx, r.timeout)
		err := p.Write(pctx, batch)
		cancel()
		if err != nil {
			zap.L().Error("failed to publish updates", zap.Error(err), zap.String("publisher", name))
			continue
		}
		zap.L().Debug("published updates", zap.Int("count", len(batch)), zap.String("publisher", name))
	}
}

func (r *Registry) registerDevice(ctx context.Context) {
	if r.device == nil {
		return
	}
	for name, p := range r.snapshot() {
		pctx, cancel := contxt.NewContext(ctx, r.timeout)
		err := p.RegisterDevice(pctx, r.device)
		cancel()
		if err != nil {
			zap.L().Error("failed to register device", zap.Error(err), zap.String("publisher", name))
			continue
		}
		zap.L().Debug("registered device", zap.String("host", r.device.Host), zap.String("publisher", name))
	}
}

func (r *Registry) shouldUpdate(k, newValue string) bool {
	oldValue, exists := r.last.Load(k)
	if exists && strings.EqualFold(newValue, oldValue.(string)) {
		return false
	}
	if !exists {
		zap.L().Debug("new display slot", zap.String("slot", k), zap.String("value", newValue))
	}
	r.last.Store(k, newValue)
	return true
}

func key(element string, property model.Property) string {
	return element + "/" + property.String()
}
