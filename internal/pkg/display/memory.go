package display

import (
	"maps"
	"sync"
)

// Snapshot is a copy of everything written to a Memory display.
type Snapshot struct {
	Texts       map[string]string `json:"texts"`
	Values      map[string]string `json:"values"`
	Backgrounds map[string]string `json:"backgrounds"`
}

// Memory keeps element state in maps. It is safe to read from other goroutines while the
// session writes to it.
type Memory struct {
	mu          sync.RWMutex
	texts       map[string]string
	values      map[string]string
	backgrounds map[string]string
}

func NewMemory() *Memory {
	return &Memory{
		texts:       map[string]string{},
		values:      map[string]string{},
		backgrounds: map[string]string{},
	}
}

func (m *Memory) SetText(element, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts[element] = text
}

func (m *Memory) SetValue(element, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[element] = value
}

func (m *Memory) SetBackground(element, style string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backgrounds[element] = style
}

func (m *Memory) Value(element string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[element]
}

func (m *Memory) Text(element string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.texts[element]
}

func (m *Memory) Background(element string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.backgrounds[element]
}

func (m *Memory) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		Texts:       maps.Clone(m.texts),
		Values:      maps.Clone(m.values),
		Backgrounds: maps.Clone(m.backgrounds),
	}
}
