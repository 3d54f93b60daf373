package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMulti(t *testing.T) {
	primary := NewMemory()
	mirror := NewMemory()
	d := Multi(primary, mirror)

	d.SetText("current_value1", "0.500")
	d.SetValue("input1", "0.5")
	d.SetBackground("diode6", "#145a32")

	for _, m := range []*Memory{primary, mirror} {
		assert.Equal(t, "0.500", m.Text("current_value1"))
		assert.Equal(t, "0.5", m.Value("input1"))
		assert.Equal(t, "#145a32", m.Background("diode6"))
	}

	mirror.SetValue("input1", "0.9")
	assert.Equal(t, "0.5", d.Value("input1"), "reads come from the primary display")
}

func TestMemory_SnapshotIsACopy(t *testing.T) {
	m := NewMemory()
	m.SetText("websocket_status", "Yes")

	snap := m.Snapshot()
	m.SetText("websocket_status", "No. WebSocket connection closed.")

	assert.Equal(t, "Yes", snap.Texts["websocket_status"])
	assert.Empty(t, m.Value("input1"))
}
