package keyboard

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	tests := map[rune]struct {
		want Action
		ok   bool
	}{
		'q': {want: Action{Channel: 1, Direction: Up}, ok: true},
		'y': {want: Action{Channel: 6, Direction: Up}, ok: true},
		'f': {want: Action{Channel: 4, Direction: Down}, ok: true},
		'z': {ok: false},
		'Q': {ok: false},
	}
	for key, tt := range tests {
		got, ok := Lookup(key)
		assert.Equal(t, tt.ok, ok, "key %q", key)
		assert.Equal(t, tt.want, got, "key %q", key)
	}
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []rune{'e', 'd'}, Keys(3))
	assert.Empty(t, Keys(7))
}

func TestStepper_Apply(t *testing.T) {
	s := Stepper{Step: 0.05, Min: 0, Max: 1}
	tests := map[string]struct {
		current string
		dir     Direction
		want    string
	}{
		"up":                  {current: "0.5", dir: Up, want: "0.55"},
		"down":                {current: "0.5", dir: Down, want: "0.45"},
		"clamped at max":      {current: "1", dir: Up, want: "1.00"},
		"clamped at min":      {current: "0", dir: Down, want: "0.00"},
		"empty counts as 0":   {current: "", dir: Up, want: "0.05"},
		"snaps to the grid":   {current: "0.123", dir: Up, want: "0.15"},
		"float noise":         {current: "0.15000000000000002", dir: Up, want: "0.20"},
		"garbage counts as 0": {current: "abc", dir: Up, want: "0.05"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Apply(tt.current, tt.dir))
		})
	}
}

func TestRead(t *testing.T) {
	t.Run("stops at end of input", func(t *testing.T) {
		var got []rune
		err := read(context.Background(), strings.NewReader("qa"), func(r rune) { got = append(got, r) })
		assert.NoError(t, err)
		assert.Equal(t, []rune{'q', 'a'}, got)
	})

	t.Run("ctrl-c interrupts", func(t *testing.T) {
		var got []rune
		err := read(context.Background(), strings.NewReader("w\x03e"), func(r rune) { got = append(got, r) })
		assert.ErrorIs(t, err, ErrInterrupted)
		assert.Equal(t, []rune{'w'}, got)
	})

	t.Run("context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		blocked := &blockingReader{}
		err := read(ctx, blocked, func(rune) {})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

type blockingReader struct{}

func (blockingReader) ReadRune() (rune, int, error) {
	select {}
}
