// Package keyboard maps single key presses to channel setpoint steps.
package keyboard

import (
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

type Direction int

const (
	Down Direction = -1
	Up   Direction = 1
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

type Action struct {
	Channel   int
	Direction Direction
}

// KeyMap is the top keyboard row stepping channels up, the home row stepping them down.
var KeyMap = map[rune]Action{
	'q': {1, Up},
	'w': {2, Up},
	'e': {3, Up},
	'r': {4, Up},
	't': {5, Up},
	'y': {6, Up},
	'a': {1, Down},
	's': {2, Down},
	'd': {3, Down},
	'f': {4, Down},
	'g': {5, Down},
	'h': {6, Down},
}

func Lookup(key rune) (Action, bool) {
	a, ok := KeyMap[key]
	return a, ok
}

// Keys returns the bound keys for channel, up key first.
func Keys(channel int) []rune {
	keys := lo.Keys(lo.PickBy(KeyMap, func(_ rune, a Action) bool { return a.Channel == channel }))
	if len(keys) == 2 && KeyMap[keys[0]].Direction == Down {
		keys[0], keys[1] = keys[1], keys[0]
	}
	return keys
}

// Stepper moves an input value by whole steps inside [Min, Max], like a number input.
type Stepper struct {
	Step float64
	Min  float64
	Max  float64
}

// Apply steps current once in dir. An empty or unparsable current value counts as zero.
// The result is snapped to the step grid and formatted with the step's precision.
func (s Stepper) Apply(current string, dir Direction) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(current), 64)
	if err != nil || math.IsNaN(v) {
		v = 0
	}
	n := math.Round((v-s.Min)/s.Step) + float64(dir)
	next := math.Min(math.Max(s.Min+n*s.Step, s.Min), s.Max)
	return strconv.FormatFloat(next, 'f', s.precision(), 64)
}

func (s Stepper) precision() int {
	str := strconv.FormatFloat(s.Step, 'f', -1, 64)
	if _, frac, ok := strings.Cut(str, "."); ok {
		return len(frac)
	}
	return 0
}
