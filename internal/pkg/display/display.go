// Package display is the presentation layer the synchroniser writes into.
package display

// Display is a set of named elements, each with a text, an input value and a background.
type Display interface {
	SetText(element, text string)
	SetValue(element, value string)
	SetBackground(element, style string)
	// Value returns the current input value of element, or "" when none was written.
	Value(element string) string
}

type multi struct {
	primary Display
	others  []Display
}

// Multi writes to every display and reads input values from the first one.
func Multi(primary Display, others ...Display) Display {
	return &multi{primary: primary, others: others}
}

func (m *multi) SetText(element, text string) {
	m.primary.SetText(element, text)
	for _, d := range m.others {
		d.SetText(element, text)
	}
}

func (m *multi) SetValue(element, value string) {
	m.primary.SetValue(element, value)
	for _, d := range m.others {
		d.SetValue(element, value)
	}
}

func (m *multi) SetBackground(element, style string) {
	m.primary.SetBackground(element, style)
	for _, d := range m.others {
		d.SetBackground(element, style)
	}
}

func (m *multi) Value(element string) string {
	return m.primary.Value(element)
}
