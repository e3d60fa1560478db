// Package uictl describes the small hardware-facing controls the UI reads and flips.
package uictl

import "golang.org/x/exp/constraints"

type Number interface {
	constraints.Integer | constraints.Float
}

// Knob is a simple on/off control. On may block until the hardware answers.
type Knob interface {
	Read() bool
	On()
	Off()
}

// Dial is a control that can read some value.
type Dial[N Number] interface {
	Read() N
}

// Levels is a control that reads a window of recent values, oldest first.
type Levels[N Number] interface {
	Read() []N
}
