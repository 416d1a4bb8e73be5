// Package motion turns raw accelerometer samples into debounced
// gesture events and owns the inactivity timer. Classification is
// threshold arithmetic over a short sample ring; nothing here blocks,
// and the engine never changes device state itself, it only requests
// transitions.
package motion

import (
	"time"
)

// Sample is one accelerometer reading in milli-g.
type Sample struct {
	X, Y, Z int32
	At      time.Time
}

// EventKind classifies a gesture.
type EventKind uint8

const (
	Shake EventKind = iota
	Tap
	DoubleTap
	OrientationChange
	numEventKinds
)

func (k EventKind) String() string {
	switch k {
	case Shake:
		return "shake"
	case Tap:
		return "tap"
	case DoubleTap:
		return "doubletap"
	case OrientationChange:
		return "orientation"
	}
	return "???"
}

// Event is one recognized gesture. Orientation is set only for
// OrientationChange.
type Event struct {
	Kind        EventKind
	Orientation Orientation
	At          time.Time
}

// Orientation is the sustained resting attitude of the device, named
// for a unit standing on its base with the display facing the user:
// gravity reads +Y through the base when upright and +Z through the
// back when lying face up.
type Orientation uint8

const (
	OrientationUnknown Orientation = iota
	Upright
	UpsideDown
	FaceUp
	FaceDown
)

func (o Orientation) String() string {
	switch o {
	case Upright:
		return "upright"
	case UpsideDown:
		return "upsidedown"
	case FaceUp:
		return "faceup"
	case FaceDown:
		return "facedown"
	}
	return "unknown"
}

// Config holds every classification threshold. All accelerations are
// milli-g.
type Config struct {
	// RingSize is how many recent samples are retained. The ring is the
	// shake classifier's whole memory, so it must span ShakeWindow at
	// the poll cadence; a smaller ring forgets reversals early.
	RingSize int

	// ShakeDelta is the L1 delta between consecutive samples that
	// counts as a jolt. ShakeReversals direction reversals among jolts
	// within ShakeWindow classify a shake.
	ShakeDelta     int32
	ShakeReversals int
	ShakeWindow    time.Duration

	// TapSpike is the L1 delta that counts as a knock. TapSettle is the
	// calm required around it: a spike within TapSettle of earlier
	// motion is that motion's transient, and a buffered tap is only
	// emitted once the device has been calm for TapSettle. A second
	// knock within DoubleTapWindow makes a double tap; otherwise the
	// buffered knock is emitted as a tap when the window closes.
	TapSpike        int32
	TapSettle       time.Duration
	DoubleTapWindow time.Duration

	// OrientThreshold is the dominant-axis reading that pins an
	// orientation; it must hold for OrientDwell before the change is
	// reported.
	OrientThreshold int32
	OrientDwell     time.Duration

	// Per-class cooldowns. A gesture of the same class inside its
	// cooldown is suppressed.
	ShakeCooldown     time.Duration
	TapCooldown       time.Duration
	DoubleTapCooldown time.Duration
	OrientCooldown    time.Duration

	// InactivityTimeout is how long without activity before the engine
	// requests Sleep. Zero disables.
	InactivityTimeout time.Duration

	// PollInterval is the sensor poll spacing; SleepPollInterval
	// replaces it while the device sleeps.
	PollInterval      time.Duration
	SleepPollInterval time.Duration
}

// DefaultConfig returns the tuning the stock firmware ships with.
func DefaultConfig() Config {
	return Config{
		RingSize:          16,
		ShakeDelta:        500,
		ShakeReversals:    4,
		ShakeWindow:       600 * time.Millisecond,
		TapSpike:          1100,
		TapSettle:         150 * time.Millisecond,
		DoubleTapWindow:   300 * time.Millisecond,
		OrientThreshold:   800,
		OrientDwell:       700 * time.Millisecond,
		ShakeCooldown:     1500 * time.Millisecond,
		TapCooldown:       400 * time.Millisecond,
		DoubleTapCooldown: 600 * time.Millisecond,
		OrientCooldown:    1 * time.Second,
		InactivityTimeout: 60 * time.Second,
		PollInterval:      50 * time.Millisecond,
		SleepPollInterval: 500 * time.Millisecond,
	}
}

func (c Config) cooldown(k EventKind) time.Duration {
	switch k {
	case Shake:
		return c.ShakeCooldown
	case Tap:
		return c.TapCooldown
	case DoubleTap:
		return c.DoubleTapCooldown
	case OrientationChange:
		return c.OrientCooldown
	}
	return 0
}

// classifyOrientation maps a sample to an attitude, or Unknown when no
// axis dominates (mid-motion or resting on a side).
func classifyOrientation(s Sample, threshold int32) Orientation {
	switch {
	case s.Y >= threshold:
		return Upright
	case s.Y <= -threshold:
		return UpsideDown
	case s.Z >= threshold:
		return FaceUp
	case s.Z <= -threshold:
		return FaceDown
	}
	return OrientationUnknown
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
