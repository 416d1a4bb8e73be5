// Package sound sequences short tone and rest steps into the device
// loop without ever blocking it. A single slot holds the currently
// playing event; starting another one either fails with ErrBusy or
// preempts by priority. The loop's tick drives the cursor, so every
// call here is O(1).
package sound

import (
	"errors"
	"time"

	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/prefs"
)

// ErrBusy reports that an event of equal or higher priority already
// occupies the slot. The active event keeps playing untouched.
var ErrBusy = errors.New("sound: scheduler busy")

// Priority orders events for the single slot. A new event wins the
// slot only when strictly higher.
type Priority uint8

const (
	Ambient Priority = iota
	UI
	System
)

func (p Priority) String() string {
	switch p {
	case Ambient:
		return "ambient"
	case UI:
		return "ui"
	case System:
		return "system"
	}
	return "???"
}

// Step is one slice of an event: a tone at Freq for Ms, or a rest when
// Freq is zero. Vol is the full-scale step volume before the master
// volume is applied.
type Step struct {
	Freq uint16
	Ms   uint16
	Vol  uint8
}

// Tone builds a tone step.
func Tone(freq, ms uint16, vol uint8) Step {
	return Step{Freq: freq, Ms: ms, Vol: vol}
}

// Rest builds a silent step.
func Rest(ms uint16) Step {
	return Step{Ms: ms}
}

// Event is a named, declarative tone sequence.
type Event struct {
	Name     string
	Priority Priority
	Steps    []Step
}

// Duration is the summed length of all steps.
func (e Event) Duration() time.Duration {
	var ms uint32
	for _, s := range e.Steps {
		ms += uint32(s.Ms)
	}
	return time.Duration(ms) * time.Millisecond
}

// Sink is the audio output. StartTone replaces whatever tone is
// currently sounding; Stop silences it. Both must return without
// blocking.
type Sink interface {
	StartTone(freqHz uint16, vol uint8)
	Stop()
}

const (
	volumeKey = "sound.volume"

	// DefaultVolume is the master volume used until the user changes it.
	DefaultVolume = 7
	// MaxVolume is the top of the master volume range.
	MaxVolume = 10
)

// Scheduler owns the single playing slot. It is not safe for
// concurrent use; everything runs on the device loop.
type Scheduler struct {
	sink      Sink
	store     prefs.Store
	now       func() time.Time
	active    Event
	playing   bool
	cursor    int
	stepStart time.Time
	toneOn    bool
	volume    int
}

// New builds a scheduler on the given sink, restoring the master
// volume from store. now must be the same clock later passed to Tick;
// nil means the wall clock.
func New(sink Sink, store prefs.Store, now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		sink:   sink,
		store:  store,
		now:    now,
		volume: clampVolume(store.IntWithFallback(volumeKey, DefaultVolume)),
	}
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxVolume {
		return MaxVolume
	}
	return v
}

// Volume returns the master volume, 0 to MaxVolume.
func (s *Scheduler) Volume() int {
	return s.volume
}

// SetVolume clamps and persists the master volume. It applies from the
// next emitted step.
func (s *Scheduler) SetVolume(v int) {
	s.volume = clampVolume(v)
	s.store.SetInt(volumeKey, s.volume)
}

// Playing returns the active event's name, if any.
func (s *Scheduler) Playing() (string, bool) {
	if !s.playing {
		return "", false
	}
	return s.active.Name, true
}

// Play starts e unless an event of equal or higher priority is
// already in the slot, in which case it returns ErrBusy and the active
// event continues unchanged. A strictly higher priority preempts.
func (s *Scheduler) Play(e Event) error {
	if s.playing && e.Priority <= s.active.Priority {
		return ErrBusy
	}
	s.start(e)
	return nil
}

// Preempt starts e regardless of what is playing.
func (s *Scheduler) Preempt(e Event) {
	s.start(e)
}

// Cancel silences the sink and clears the slot.
func (s *Scheduler) Cancel() {
	if !s.playing {
		return
	}
	s.playing = false
	s.stopTone()
}

func (s *Scheduler) start(e Event) {
	if len(e.Steps) == 0 {
		s.Cancel()
		return
	}
	s.active = e
	s.cursor = 0
	s.playing = true
	s.stepStart = s.now()
	s.emit()
}

// Tick advances the cursor past every step whose duration has elapsed
// by now, emitting the sink transitions along the way. Completion
// silences the sink and clears the slot. Safe to call when idle.
func (s *Scheduler) Tick(now time.Time) {
	if !s.playing {
		return
	}
	for {
		d := time.Duration(s.active.Steps[s.cursor].Ms) * time.Millisecond
		if now.Sub(s.stepStart) < d {
			return
		}
		// Advance on the step boundary, not on now, so long ticks do
		// not stretch the sequence.
		s.stepStart = s.stepStart.Add(d)
		s.cursor++
		if s.cursor >= len(s.active.Steps) {
			s.playing = false
			s.stopTone()
			return
		}
		s.emit()
	}
}

func (s *Scheduler) emit() {
	step := s.active.Steps[s.cursor]
	if step.Freq == 0 {
		s.stopTone()
		return
	}
	s.sink.StartTone(step.Freq, s.scaled(step.Vol))
	s.toneOn = true
}

func (s *Scheduler) scaled(v uint8) uint8 {
	return uint8(uint32(v) * uint32(s.volume) / MaxVolume)
}

func (s *Scheduler) stopTone() {
	if !s.toneOn {
		return
	}
	s.sink.Stop()
	s.toneOn = false
}
