package motion

import (
	"sync/atomic"
	"time"

	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/state"
)

// Logger is the slice of the device logger the engine uses.
type Logger interface {
	Debugf(format string, v ...any)
}

// Requester is the slice of the state machine the engine uses: it only
// ever asks, never sets.
type Requester interface {
	Request(to state.ID, reason string) error
	Current() state.ID
}

// Engine classifies samples and owns the inactivity timer. Apart from
// WakePing it is not safe for concurrent use; everything else runs on
// the device loop.
type Engine struct {
	cfg  Config
	log  Logger
	sm   Requester
	ring *ring

	lastJoltAt   time.Time
	shakeBarrier time.Time

	pendingTap   bool
	pendingTapAt time.Time

	lastEmitted [numEventKinds]time.Time

	orientation    Orientation
	candidate      Orientation
	candidateSince time.Time

	lastActivity time.Time
	sleepLatched bool

	wake   atomic.Bool
	faults int
}

// New builds an engine. start seeds the inactivity timer, the same way
// the device loop's clock will feed Tick later. The engine assumes the
// device boots upright.
func New(cfg Config, log Logger, sm Requester, start time.Time) *Engine {
	return &Engine{
		cfg:          cfg,
		log:          log,
		sm:           sm,
		ring:         newRing(cfg.RingSize),
		orientation:  Upright,
		candidate:    Upright,
		lastActivity: start,
	}
}

// Orientation returns the last settled attitude.
func (e *Engine) Orientation() Orientation {
	return e.orientation
}

// Faults returns how many sensor read failures have been skipped.
func (e *Engine) Faults() int {
	return e.faults
}

// NoteFault records a failed sensor read. The sample is simply
// skipped; a bad read never produces a gesture.
func (e *Engine) NoteFault() {
	e.faults++
	e.log.Debugf("motion: sensor read failed (%d total)", e.faults)
}

// NoteActivity re-arms the inactivity timer; button presses and peer
// events count as activity too.
func (e *Engine) NoteActivity(now time.Time) {
	e.lastActivity = now
	e.sleepLatched = false
}

// WakePing sets the wake flag. This is the one method safe to call
// from an interrupt handler or another goroutine.
func (e *Engine) WakePing() {
	e.wake.Store(true)
}

// WakeRequested consumes the wake flag.
func (e *Engine) WakeRequested() bool {
	return e.wake.Swap(false)
}

// PollInterval returns how long the loop should wait between sensor
// reads, slowing down while the device sleeps.
func (e *Engine) PollInterval() time.Duration {
	if e.sm.Current() == state.Sleep {
		return e.cfg.SleepPollInterval
	}
	return e.cfg.PollInterval
}

// Ingest classifies one sample, returning any gestures it completes.
// A gesture of the same class inside its cooldown is suppressed.
func (e *Engine) Ingest(s Sample) []Event {
	var events []Event
	events = e.flushPendingTap(s.At, events)

	prev, ok := e.ring.newest()
	e.ring.push(s)
	if ok {
		events = e.classifyDeltas(prev, s, events)
	}
	events = e.trackOrientation(s, events)

	if len(events) > 0 {
		e.NoteActivity(s.At)
	}
	return events
}

func (e *Engine) classifyDeltas(prev, s Sample, events []Event) []Event {
	mag, _ := pairDelta(prev, s)
	if mag < e.cfg.ShakeDelta {
		return events
	}

	// Any jolt is physical activity, recognized gesture or not.
	e.NoteActivity(s.At)
	prevJolt := e.lastJoltAt
	e.lastJoltAt = s.At

	if e.shakeReversals(s.At) >= e.cfg.ShakeReversals {
		e.shakeBarrier = s.At
		// A shake swallows any buffered tap; the spike was part of it.
		e.pendingTap = false
		if e.allow(Shake, s.At) {
			events = append(events, Event{Kind: Shake, At: s.At})
		}
		return events
	}

	// A knock is a strong spike out of calm. Spikes riding on earlier
	// motion are that motion's transients, not taps.
	calmBefore := prevJolt.IsZero() || s.At.Sub(prevJolt) >= e.cfg.TapSettle
	if mag >= e.cfg.TapSpike && calmBefore {
		if e.pendingTap && s.At.Sub(e.pendingTapAt) <= e.cfg.DoubleTapWindow {
			e.pendingTap = false
			if e.allow(DoubleTap, s.At) {
				events = append(events, Event{Kind: DoubleTap, At: s.At})
			}
		} else {
			e.pendingTap = true
			e.pendingTapAt = s.At
		}
	}
	return events
}

// pairDelta is the L1 jolt magnitude between two samples and the sign
// of its dominant axis.
func pairDelta(prev, s Sample) (mag int32, sign int8) {
	dx := s.X - prev.X
	dy := s.Y - prev.Y
	dz := s.Z - prev.Z
	mag = abs32(dx) + abs32(dy) + abs32(dz)
	d := dx
	if abs32(dy) > abs32(d) {
		d = dy
	}
	if abs32(dz) > abs32(d) {
		d = dz
	}
	sign = 1
	if d < 0 {
		sign = -1
	}
	return mag, sign
}

// shakeReversals counts direction reversals of the dominant delta axis
// across the sample history, keeping only those inside the shake
// window and after the last threshold crossing. The ring is the whole
// memory: reversals that have fallen off it are forgotten, so RingSize
// must span ShakeWindow at the poll cadence for the full window to
// count.
func (e *Engine) shakeReversals(now time.Time) int {
	cut := now.Add(-e.cfg.ShakeWindow)
	var lastSign int8
	n := 0
	for i := 1; i < e.ring.len(); i++ {
		prev, s := e.ring.at(i-1), e.ring.at(i)
		mag, sign := pairDelta(prev, s)
		if mag < e.cfg.ShakeDelta {
			continue
		}
		if lastSign != 0 && sign != lastSign &&
			!s.At.Before(cut) && s.At.After(e.shakeBarrier) {
			n++
		}
		lastSign = sign
	}
	return n
}

func (e *Engine) trackOrientation(s Sample, events []Event) []Event {
	o := classifyOrientation(s, e.cfg.OrientThreshold)
	if o != e.candidate {
		e.candidate = o
		e.candidateSince = s.At
		return events
	}
	if o == e.orientation || o == OrientationUnknown {
		return events
	}
	if s.At.Sub(e.candidateSince) < e.cfg.OrientDwell {
		return events
	}
	if e.allow(OrientationChange, s.At) {
		e.orientation = o
		events = append(events, Event{Kind: OrientationChange, Orientation: o, At: s.At})
	}
	return events
}

// flushPendingTap emits a buffered single tap once its double-tap
// window has closed and the device has settled. A tap buffered into
// ongoing motion is eventually swallowed instead of emitted stale.
func (e *Engine) flushPendingTap(now time.Time, events []Event) []Event {
	if !e.pendingTap || now.Sub(e.pendingTapAt) <= e.cfg.DoubleTapWindow {
		return events
	}
	if !e.lastJoltAt.IsZero() && now.Sub(e.lastJoltAt) < e.cfg.TapSettle {
		if now.Sub(e.pendingTapAt) > 2*e.cfg.DoubleTapWindow {
			e.pendingTap = false
		}
		return events
	}
	e.pendingTap = false
	if e.allow(Tap, e.pendingTapAt) {
		events = append(events, Event{Kind: Tap, At: e.pendingTapAt})
	}
	return events
}

func (e *Engine) allow(k EventKind, at time.Time) bool {
	cd := e.cfg.cooldown(k)
	if !e.lastEmitted[k].IsZero() && at.Sub(e.lastEmitted[k]) < cd {
		e.log.Debugf("motion: %s suppressed by cooldown", k)
		return false
	}
	e.lastEmitted[k] = at
	return true
}

// Tick runs the time-based work: flushing a buffered tap whose window
// closed and checking the inactivity timeout. On expiry it requests
// Sleep exactly once; the latch re-arms on the next activity.
func (e *Engine) Tick(now time.Time) []Event {
	var events []Event
	events = e.flushPendingTap(now, events)

	if e.cfg.InactivityTimeout > 0 && !e.sleepLatched &&
		now.Sub(e.lastActivity) >= e.cfg.InactivityTimeout &&
		e.sm.Current() != state.Sleep {
		e.sleepLatched = true
		if err := e.sm.Request(state.Sleep, "inactivity"); err != nil {
			e.log.Debugf("motion: sleep request rejected: %v", err)
		}
	}
	return events
}
