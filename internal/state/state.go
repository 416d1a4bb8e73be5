// Package state owns the device's single current mode. Every component
// that wants a mode change requests it here; the machine validates the
// request against a static table, runs exit and enter hooks, and fans
// the completed transition out to observers. Nothing else mutates the
// current state.
package state

import (
	"errors"

	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/prefs"
)

// ErrInvalidTransition reports a requested pair that is not in the
// allowed table. The current state is unchanged.
var ErrInvalidTransition = errors.New("state: invalid transition")

// ID is one device mode.
type ID uint8

const (
	Idle ID = iota
	MotionAlert
	Sleep
	Menu
	Clock
	Pairing
	Updating
	Error
	numStates
)

func (i ID) String() string {
	switch i {
	case Idle:
		return "Idle"
	case MotionAlert:
		return "MotionAlert"
	case Sleep:
		return "Sleep"
	case Menu:
		return "Menu"
	case Clock:
		return "Clock"
	case Pairing:
		return "Pairing"
	case Updating:
		return "Updating"
	case Error:
		return "Error"
	}
	return "???"
}

// Logger is the slice of the device logger the machine uses.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
}

type mask uint16

func bit(id ID) mask { return 1 << id }

// allowed maps each state to the set of targets it may move to.
// Self-transitions are never allowed. Sleep, Pairing, Updating and
// Error must resolve through Idle before anything else starts.
var allowed = [numStates]mask{
	Idle:        bit(MotionAlert) | bit(Sleep) | bit(Menu) | bit(Clock) | bit(Pairing) | bit(Updating) | bit(Error),
	MotionAlert: bit(Idle) | bit(Sleep) | bit(Menu) | bit(Error),
	Sleep:       bit(Idle) | bit(Error),
	Menu:        bit(Idle) | bit(Clock) | bit(Sleep) | bit(Pairing) | bit(Updating) | bit(Error),
	Clock:       bit(Idle) | bit(MotionAlert) | bit(Sleep) | bit(Menu) | bit(Error),
	Pairing:     bit(Idle) | bit(Error),
	Updating:    bit(Idle) | bit(Error),
	Error:       bit(Idle),
}

// maxQueued bounds requests issued from inside hooks or observers.
const maxQueued = 4

// checkpointKey is where the last restorable state is persisted.
const checkpointKey = "state.last"

type pending struct {
	to     ID
	reason string
}

// Machine is the single arbiter of the current state. It is not safe
// for concurrent use; everything runs on the device loop.
type Machine struct {
	log          Logger
	store        prefs.Store
	current      ID
	enter        [numStates]func()
	exit         [numStates]func()
	observers    []func(from, to ID, reason string)
	queue        []pending
	inTransition bool
}

// New builds a machine starting in Idle.
func New(log Logger, store prefs.Store) *Machine {
	return &Machine{
		log:   log,
		store: store,
		queue: make([]pending, 0, maxQueued),
	}
}

// OnEnter installs the hook run after the machine moves into id. A nil
// hook clears the slot.
func (m *Machine) OnEnter(id ID, hook func()) {
	m.enter[id] = hook
}

// OnExit installs the hook run before the machine leaves id. A nil
// hook clears the slot.
func (m *Machine) OnExit(id ID, hook func()) {
	m.exit[id] = hook
}

// Observe registers a callback run after every completed transition,
// in registration order, after both hooks.
func (m *Machine) Observe(fn func(from, to ID, reason string)) {
	m.observers = append(m.observers, fn)
}

// Current returns the current state.
func (m *Machine) Current() ID {
	return m.current
}

// Allowed reports whether a transition from the current state to id
// would be accepted.
func (m *Machine) Allowed(id ID) bool {
	return id < numStates && allowed[m.current]&bit(id) != 0
}

// Request asks for a transition. Pairs not in the allowed table return
// ErrInvalidTransition with the current state unchanged. Requests
// issued while a transition is in flight (from a hook or observer) are
// queued and run afterward; those report nil immediately and any
// rejection is logged when they run. The queue is bounded; overflow
// drops the request with a log line.
func (m *Machine) Request(to ID, reason string) error {
	if m.inTransition {
		if len(m.queue) >= maxQueued {
			m.log.Infof("state: dropping queued request for %s (%s): queue full", to, reason)
			return nil
		}
		m.queue = append(m.queue, pending{to: to, reason: reason})
		return nil
	}
	err := m.transition(to, reason)
	m.drain()
	return err
}

func (m *Machine) transition(to ID, reason string) error {
	if to >= numStates || allowed[m.current]&bit(to) == 0 {
		m.log.Infof("state: %s -> %s rejected (%s)", m.current, to, reason)
		return ErrInvalidTransition
	}
	from := m.current
	m.inTransition = true
	if h := m.exit[from]; h != nil {
		h()
	}
	m.current = to
	if h := m.enter[to]; h != nil {
		h()
	}
	for _, fn := range m.observers {
		fn(from, to, reason)
	}
	m.inTransition = false
	m.checkpoint(to)
	m.log.Debugf("state: %s -> %s (%s)", from, to, reason)
	return nil
}

// drain runs queued requests in FIFO order. Only the outermost Request
// drains, so requests queued by a drained transition simply extend the
// same pass.
func (m *Machine) drain() {
	for len(m.queue) > 0 {
		p := m.queue[0]
		n := copy(m.queue, m.queue[1:])
		m.queue = m.queue[:n]
		if err := m.transition(p.to, p.reason); err != nil {
			// Already logged by transition.
			continue
		}
	}
}

// checkpoint persists the state to resume at next boot. Transient
// states checkpoint as Idle so a reboot mid-menu or mid-update comes
// back to a sane face.
func (m *Machine) checkpoint(id ID) {
	if !restorable(id) {
		id = Idle
	}
	m.store.SetInt(checkpointKey, int(id))
}

func restorable(id ID) bool {
	switch id {
	case Idle, Clock, Sleep:
		return true
	}
	return false
}

// Restore returns the checkpointed state to resume at boot. Missing,
// corrupt or non-restorable values resolve to Idle.
func (m *Machine) Restore() ID {
	v := m.store.IntWithFallback(checkpointKey, int(Idle))
	id := ID(v)
	if v < 0 || v >= int(numStates) || !restorable(id) {
		return Idle
	}
	return id
}
