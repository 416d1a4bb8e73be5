package state

import (
	"errors"
	"fmt"
	"testing"

	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/prefs"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Debugf(format string, v ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func (l *recordingLogger) Infof(format string, v ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func newTestMachine() (*Machine, *prefs.Memory) {
	store := prefs.NewMemory()
	return New(&recordingLogger{}, store), store
}

func TestInvalidPairsLeaveStateUnchanged(t *testing.T) {
	for _, tc := range []struct {
		name string
		prep []ID
		to   ID
	}{
		{name: "self transition", to: Idle},
		{name: "sleep to menu", prep: []ID{Sleep}, to: Menu},
		{name: "sleep to clock", prep: []ID{Sleep}, to: Clock},
		{name: "pairing to menu", prep: []ID{Pairing}, to: Menu},
		{name: "error to sleep", prep: []ID{Error}, to: Sleep},
		{name: "alert to clock", prep: []ID{MotionAlert}, to: Clock},
		{name: "out of range", to: ID(99)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m, _ := newTestMachine()
			for _, s := range tc.prep {
				if err := m.Request(s, "prep"); err != nil {
					t.Fatalf("prep transition to %s: %v", s, err)
				}
			}
			before := m.Current()
			err := m.Request(tc.to, "test")
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("Request(%s) = %v, want ErrInvalidTransition", tc.to, err)
			}
			if m.Current() != before {
				t.Errorf("state changed to %s on a rejected request", m.Current())
			}
		})
	}
}

func TestValidPairs(t *testing.T) {
	for _, tc := range []struct {
		name string
		prep []ID
		to   ID
	}{
		{name: "idle to alert", to: MotionAlert},
		{name: "idle to menu", to: Menu},
		{name: "alert calms to idle", prep: []ID{MotionAlert}, to: Idle},
		{name: "menu starts pairing", prep: []ID{Menu}, to: Pairing},
		{name: "pairing resolves to idle", prep: []ID{Pairing}, to: Idle},
		{name: "update aborts to idle", prep: []ID{Updating}, to: Idle},
		{name: "error acknowledged", prep: []ID{Error}, to: Idle},
		{name: "clock to sleep", prep: []ID{Clock}, to: Sleep},
		{name: "sleep wakes", prep: []ID{Sleep}, to: Idle},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m, _ := newTestMachine()
			for _, s := range tc.prep {
				if err := m.Request(s, "prep"); err != nil {
					t.Fatalf("prep transition to %s: %v", s, err)
				}
			}
			if err := m.Request(tc.to, "test"); err != nil {
				t.Fatalf("Request(%s) = %v", tc.to, err)
			}
			if m.Current() != tc.to {
				t.Errorf("Current() = %s, want %s", m.Current(), tc.to)
			}
		})
	}
}

func TestExitRunsBeforeEnterBeforeObservers(t *testing.T) {
	m, _ := newTestMachine()
	var trace []string
	m.OnExit(Idle, func() { trace = append(trace, "exit idle") })
	m.OnEnter(Menu, func() { trace = append(trace, "enter menu") })
	m.Observe(func(from, to ID, reason string) {
		trace = append(trace, fmt.Sprintf("observe %s->%s %s", from, to, reason))
	})

	if err := m.Request(Menu, "button"); err != nil {
		t.Fatal(err)
	}
	want := []string{"exit idle", "enter menu", "observe Idle->Menu button"}
	if len(trace) != len(want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("trace[%d] = %q, want %q", i, trace[i], want[i])
		}
	}
}

func TestNilHooksAreSkipped(t *testing.T) {
	m, _ := newTestMachine()
	m.OnEnter(Menu, func() {})
	m.OnEnter(Menu, nil)
	if err := m.Request(Menu, "test"); err != nil {
		t.Fatalf("transition with nil hooks: %v", err)
	}
}

func TestReentrantRequestIsDeferred(t *testing.T) {
	m, _ := newTestMachine()
	var trace []string
	m.OnEnter(MotionAlert, func() {
		trace = append(trace, "enter alert")
		if err := m.Request(Idle, "calm"); err != nil {
			t.Errorf("re-entrant request: %v", err)
		}
		// Still in the alert transition; the calm request must wait.
		if m.Current() != MotionAlert {
			t.Errorf("current state = %s inside enter hook", m.Current())
		}
		trace = append(trace, "leave hook")
	})
	m.OnExit(MotionAlert, func() { trace = append(trace, "exit alert") })
	m.OnEnter(Idle, func() { trace = append(trace, "enter idle") })

	if err := m.Request(MotionAlert, "shake"); err != nil {
		t.Fatal(err)
	}
	if m.Current() != Idle {
		t.Fatalf("Current() = %s after deferred calm, want Idle", m.Current())
	}
	want := []string{"enter alert", "leave hook", "exit alert", "enter idle"}
	if fmt.Sprint(trace) != fmt.Sprint(want) {
		t.Errorf("trace = %v, want %v", trace, want)
	}
}

func TestQueueIsBounded(t *testing.T) {
	m, _ := newTestMachine()
	var transitions int
	m.OnEnter(MotionAlert, func() {
		for i := 0; i < 10; i++ {
			m.Request(Idle, "flood")
		}
	})
	m.Observe(func(from, to ID, reason string) { transitions++ })

	if err := m.Request(MotionAlert, "shake"); err != nil {
		t.Fatal(err)
	}
	// One transition in, one deferred calm out; the other nine floods
	// were either dropped at the bound or rejected as self-transitions.
	if transitions != 2 {
		t.Errorf("observer saw %d transitions, want 2", transitions)
	}
	if m.Current() != Idle {
		t.Errorf("Current() = %s, want Idle", m.Current())
	}
}

func TestAllowed(t *testing.T) {
	m, _ := newTestMachine()
	if !m.Allowed(Menu) {
		t.Error("Allowed(Menu) = false from Idle")
	}
	if m.Allowed(Idle) {
		t.Error("Allowed(Idle) = true from Idle, self transitions are not allowed")
	}
	if m.Allowed(ID(42)) {
		t.Error("Allowed(42) = true")
	}
}

func TestCheckpointMapsTransientStatesToIdle(t *testing.T) {
	for _, tc := range []struct {
		to   ID
		want ID
	}{
		{to: Clock, want: Clock},
		{to: Sleep, want: Sleep},
		{to: Menu, want: Idle},
		{to: Pairing, want: Idle},
		{to: Updating, want: Idle},
		{to: Error, want: Idle},
	} {
		m, store := newTestMachine()
		if err := m.Request(tc.to, "test"); err != nil {
			t.Fatalf("Request(%s): %v", tc.to, err)
		}
		if got := ID(store.IntWithFallback(checkpointKey, -1)); got != tc.want {
			t.Errorf("checkpoint after %s = %s, want %s", tc.to, got, tc.want)
		}
	}
}

func TestRestore(t *testing.T) {
	for _, tc := range []struct {
		name  string
		seed  int
		write bool
		want  ID
	}{
		{name: "missing key", want: Idle},
		{name: "sleep restores", seed: int(Sleep), write: true, want: Sleep},
		{name: "clock restores", seed: int(Clock), write: true, want: Clock},
		{name: "transient falls back", seed: int(Pairing), write: true, want: Idle},
		{name: "corrupt value", seed: 99, write: true, want: Idle},
		{name: "negative value", seed: -3, write: true, want: Idle},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m, store := newTestMachine()
			if tc.write {
				store.SetInt(checkpointKey, tc.seed)
			}
			if got := m.Restore(); got != tc.want {
				t.Errorf("Restore() = %s, want %s", got, tc.want)
			}
		})
	}
}
