package sound

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/prefs"
)

// fakeSink records every call in order.
type fakeSink struct {
	calls []string
}

func (f *fakeSink) StartTone(freqHz uint16, vol uint8) {
	f.calls = append(f.calls, fmt.Sprintf("tone %d %d", freqHz, vol))
}

func (f *fakeSink) Stop() {
	f.calls = append(f.calls, "stop")
}

func newTestScheduler() (*Scheduler, *fakeSink, func(time.Duration) time.Time) {
	sink := &fakeSink{}
	now := time.Unix(1000, 0)
	s := New(sink, prefs.NewMemory(), func() time.Time { return now })
	advance := func(d time.Duration) time.Time {
		now = now.Add(d)
		return now
	}
	return s, sink, advance
}

func TestPlayEmitsFirstStepImmediately(t *testing.T) {
	s, sink, _ := newTestScheduler()
	s.SetVolume(MaxVolume)

	if err := s.Play(Event{Name: "x", Priority: UI, Steps: []Step{Tone(440, 100, 200)}}); err != nil {
		t.Fatal(err)
	}
	if len(sink.calls) != 1 || sink.calls[0] != "tone 440 200" {
		t.Fatalf("calls = %v, want the first tone", sink.calls)
	}
	if name, ok := s.Playing(); !ok || name != "x" {
		t.Errorf("Playing() = %q, %v", name, ok)
	}
}

func TestTickAdvancesOnSchedule(t *testing.T) {
	s, sink, adv := newTestScheduler()
	s.SetVolume(MaxVolume)
	e := Event{Name: "seq", Priority: UI, Steps: []Step{
		Tone(440, 100, 200),
		Rest(50),
		Tone(880, 100, 200),
	}}
	if err := s.Play(e); err != nil {
		t.Fatal(err)
	}

	s.Tick(adv(99 * time.Millisecond))
	if len(sink.calls) != 1 {
		t.Fatalf("calls after 99ms = %v, step ended early", sink.calls)
	}

	s.Tick(adv(1 * time.Millisecond)) // 100ms: rest begins
	want := []string{"tone 440 200", "stop"}
	if fmt.Sprint(sink.calls) != fmt.Sprint(want) {
		t.Fatalf("calls after 100ms = %v, want %v", sink.calls, want)
	}

	s.Tick(adv(50 * time.Millisecond)) // 150ms: second tone
	want = append(want, "tone 880 200")
	if fmt.Sprint(sink.calls) != fmt.Sprint(want) {
		t.Fatalf("calls after 150ms = %v, want %v", sink.calls, want)
	}

	s.Tick(adv(100 * time.Millisecond)) // 250ms: done
	want = append(want, "stop")
	if fmt.Sprint(sink.calls) != fmt.Sprint(want) {
		t.Fatalf("calls after 250ms = %v, want %v", sink.calls, want)
	}
	if _, ok := s.Playing(); ok {
		t.Error("still playing after the last step elapsed")
	}
}

func TestLongTickCatchesUpWithoutStretching(t *testing.T) {
	s, sink, adv := newTestScheduler()
	s.SetVolume(MaxVolume)
	e := Event{Name: "seq", Priority: UI, Steps: []Step{
		Tone(440, 20, 200),
		Tone(660, 20, 200),
		Tone(880, 20, 200),
	}}
	if err := s.Play(e); err != nil {
		t.Fatal(err)
	}

	// One late tick spanning the first two steps lands inside the third.
	s.Tick(adv(45 * time.Millisecond))
	want := []string{"tone 440 200", "tone 660 200", "tone 880 200"}
	if fmt.Sprint(sink.calls) != fmt.Sprint(want) {
		t.Fatalf("calls = %v, want %v", sink.calls, want)
	}
	if _, ok := s.Playing(); !ok {
		t.Fatal("third step should still be sounding")
	}

	// 15ms remain of the third step, measured from its true boundary.
	s.Tick(adv(14 * time.Millisecond))
	if _, ok := s.Playing(); !ok {
		t.Error("third step ended early")
	}
	s.Tick(adv(1 * time.Millisecond))
	if _, ok := s.Playing(); ok {
		t.Error("sequence did not complete on its boundary")
	}
}

func TestPlayRejectsEqualAndLowerPriority(t *testing.T) {
	s, sink, adv := newTestScheduler()
	s.SetVolume(MaxVolume)
	e := Event{Name: "active", Priority: UI, Steps: []Step{
		Tone(440, 100, 200),
		Tone(880, 100, 200),
	}}
	if err := s.Play(e); err != nil {
		t.Fatal(err)
	}
	s.Tick(adv(30 * time.Millisecond))

	if err := s.Play(TapChirp); !errors.Is(err, ErrBusy) { // Ambient < UI
		t.Fatalf("lower priority Play = %v, want ErrBusy", err)
	}
	if err := s.Play(MenuBlip); !errors.Is(err, ErrBusy) { // UI == UI
		t.Fatalf("equal priority Play = %v, want ErrBusy", err)
	}

	// The rejected plays must not have disturbed the cursor: the
	// original sequence finishes exactly as if nothing happened.
	s.Tick(adv(70 * time.Millisecond))
	s.Tick(adv(100 * time.Millisecond))
	want := []string{"tone 440 200", "tone 880 200", "stop"}
	if fmt.Sprint(sink.calls) != fmt.Sprint(want) {
		t.Errorf("calls = %v, want undisturbed %v", sink.calls, want)
	}
}

func TestHigherPriorityPreempts(t *testing.T) {
	s, sink, _ := newTestScheduler()
	s.SetVolume(MaxVolume)
	if err := s.Play(Event{Name: "bg", Priority: Ambient, Steps: []Step{Tone(220, 500, 100)}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Play(Event{Name: "fg", Priority: System, Steps: []Step{Tone(880, 50, 200)}}); err != nil {
		t.Fatalf("higher priority Play = %v", err)
	}
	if name, _ := s.Playing(); name != "fg" {
		t.Errorf("Playing() = %q, want fg", name)
	}
	want := []string{"tone 220 100", "tone 880 200"}
	if fmt.Sprint(sink.calls) != fmt.Sprint(want) {
		t.Errorf("calls = %v, want %v", sink.calls, want)
	}
}

func TestPreemptAlwaysReplaces(t *testing.T) {
	s, _, _ := newTestScheduler()
	if err := s.Play(Event{Name: "sys", Priority: System, Steps: []Step{Tone(440, 500, 200)}}); err != nil {
		t.Fatal(err)
	}
	s.Preempt(Event{Name: "amb", Priority: Ambient, Steps: []Step{Tone(220, 50, 100)}})
	if name, _ := s.Playing(); name != "amb" {
		t.Errorf("Playing() = %q, want amb", name)
	}
}

func TestCancelStopsAndClears(t *testing.T) {
	s, sink, _ := newTestScheduler()
	s.SetVolume(MaxVolume)
	if err := s.Play(Event{Name: "x", Priority: UI, Steps: []Step{Tone(440, 500, 200)}}); err != nil {
		t.Fatal(err)
	}
	s.Cancel()
	if _, ok := s.Playing(); ok {
		t.Error("still playing after Cancel")
	}
	if sink.calls[len(sink.calls)-1] != "stop" {
		t.Errorf("calls = %v, want a trailing stop", sink.calls)
	}
	// Cancel when idle is a no-op.
	n := len(sink.calls)
	s.Cancel()
	if len(sink.calls) != n {
		t.Error("idle Cancel touched the sink")
	}
}

func TestSlotFreeAfterCompletion(t *testing.T) {
	s, _, adv := newTestScheduler()
	if err := s.Play(Event{Name: "first", Priority: System, Steps: []Step{Tone(440, 10, 200)}}); err != nil {
		t.Fatal(err)
	}
	s.Tick(adv(10 * time.Millisecond))
	if err := s.Play(TapChirp); err != nil {
		t.Errorf("Play after completion = %v, want slot free", err)
	}
}

func TestConsecutiveRestsStopOnce(t *testing.T) {
	s, sink, adv := newTestScheduler()
	s.SetVolume(MaxVolume)
	e := Event{Name: "rests", Priority: UI, Steps: []Step{
		Tone(440, 20, 200),
		Rest(20),
		Rest(20),
	}}
	if err := s.Play(e); err != nil {
		t.Fatal(err)
	}
	s.Tick(adv(20 * time.Millisecond))
	s.Tick(adv(20 * time.Millisecond))
	s.Tick(adv(20 * time.Millisecond))
	want := []string{"tone 440 200", "stop"}
	if fmt.Sprint(sink.calls) != fmt.Sprint(want) {
		t.Errorf("calls = %v, want a single stop", sink.calls)
	}
}

func TestEmptyEventClearsSlot(t *testing.T) {
	s, _, _ := newTestScheduler()
	if err := s.Play(Event{Name: "bg", Priority: Ambient, Steps: []Step{Tone(220, 500, 100)}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Play(Event{Name: "empty", Priority: System}); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Playing(); ok {
		t.Error("empty event left the slot occupied")
	}
}

func TestMasterVolumeScalesAndPersists(t *testing.T) {
	store := prefs.NewMemory()
	sink := &fakeSink{}
	s := New(sink, store, func() time.Time { return time.Unix(1000, 0) })

	s.SetVolume(5)
	if err := s.Play(Event{Name: "x", Priority: UI, Steps: []Step{Tone(440, 100, 200)}}); err != nil {
		t.Fatal(err)
	}
	if sink.calls[0] != "tone 440 100" {
		t.Errorf("calls = %v, want volume scaled to 100", sink.calls)
	}

	s.SetVolume(99)
	if s.Volume() != MaxVolume {
		t.Errorf("Volume() = %d, want clamped to %d", s.Volume(), MaxVolume)
	}
	s.SetVolume(-1)
	if s.Volume() != 0 {
		t.Errorf("Volume() = %d, want clamped to 0", s.Volume())
	}

	s.SetVolume(3)
	restored := New(&fakeSink{}, store, nil)
	if restored.Volume() != 3 {
		t.Errorf("restored volume = %d, want 3", restored.Volume())
	}
}

func TestBuiltinTablesAreWellFormed(t *testing.T) {
	for _, e := range []Event{
		Startup, TapChirp, DoubleTapTrill, ShakeAlarm, SleepDescent,
		WakeRise, MenuBlip, Confirm, PairSuccess, PairFail, ErrorBuzz,
		HourChime,
	} {
		if e.Name == "" {
			t.Error("event with empty name")
		}
		if len(e.Steps) == 0 {
			t.Errorf("%s: no steps", e.Name)
		}
		if e.Duration() <= 0 {
			t.Errorf("%s: zero duration", e.Name)
		}
		if e.Duration() > 2*time.Second {
			t.Errorf("%s: %v is too long for a cooperative loop", e.Name, e.Duration())
		}
		for i, step := range e.Steps {
			if step.Freq != 0 && step.Vol == 0 {
				t.Errorf("%s step %d: tone with zero volume", e.Name, i)
			}
		}
	}
}
