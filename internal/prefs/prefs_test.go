package prefs

import "testing"

func TestMemoryFallbacks(t *testing.T) {
	m := NewMemory()

	if got := m.BoolWithFallback("missing", true); !got {
		t.Error("missing bool should yield fallback true")
	}
	if got := m.IntWithFallback("missing", 42); got != 42 {
		t.Errorf("missing int: expected 42, got %d", got)
	}
	if got := m.FloatWithFallback("missing", 0.5); got != 0.5 {
		t.Errorf("missing float: expected 0.5, got %v", got)
	}
	if got := m.StringWithFallback("missing", "gameboy"); got != "gameboy" {
		t.Errorf("missing string: expected gameboy, got %q", got)
	}
	if m.Len() != 0 {
		t.Errorf("reads must not create keys, have %d", m.Len())
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()

	m.SetBool("fx.scanline.on", true)
	m.SetInt("sound.volume", 7)
	m.SetFloat("fx.tint.strength", 0.75)
	m.SetString("fx.dither.palette", "amber")

	if !m.BoolWithFallback("fx.scanline.on", false) {
		t.Error("bool did not round trip")
	}
	if got := m.IntWithFallback("sound.volume", 0); got != 7 {
		t.Errorf("int: expected 7, got %d", got)
	}
	if got := m.FloatWithFallback("fx.tint.strength", 0); got != 0.75 {
		t.Errorf("float: expected 0.75, got %v", got)
	}
	if got := m.StringWithFallback("fx.dither.palette", ""); got != "amber" {
		t.Errorf("string: expected amber, got %q", got)
	}
}

// A key written with one type and read as another is a corrupt key: the
// reader gets its fallback, not a zero value.
func TestMemoryTypeMismatchFallsBack(t *testing.T) {
	m := NewMemory()
	m.SetString("state.last", "not-a-number")

	if got := m.IntWithFallback("state.last", 3); got != 3 {
		t.Errorf("corrupt key: expected fallback 3, got %d", got)
	}
}
