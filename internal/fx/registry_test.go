package fx

import (
	"testing"
	"time"

	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/prefs"
)

func TestFactoryDefaults(t *testing.T) {
	r := NewRegistry(prefs.NewMemory(), nil)
	for k := Kind(0); k < numKinds; k++ {
		want := k == Dither
		if got := r.Enabled(k); got != want {
			t.Errorf("Enabled(%v) = %v at first boot, want %v", k, got, want)
		}
	}
	if got := r.Param(Dither, "palette"); PaletteID(got) != PaletteGameBoy {
		t.Errorf("default dither palette = %v, want Game Boy", got)
	}
	if got := r.Param(Scanline, "mode"); int(got) != ScanClassic {
		t.Errorf("default scanline mode = %v, want classic", got)
	}
}

func TestRestoreFromStore(t *testing.T) {
	store := prefs.NewMemory()
	store.SetBool("fx.scanline.on", true)
	store.SetBool("fx.dither.on", false)
	store.SetFloat("fx.glitch.strength", 0.8)
	store.SetFloat("fx.scanline.gap", 5)

	r := NewRegistry(store, nil)
	if !r.Enabled(Scanline) {
		t.Error("scanline not restored on")
	}
	if r.Enabled(Dither) {
		t.Error("dither not restored off")
	}
	if got := r.Param(Glitch, "strength"); got != 0.8 {
		t.Errorf("glitch strength = %v, want 0.8", got)
	}
	if got := r.Param(Scanline, "gap"); got != 5 {
		t.Errorf("scanline gap = %v, want 5", got)
	}
}

func TestRestoreClampsCorruptValues(t *testing.T) {
	store := prefs.NewMemory()
	store.SetFloat("fx.pixelate.block", 500)
	store.SetFloat("fx.glitch.strength", -2)

	r := NewRegistry(store, nil)
	if got := r.Param(Pixelate, "block"); got != 16 {
		t.Errorf("block = %v, want clamped to 16", got)
	}
	if got := r.Param(Glitch, "strength"); got != 0 {
		t.Errorf("strength = %v, want clamped to 0", got)
	}
}

func TestSetParamClampsAndPersists(t *testing.T) {
	store := prefs.NewMemory()
	r := NewRegistry(store, nil)

	r.SetParam(Pixelate, "block", 99)
	if got := r.Param(Pixelate, "block"); got != 16 {
		t.Errorf("Param = %v after over-range set, want 16", got)
	}
	if got := store.FloatWithFallback("fx.pixelate.block", -1); got != 16 {
		t.Errorf("stored value = %v, want the clamped 16", got)
	}

	r.SetParam(Pixelate, "block", -3)
	if got := r.Param(Pixelate, "block"); got != 1 {
		t.Errorf("Param = %v after under-range set, want 1", got)
	}

	// Unknown names are ignored and never stored.
	r.SetParam(Glitch, "wobble", 3)
	if got := r.Param(Glitch, "wobble"); got != 0 {
		t.Errorf("unknown param = %v, want 0", got)
	}
	if got := store.FloatWithFallback("fx.glitch.wobble", -1); got != -1 {
		t.Error("unknown param leaked into the store")
	}
}

func TestParamRange(t *testing.T) {
	r := NewRegistry(prefs.NewMemory(), nil)
	min, max := r.ParamRange(Scanline, "gap")
	if min != 2 || max != 8 {
		t.Errorf("ParamRange(Scanline, gap) = %v, %v", min, max)
	}
	min, max = r.ParamRange(Scanline, "nope")
	if min != 0 || max != 0 {
		t.Errorf("ParamRange for unknown name = %v, %v, want zeros", min, max)
	}
}

func TestToggleCooldownAbsorbsBounce(t *testing.T) {
	store := prefs.NewMemory()
	now := time.Unix(1000, 0)
	r := NewRegistry(store, func() time.Time { return now })

	if !r.Toggle(Scanline) {
		t.Fatal("first toggle rejected")
	}
	if !r.Enabled(Scanline) {
		t.Fatal("scanline not enabled after toggle")
	}

	// A second toggle inside the cooldown must be absorbed, leaving the
	// effect enabled exactly once.
	now = now.Add(100 * time.Millisecond)
	if r.Toggle(Scanline) {
		t.Error("toggle inside cooldown was applied")
	}
	if !r.Enabled(Scanline) {
		t.Error("bounced toggle flipped the effect back off")
	}

	// Another effect is not affected by scanline's cooldown.
	if !r.Toggle(Glitch) {
		t.Error("cooldown leaked across effects")
	}

	now = now.Add(DefaultToggleCooldown)
	if !r.Toggle(Scanline) {
		t.Error("toggle after cooldown rejected")
	}
	if r.Enabled(Scanline) {
		t.Error("scanline still enabled after second accepted toggle")
	}
}

func TestTogglePersists(t *testing.T) {
	store := prefs.NewMemory()
	now := time.Unix(1000, 0)
	r := NewRegistry(store, func() time.Time { return now })

	r.Toggle(Tint)
	r2 := NewRegistry(store, nil)
	if !r2.Enabled(Tint) {
		t.Error("toggled state not restored by a fresh registry")
	}
}

func TestSetEnabledSkipsCooldown(t *testing.T) {
	now := time.Unix(1000, 0)
	r := NewRegistry(prefs.NewMemory(), func() time.Time { return now })

	r.SetEnabled(Glitch, true)
	r.SetEnabled(Glitch, false)
	if r.Enabled(Glitch) {
		t.Error("SetEnabled(false) did not apply immediately")
	}
}

func TestResetDefaults(t *testing.T) {
	store := prefs.NewMemory()
	r := NewRegistry(store, nil)
	r.SetEnabled(Tint, true)
	r.SetEnabled(Dither, false)
	r.SetParam(Dither, "palette", float64(PaletteAmber))

	r.ResetDefaults()
	if r.Enabled(Tint) {
		t.Error("tint still on after reset")
	}
	if !r.Enabled(Dither) {
		t.Error("dither not restored on by reset")
	}
	if got := r.Param(Dither, "palette"); PaletteID(got) != PaletteGameBoy {
		t.Errorf("palette = %v after reset, want Game Boy", got)
	}

	r2 := NewRegistry(store, nil)
	if r2.Enabled(Tint) || !r2.Enabled(Dither) {
		t.Error("reset state not persisted")
	}
}

func TestApplyRunsPassesInDeclarationOrder(t *testing.T) {
	// With dither and tint both on, tint must run after dither: the
	// output can no longer be pure palette colors. If the order were
	// reversed the dither pass would requantize the tinted frame.
	r := NewRegistry(prefs.NewMemory(), nil)
	r.SetEnabled(Dither, true)
	r.SetEnabled(Tint, true)
	r.SetParam(Tint, "strength", 1)

	f := gradientFrame(16, 16)
	r.Apply(f)

	pal := PaletteColors(PaletteGameBoy)
	inPalette := 0
	for _, p := range f.Pix() {
		for _, c := range pal {
			if RGB565(p) == c {
				inPalette++
				break
			}
		}
	}
	if inPalette == len(f.Pix()) {
		t.Error("every pixel is a palette color; tint did not run after dither")
	}
}

func TestApplySkipsDisabledPasses(t *testing.T) {
	r := NewRegistry(prefs.NewMemory(), nil)
	r.SetEnabled(Dither, false)

	f := gradientFrame(16, 16)
	orig := NewFrame(16, 16)
	orig.CopyFrom(f)
	r.Apply(f)
	if !framesEqual(f, orig) {
		t.Error("Apply with every pass disabled modified the frame")
	}
}
