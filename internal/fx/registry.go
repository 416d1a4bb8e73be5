// Package fx is the retro display pipeline. Animations render into a
// Frame, the Registry rewrites it in place with whichever passes are
// enabled, and the device blits the result. Every pass is integer math
// over packed RGB565 so the same code runs on the panel and in the
// simulator.
package fx

import (
	"math/rand"
	"time"

	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/prefs"
)

// Kind identifies one effect pass. The declaration order is the apply
// order: geometry first (pixelate), then quantization, then the
// overlays that should survive it, with tint last so every pass ends up
// in the theme color.
type Kind uint8

const (
	Pixelate Kind = iota
	Dither
	DotMatrix
	Glitch
	Aberration
	Scanline
	Tint
	numKinds
)

// NumKinds is the count of effect passes, for menu iteration.
const NumKinds = int(numKinds)

func (k Kind) String() string {
	switch k {
	case Pixelate:
		return "Pixelate"
	case Dither:
		return "Dither"
	case DotMatrix:
		return "Dot matrix"
	case Glitch:
		return "Glitch"
	case Aberration:
		return "Aberration"
	case Scanline:
		return "Scanlines"
	case Tint:
		return "Tint"
	}
	return "???"
}

// key is the stable settings-key segment for a kind. Display names may
// change, these must not.
func (k Kind) key() string {
	switch k {
	case Pixelate:
		return "pixelate"
	case Dither:
		return "dither"
	case DotMatrix:
		return "dotmatrix"
	case Glitch:
		return "glitch"
	case Aberration:
		return "aberration"
	case Scanline:
		return "scanline"
	case Tint:
		return "tint"
	}
	return "unknown"
}

// DefaultToggleCooldown is the minimum spacing between accepted toggles
// of the same effect. Double-tap gestures arrive as two events; the
// cooldown keeps them from undoing themselves.
const DefaultToggleCooldown = 250 * time.Millisecond

// Registry owns the effect pipeline state. It is not safe for
// concurrent use; everything runs on the render loop.
type Registry struct {
	store      prefs.Store
	effects    [numKinds]*effect
	now        func() time.Time
	cooldown   time.Duration
	lastToggle [numKinds]time.Time
	tick       uint32
	rng        *rand.Rand
	scratch    []uint16
}

// NewRegistry builds the pipeline, restoring enabled flags and
// parameters from store. Keys never written before resolve to the
// factory defaults: dither on with the Game Boy palette, everything
// else off. now is the clock the toggle cooldown runs on; nil means
// the wall clock.
func NewRegistry(store prefs.Store, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	r := &Registry{
		store:    store,
		now:      now,
		cooldown: DefaultToggleCooldown,
	}
	r.rng = rand.New(rand.NewSource(r.now().UnixNano()))
	for k := Kind(0); k < numKinds; k++ {
		r.effects[k] = newEffect(k)
	}
	r.load()
	return r
}

func (r *Registry) load() {
	for _, e := range r.effects {
		e.on = r.store.BoolWithFallback(r.keyOn(e.kind), e.kind == Dither)
		for i := range e.specs {
			v := r.store.FloatWithFallback(r.keyParam(e.kind, e.specs[i].name), e.specs[i].def)
			e.vals[i] = clampParam(v, e.specs[i])
		}
	}
}

func (r *Registry) keyOn(k Kind) string {
	return "fx." + k.key() + ".on"
}

func (r *Registry) keyParam(k Kind, name string) string {
	return "fx." + k.key() + "." + name
}

func clampParam(v float64, s paramSpec) float64 {
	if v != v { // NaN
		return s.def
	}
	if v < s.min {
		return s.min
	}
	if v > s.max {
		return s.max
	}
	return v
}

// Apply runs every enabled pass over the frame in declaration order and
// advances the animation phase used by the animated scanline mode.
func (r *Registry) Apply(f *Frame) {
	r.tick++
	for _, e := range r.effects {
		if e.on {
			e.apply(r, f, e)
		}
	}
}

// Enabled reports whether a pass is on.
func (r *Registry) Enabled(k Kind) bool {
	if k >= numKinds {
		return false
	}
	return r.effects[k].on
}

// SetEnabled switches a pass on or off without the toggle cooldown and
// persists the flag. Menu items use this; gestures use Toggle.
func (r *Registry) SetEnabled(k Kind, on bool) {
	if k >= numKinds {
		return
	}
	e := r.effects[k]
	if e.on == on {
		return
	}
	e.on = on
	r.store.SetBool(r.keyOn(k), on)
}

// Toggle flips a pass and persists the flag, unless a previous toggle
// of the same pass landed within the cooldown. It reports whether the
// flip was applied, so bounced gestures are absorbed silently.
func (r *Registry) Toggle(k Kind) bool {
	if k >= numKinds {
		return false
	}
	now := r.now()
	if !r.lastToggle[k].IsZero() && now.Sub(r.lastToggle[k]) < r.cooldown {
		return false
	}
	r.lastToggle[k] = now
	e := r.effects[k]
	e.on = !e.on
	r.store.SetBool(r.keyOn(k), e.on)
	return true
}

// Param returns the current value of a pass parameter, or 0 for an
// unknown name.
func (r *Registry) Param(k Kind, name string) float64 {
	if k >= numKinds {
		return 0
	}
	return r.effects[k].get(name)
}

// SetParam stores a pass parameter, clamping it into the legal range,
// and persists it. Unknown names are ignored.
func (r *Registry) SetParam(k Kind, name string, v float64) {
	if k >= numKinds {
		return
	}
	e := r.effects[k]
	for i := range e.specs {
		if e.specs[i].name != name {
			continue
		}
		e.vals[i] = clampParam(v, e.specs[i])
		r.store.SetFloat(r.keyParam(k, name), e.vals[i])
		return
	}
}

// ParamRange returns the clamp bounds of a pass parameter, for menu
// steppers.
func (r *Registry) ParamRange(k Kind, name string) (min, max float64) {
	if k >= numKinds {
		return 0, 0
	}
	e := r.effects[k]
	for i := range e.specs {
		if e.specs[i].name == name {
			return e.specs[i].min, e.specs[i].max
		}
	}
	return 0, 0
}

// ResetDefaults restores every pass to the factory state and persists
// it.
func (r *Registry) ResetDefaults() {
	for _, e := range r.effects {
		on := e.kind == Dither
		e.on = on
		r.store.SetBool(r.keyOn(e.kind), on)
		for i := range e.specs {
			e.vals[i] = e.specs[i].def
			r.store.SetFloat(r.keyParam(e.kind, e.specs[i].name), e.vals[i])
		}
	}
}
