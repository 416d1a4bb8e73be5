package fx

// paramSpec describes one tunable of an effect. Values are clamped to
// [min, max] on every write, never rejected.
type paramSpec struct {
	name     string
	min, max float64
	def      float64
}

// effect is one pass of the pipeline with its current parameter values.
// vals is parallel to specs.
type effect struct {
	kind  Kind
	on    bool
	specs []paramSpec
	vals  []float64
	apply func(*Registry, *Frame, *effect)
}

func (e *effect) get(name string) float64 {
	for i := range e.specs {
		if e.specs[i].name == name {
			return e.vals[i]
		}
	}
	return 0
}

func newEffect(k Kind) *effect {
	e := &effect{kind: k}
	switch k {
	case Pixelate:
		e.specs = []paramSpec{
			{name: "block", min: 1, max: 16, def: 3},
		}
		e.apply = (*Registry).applyPixelate
	case Dither:
		e.specs = []paramSpec{
			{name: "matrix", min: 2, max: 8, def: 4},
			{name: "palette", min: 0, max: float64(numPalettes) - 1, def: float64(PaletteGameBoy)},
		}
		e.apply = (*Registry).applyDither
	case DotMatrix:
		e.specs = []paramSpec{
			{name: "cell", min: 2, max: 6, def: 3},
			{name: "gap", min: 0, max: 1, def: 0.35},
		}
		e.apply = (*Registry).applyDotMatrix
	case Glitch:
		e.specs = []paramSpec{
			{name: "strength", min: 0, max: 1, def: 0.5},
		}
		e.apply = (*Registry).applyGlitch
	case Aberration:
		e.specs = []paramSpec{
			{name: "shift", min: 0, max: 4, def: 1},
		}
		e.apply = (*Registry).applyAberration
	case Scanline:
		e.specs = []paramSpec{
			{name: "mode", min: 0, max: 2, def: float64(ScanClassic)},
			{name: "dark", min: 0, max: 1, def: 0.35},
			{name: "gap", min: 2, max: 8, def: 3},
		}
		e.apply = (*Registry).applyScanline
	case Tint:
		e.specs = []paramSpec{
			{name: "theme", min: 0, max: float64(numThemes) - 1, def: float64(ThemeGreenPhosphor)},
			{name: "strength", min: 0, max: 1, def: 1},
		}
		e.apply = (*Registry).applyTint
	default:
		panic("fx: unknown effect kind")
	}
	e.vals = make([]float64, len(e.specs))
	for i := range e.specs {
		e.vals[i] = e.specs[i].def
	}
	return e
}

// Scanline modes.
const (
	ScanClassic = iota
	ScanAnimated
	ScanCurved
)

// Ordered dither thresholds. bayer4 and bayer8 are derived from bayer2
// at init with the usual recursive construction.
var (
	bayer2 = [2][2]uint8{{0, 2}, {3, 1}}
	bayer4 [4][4]uint8
	bayer8 [8][8]uint8
)

func init() {
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			bayer4[y][x] = 4*bayer2[y%2][x%2] + bayer2[y/2][x/2]
		}
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			bayer8[y][x] = 4*bayer4[y%4][x%4] + bayer2[y/4][x/4]
		}
	}
}

func (r *Registry) applyPixelate(f *Frame, e *effect) {
	n := int(e.get("block") + 0.5)
	if n <= 1 {
		return
	}
	w, h := int(f.w), int(f.h)
	for by := 0; by < h; by += n {
		for bx := 0; bx < w; bx += n {
			var rs, gs, bs, cnt uint32
			for y := by; y < by+n && y < h; y++ {
				for x := bx; x < bx+n && x < w; x++ {
					cr, cg, cb := RGB565(f.pix[y*w+x]).RGB888()
					rs += uint32(cr)
					gs += uint32(cg)
					bs += uint32(cb)
					cnt++
				}
			}
			c := uint16(To565(uint8(rs/cnt), uint8(gs/cnt), uint8(bs/cnt)))
			for y := by; y < by+n && y < h; y++ {
				for x := bx; x < bx+n && x < w; x++ {
					f.pix[y*w+x] = c
				}
			}
		}
	}
}

// snapMatrix rounds a clamped matrix value to the nearest supported
// Bayer size.
func snapMatrix(v float64) int {
	switch {
	case v < 3:
		return 2
	case v < 6:
		return 4
	}
	return 8
}

func (r *Registry) applyDither(f *Frame, e *effect) {
	n := snapMatrix(e.get("matrix"))
	pal := PaletteColors(PaletteID(e.get("palette") + 0.5))
	w, h := int(f.w), int(f.h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l := RGB565(f.pix[y*w+x]).Luma()
			var m uint8
			switch n {
			case 2:
				m = bayer2[y%2][x%2]
			case 4:
				m = bayer4[y%4][x%4]
			default:
				m = bayer8[y%8][x%8]
			}
			t := (2*uint32(m) + 1) * 255 / uint32(2*n*n)
			num := uint32(l) * 3
			idx := num / 255
			if idx < 3 && num%255 > t {
				idx++
			}
			f.pix[y*w+x] = uint16(pal[idx])
		}
	}
}

func (r *Registry) applyDotMatrix(f *Frame, e *effect) {
	cell := int(e.get("cell") + 0.5)
	if cell < 2 {
		cell = 2
	}
	k := uint32(256 * (1 - e.get("gap")))
	if k >= 256 {
		return
	}
	w, h := int(f.w), int(f.h)
	for y := 0; y < h; y++ {
		gapRow := y%cell == cell-1
		for x := 0; x < w; x++ {
			if !gapRow && x%cell != cell-1 {
				continue
			}
			f.pix[y*w+x] = uint16(scale(RGB565(f.pix[y*w+x]), k))
		}
	}
}

func (r *Registry) applyGlitch(f *Frame, e *effect) {
	s := e.get("strength")
	if s <= 0 {
		return
	}
	w, h := int(f.w), int(f.h)
	amp := 1 + int(s*6)
	for y := 0; y < h; y++ {
		if r.rng.Float64() >= s*0.15 {
			continue
		}
		off := r.rng.Intn(2*amp+1) - amp
		if off == 0 {
			continue
		}
		row := f.pix[y*w : y*w+w]
		r.scratch = append(r.scratch[:0], row...)
		for x := 0; x < w; x++ {
			row[x] = r.scratch[((x-off)%w+w)%w]
		}
	}
	for i := int(s*3 + 0.5); i > 0; i-- {
		if r.rng.Float64() >= 0.4 {
			continue
		}
		bw := 4 + r.rng.Intn(12)
		bh := 1 + r.rng.Intn(3)
		bx := r.rng.Intn(w)
		by := r.rng.Intn(h)
		c := uint16(To565(0xE0+uint8(r.rng.Intn(0x20)), 0xE8, 0xF0))
		for y := by; y < by+bh && y < h; y++ {
			for x := bx; x < bx+bw && x < w; x++ {
				f.pix[y*w+x] = c
			}
		}
	}
}

func (r *Registry) applyAberration(f *Frame, e *effect) {
	d := int(e.get("shift") + 0.5)
	if d <= 0 {
		return
	}
	w, h := int(f.w), int(f.h)
	for y := 0; y < h; y++ {
		row := f.pix[y*w : y*w+w]
		r.scratch = append(r.scratch[:0], row...)
		for x := 0; x < w; x++ {
			_, cg, _ := RGB565(r.scratch[x]).RGB888()
			var cr, cb uint8
			if x-d >= 0 {
				cr, _, _ = RGB565(r.scratch[x-d]).RGB888()
			}
			if x+d < w {
				_, _, cb = RGB565(r.scratch[x+d]).RGB888()
			}
			row[x] = uint16(To565(cr, cg, cb))
		}
	}
}

func (r *Registry) applyScanline(f *Frame, e *effect) {
	mode := int(e.get("mode") + 0.5)
	gap := int(e.get("gap") + 0.5)
	if gap < 2 {
		gap = 2
	}
	k := uint32(256 * (1 - e.get("dark")))
	w, h := int(f.w), int(f.h)
	phase := 0
	if mode == ScanAnimated {
		phase = int(r.tick/2) % gap
	}
	for y := 0; y < h; y++ {
		ky := uint32(256)
		if (y+phase)%gap == 0 {
			ky = k
		}
		if mode == ScanCurved && h > 1 {
			// Fade toward the top and bottom edges like curved glass.
			edge := 2*y - (h - 1)
			if edge < 0 {
				edge = -edge
			}
			ky = ky * (256 - uint32(96*edge/(h-1))) >> 8
		}
		if ky >= 256 {
			continue
		}
		for x := 0; x < w; x++ {
			f.pix[y*w+x] = uint16(scale(RGB565(f.pix[y*w+x]), ky))
		}
	}
}

func (r *Registry) applyTint(f *Frame, e *effect) {
	tr, tg, tb := ThemeColor(Theme(e.get("theme") + 0.5))
	k := uint32(e.get("strength") * 256)
	if k == 0 {
		return
	}
	if k > 256 {
		k = 256
	}
	for i, p := range f.pix {
		cr, cg, cb := RGB565(p).RGB888()
		l := uint32(Luma(cr, cg, cb))
		nr := (uint32(cr)*(256-k) + l*uint32(tr)/255*k) >> 8
		ng := (uint32(cg)*(256-k) + l*uint32(tg)/255*k) >> 8
		nb := (uint32(cb)*(256-k) + l*uint32(tb)/255*k) >> 8
		f.pix[i] = uint16(To565(uint8(nr), uint8(ng), uint8(nb)))
	}
}
