package sleepy

import (
	"image/color"
	"reflect"
	"testing"
)

type testDisp struct {
	pix map[[2]int16]color.RGBA
}

func newTestDisp() *testDisp {
	return &testDisp{pix: map[[2]int16]color.RGBA{}}
}

func (d *testDisp) Size() (int16, int16) { return 128, 128 }
func (d *testDisp) Display() error       { return nil }

func (d *testDisp) SetPixel(x, y int16, c color.RGBA) {
	d.pix[[2]int16{x, y}] = c
}

// band returns the lit pixels in the z glyph area, right of the face.
func (d *testDisp) band() map[[2]int16]color.RGBA {
	out := map[[2]int16]color.RGBA{}
	for k, c := range d.pix {
		if k[0] >= 89 && (c.R != 0 || c.G != 0 || c.B != 0) {
			out[k] = c
		}
	}
	return out
}

func TestFaceIsDimmed(t *testing.T) {
	a, err := New()
	if err != nil {
		t.Fatal(err)
	}
	d := newTestDisp()
	a.Activate(d)
	lit := 0
	for _, c := range d.pix {
		if c.R == 0 && c.G == 0 && c.B == 0 {
			continue
		}
		lit++
		if c.R > 0x7F || c.G > 0x7F || c.B > 0x7F {
			t.Fatalf("face pixel brighter than half: %v", c)
		}
	}
	if lit == 0 {
		t.Error("no face pixels drawn")
	}
}

func TestZGlyphsDrift(t *testing.T) {
	a, err := New()
	if err != nil {
		t.Fatal(err)
	}
	d1 := newTestDisp()
	a.Activate(d1)
	a.DrawFrame(d1, 0)
	d2 := newTestDisp()
	a.Activate(d2)
	a.DrawFrame(d2, 30)
	b1, b2 := d1.band(), d2.band()
	if len(b1) == 0 || len(b2) == 0 {
		t.Fatalf("expected z glyphs in both frames, got %d and %d pixels", len(b1), len(b2))
	}
	if reflect.DeepEqual(b1, b2) {
		t.Error("z glyphs did not move between ticks")
	}
}

func TestZBandErasesOldGlyphs(t *testing.T) {
	a, err := New()
	if err != nil {
		t.Fatal(err)
	}
	// Drawing tick 30 over tick 0 must leave the same band as drawing
	// tick 30 on a clean display.
	acc := newTestDisp()
	a.Activate(acc)
	a.DrawFrame(acc, 0)
	a.DrawFrame(acc, 30)
	fresh := newTestDisp()
	a.Activate(fresh)
	a.DrawFrame(fresh, 30)
	if !reflect.DeepEqual(acc.band(), fresh.band()) {
		t.Error("stale glyph pixels left behind after drift")
	}
}
