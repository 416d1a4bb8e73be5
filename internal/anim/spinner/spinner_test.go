package spinner

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

func frame(a *Anim, tick uint32) *testDisp {
	d := newTestDisp()
	a.Activate(d)
	a.DrawFrame(d, tick)
	return d
}

func TestSweepLoops(t *testing.T) {
	a := New()
	if !reflect.DeepEqual(frame(a, 0).pix, frame(a, dots*ticksPer).pix) {
		t.Error("full revolution did not return to the same frame")
	}
}

func TestHeadAdvances(t *testing.T) {
	a := New()
	if reflect.DeepEqual(frame(a, 0).pix, frame(a, ticksPer).pix) {
		t.Error("head did not advance to the next dot")
	}
}

func TestDotsStayOnRing(t *testing.T) {
	a := New()
	d := frame(a, 5)
	for k, c := range d.pix {
		if c.R == 0 && c.G == 0 && c.B == 0 {
			continue
		}
		dx, dy := int(k[0])-64, int(k[1])-64
		rr := dx*dx + dy*dy
		if rr < (radius-3)*(radius-3) || rr > (radius+3)*(radius+3) {
			t.Fatalf("lit pixel off the ring at %v", k)
		}
	}
}

func TestTailFades(t *testing.T) {
	a := New()
	d := frame(a, 0)
	head := d.pix[[2]int16{64 + offsets[0][0], 64 + offsets[0][1]}]
	tail1 := d.pix[[2]int16{64 + offsets[11][0], 64 + offsets[11][1]}]
	tail3 := d.pix[[2]int16{64 + offsets[9][0], 64 + offsets[9][1]}]
	if head != levels[0] {
		t.Errorf("head dot = %v, want %v", head, levels[0])
	}
	if tail1 != levels[1] {
		t.Errorf("first tail dot = %v, want %v", tail1, levels[1])
	}
	if (tail3 != color.RGBA{}) {
		t.Errorf("dot behind the tail = %v, want off", tail3)
	}
}
