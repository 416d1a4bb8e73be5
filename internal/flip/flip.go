// Package flip wraps a display and optionally rotates it 180°, for when
// the device is hanging upside down.
package flip

import (
	"image/color"

	"tinygo.org/x/drivers"
)

type Flip struct {
	d    drivers.Displayer
	w, h int16
	on   bool
}

func New(d drivers.Displayer) *Flip {
	w, h := d.Size()
	return &Flip{
		d: d,
		w: w,
		h: h,
	}
}

func (f *Flip) Size() (x, y int16) {
	return f.w, f.h
}

// Set turns rotation on or off. It affects pixels written after the call,
// so callers should redraw the full frame when changing it.
func (f *Flip) Set(on bool) {
	f.on = on
}

func (f *Flip) Enabled() bool {
	return f.on
}

func (f *Flip) SetPixel(x, y int16, c color.RGBA) {
	if f.on {
		x = f.w - x - 1
		y = f.h - y - 1
	}
	f.d.SetPixel(x, y, c)
}

func (f *Flip) Display() error {
	return f.d.Display()
}
