package fx

import (
	"image/color"
)

// Frame is an off-screen RGB565 buffer. Animations and the clock draw
// into it through the drivers.Displayer interface, the effect passes
// rewrite it in place, and the device blits the packed pixels to the
// panel afterward.
type Frame struct {
	w, h int16
	pix  []uint16
}

// NewFrame allocates a w by h frame, cleared to black.
func NewFrame(w, h int16) *Frame {
	if w <= 0 || h <= 0 {
		panic("fx: frame dimensions must be positive")
	}
	return &Frame{
		w:   w,
		h:   h,
		pix: make([]uint16, int(w)*int(h)),
	}
}

// Size returns the frame dimensions.
func (f *Frame) Size() (x, y int16) {
	return f.w, f.h
}

// SetPixel stores one pixel. Out-of-bounds writes are dropped so text and
// sprite renderers may overdraw the edges.
func (f *Frame) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return
	}
	f.pix[int(y)*int(f.w)+int(x)] = uint16(To565(c.R, c.G, c.B))
}

// Display satisfies drivers.Displayer. The frame has no panel of its
// own, so this is a no-op.
func (f *Frame) Display() error {
	return nil
}

// Pix exposes the packed pixels, row-major, for blitting.
func (f *Frame) Pix() []uint16 {
	return f.pix
}

// At reads one packed pixel. Out-of-bounds reads return black.
func (f *Frame) At(x, y int16) RGB565 {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return 0
	}
	return RGB565(f.pix[int(y)*int(f.w)+int(x)])
}

// Set565 stores one packed pixel, dropping out-of-bounds writes.
func (f *Frame) Set565(x, y int16, c RGB565) {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return
	}
	f.pix[int(y)*int(f.w)+int(x)] = uint16(c)
}

// Fill sets every pixel to c.
func (f *Frame) Fill(c RGB565) {
	for i := range f.pix {
		f.pix[i] = uint16(c)
	}
}

// CopyFrom copies the pixels of src, which must have the same
// dimensions.
func (f *Frame) CopyFrom(src *Frame) {
	if f.w != src.w || f.h != src.h {
		panic("fx: frame size mismatch")
	}
	copy(f.pix, src.pix)
}
