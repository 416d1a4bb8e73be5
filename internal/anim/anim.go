// Package anim holds the character animations and the drawing helpers they
// share. Animations draw incrementally: Activate prepares the display once
// and DrawFrame only touches the pixels that change.
package anim

import (
	"image"
	"image/color"

	"tinygo.org/x/drivers"
)

type Animation interface {
	// Activate is called when the animation becomes the active one. It may be
	// called again later if the animation is re-activated, so it must reset
	// any per-run state. Most animations clear the display here.
	Activate(drivers.Displayer)
	// DrawFrame draws the next frame. The running tick counter is provided so
	// animations can key off every-x-frames without tracking it themselves.
	// Returns whether the animation wants to keep running.
	DrawFrame(disp drivers.Displayer, tick uint32) bool
}

// Clear blanks the entire display.
func Clear(disp drivers.Displayer) {
	w, h := disp.Size()
	for x := int16(0); x < w; x++ {
		for y := int16(0); y < h; y++ {
			disp.SetPixel(x, y, color.RGBA{})
		}
	}
}

// Fill paints the rectangle with the given color, clipped to the display.
func Fill(disp drivers.Displayer, x, y, w, h int16, c color.RGBA) {
	dw, dh := disp.Size()
	for xx := x; xx < x+w; xx++ {
		if xx < 0 || xx >= dw {
			continue
		}
		for yy := y; yy < y+h; yy++ {
			if yy < 0 || yy >= dh {
				continue
			}
			disp.SetPixel(xx, yy, c)
		}
	}
}

// DrawImage draws the image on the display at the given coordinates.
// If wrap is true, off-screen coordinates wrap around to the other side of
// the display, including negative offsets. Otherwise they are clipped.
func DrawImage(disp drivers.Displayer, offX, offY int16, img image.Image, wrap bool) {
	w, h := disp.Size()
	b := img.Bounds()
	// Decoded bitmaps always have their minimum at 0, 0.
	for x := 0; x < b.Max.X; x++ {
		xx := int16(x) + offX
		if xx < 0 || xx >= w {
			if wrap {
				xx = (xx%w + w) % w
			} else {
				continue
			}
		}
		for y := 0; y < b.Max.Y; y++ {
			yy := int16(y) + offY
			if yy < 0 || yy >= h {
				if wrap {
					yy = (yy%h + h) % h
				} else {
					continue
				}
			}
			r, g, b, a := img.At(x, y).RGBA()
			disp.SetPixel(xx, yy, color.RGBA{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: uint8(a >> 8),
			})
		}
	}
}
