// Package spinner draws the pairing indicator: a ring of dots with a
// bright head sweeping around and a fading tail behind it.
package spinner

import (
	"image/color"
	"math"

	"tinygo.org/x/drivers"

	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/anim"
)

const (
	dots     = 12
	radius   = 22
	ticksPer = 2 // ticks the head rests on each dot
)

var offsets [dots][2]int16

func init() {
	for i := 0; i < dots; i++ {
		a := 2 * math.Pi * float64(i) / dots
		offsets[i][0] = int16(math.Round(radius * math.Sin(a)))
		offsets[i][1] = int16(math.Round(-radius * math.Cos(a)))
	}
}

var levels = [3]color.RGBA{
	{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	{R: 0x90, G: 0x90, B: 0x90, A: 0xFF},
	{R: 0x38, G: 0x38, B: 0x38, A: 0xFF},
}

type Anim struct{}

func New() *Anim {
	return &Anim{}
}

func (a *Anim) Activate(disp drivers.Displayer) {
	anim.Clear(disp)
}

func (a *Anim) DrawFrame(disp drivers.Displayer, tick uint32) bool {
	w, h := disp.Size()
	head := int((tick / ticksPer) % dots)
	for i := 0; i < dots; i++ {
		c := color.RGBA{}
		back := (head - i + dots) % dots
		if back < len(levels) {
			c = levels[back]
		}
		dot(disp, w/2+offsets[i][0], h/2+offsets[i][1], c)
	}
	return true
}

// Every dot is redrawn every frame, off ones in black, so the sweep erases
// its own tail.
func dot(disp drivers.Displayer, cx, cy int16, c color.RGBA) {
	for x := cx - 1; x <= cx+1; x++ {
		for y := cy - 1; y <= cy+1; y++ {
			disp.SetPixel(x, y, c)
		}
	}
}
