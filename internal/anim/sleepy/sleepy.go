// Package sleepy draws the sleeping character: a dimmed face with closed
// eyes and a trail of z glyphs drifting up from its head.
package sleepy

import (
	"image"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"

	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/anim"
	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/media"
)

const (
	zStep   = 3  // ticks per drift step
	zPeriod = 36 // steps in one z cycle
	zShow   = 30 // steps a z stays visible
)

var zColor = color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xFF}

type Anim struct {
	eye   image.Image
	mouth image.Image
}

func New() (*Anim, error) {
	a := &Anim{}
	var err error
	if a.eye, err = media.LoadImage(media.TypeEye, "closed"); err != nil {
		return nil, err
	}
	if a.mouth, err = media.LoadImage(media.TypeMouth, "flat"); err != nil {
		return nil, err
	}
	return a, nil
}

// dim halves every color written through it.
type dim struct {
	drivers.Displayer
}

func (d dim) SetPixel(x, y int16, c color.RGBA) {
	d.Displayer.SetPixel(x, y, color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: c.A})
}

// Activate draws the whole sleeping face. The face does not move, so
// DrawFrame only has to animate the z glyphs.
func (a *Anim) Activate(disp drivers.Displayer) {
	anim.Clear(disp)
	w, h := disp.Size()
	ew, _ := media.TypeEye.Size()
	mw, _ := media.TypeMouth.Size()
	d := dim{disp}
	anim.DrawImage(d, w/2-ew-8, h/2-20, a.eye, false)
	anim.DrawImage(d, w/2+8, h/2-20, a.eye, false)
	anim.DrawImage(d, w/2-mw/2, h/2+12, a.mouth, false)
}

func (a *Anim) DrawFrame(disp drivers.Displayer, tick uint32) bool {
	w, h := disp.Size()
	baseX := w/2 + 26
	baseY := h/2 - 22

	anim.Fill(disp, baseX-1, baseY-36, 28, 39, color.RGBA{})
	for i := uint32(0); i < 3; i++ {
		p := (tick/zStep + i*12) % zPeriod
		if p >= zShow {
			continue
		}
		glyph := "z"
		if i == 1 {
			glyph = "Z"
		}
		x := baseX + int16(i*5) + int16(p/3)
		y := baseY - int16(p)
		tinyfont.WriteLine(disp, &tinyfont.Org01, x, y, glyph, zColor)
	}
	return true
}
