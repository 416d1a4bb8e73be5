// Package alert draws big reactions: the startled face for a shake
// (wide eyes, open mouth, exclamation mark) and a friendly variant for
// a peer's emote (happy eyes, smile, heart). Both jitter.
package alert

import (
	"image"
	"image/color"

	"tinygo.org/x/drivers"

	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/anim"
	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/media"
)

type Anim struct {
	eye      image.Image
	happyEye image.Image
	mouth    image.Image
	smile    image.Image
	bang     image.Image
	heartImg image.Image
	heart    bool
}

func New() (*Anim, error) {
	a := &Anim{}
	var err error
	if a.eye, err = media.LoadImage(media.TypeEye, "open"); err != nil {
		return nil, err
	}
	if a.happyEye, err = media.LoadImage(media.TypeEye, "happy"); err != nil {
		return nil, err
	}
	if a.mouth, err = media.LoadImage(media.TypeMouth, "open"); err != nil {
		return nil, err
	}
	if a.smile, err = media.LoadImage(media.TypeMouth, "smile"); err != nil {
		return nil, err
	}
	if a.bang, err = media.LoadImage(media.TypeIcon, "alert"); err != nil {
		return nil, err
	}
	if a.heartImg, err = media.LoadImage(media.TypeIcon, "heart"); err != nil {
		return nil, err
	}
	return a, nil
}

// SetHeart switches between the startled look (false) and the friendly
// heart look (true). It sticks until changed, so callers set it every
// time they trigger the reaction.
func (a *Anim) SetHeart(on bool) {
	a.heart = on
}

func (a *Anim) Activate(disp drivers.Displayer) {
	anim.Clear(disp)
}

func (a *Anim) DrawFrame(disp drivers.Displayer, tick uint32) bool {
	w, h := disp.Size()
	// Knuth multiplicative hash keeps the jitter deterministic per tick.
	r := tick * 2654435761
	dx := int16(r%5) - 2
	dy := int16((r>>3)%5) - 2

	eye, mouth, icon := a.eye, a.mouth, a.bang
	if a.heart {
		eye, mouth, icon = a.happyEye, a.smile, a.heartImg
	}

	ew, _ := media.TypeEye.Size()
	mw, _ := media.TypeMouth.Size()
	iw, _ := media.TypeIcon.Size()
	eyeY := h/2 - 20 + dy
	stamp(disp, w/2-ew-8+dx, eyeY, eye)
	stamp(disp, w/2+8+dx, eyeY, eye)
	stamp(disp, w/2-mw/2+dx, h/2+12+dy, mouth)
	stamp(disp, w/2-iw/2+dx, 6+dy, icon)
	return true
}

// stamp clears a border around the sprite before drawing it, so a sprite
// jumping to a new jitter offset leaves no pixels behind.
func stamp(disp drivers.Displayer, x, y int16, img image.Image) {
	b := img.Bounds()
	anim.Fill(disp, x-4, y-4, int16(b.Max.X)+8, int16(b.Max.Y)+8, color.RGBA{})
	anim.DrawImage(disp, x, y, img, false)
}
