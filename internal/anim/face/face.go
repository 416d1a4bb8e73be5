// Package face draws the idle character: two eyes and a mouth, with a slow
// vertical bob, periodic blinks, and a wink on demand. Cadences are tuned
// for the default 25 FPS tick.
package face

import (
	"image"

	"tinygo.org/x/drivers"

	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/anim"
	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/media"
)

type Mood uint8

const (
	MoodNeutral Mood = iota
	MoodHappy
)

const (
	blinkEvery = 96
	blinkHold  = 5
	bobDiv     = 8
	winkFrames = 18
)

var bobTable = [8]int16{0, 1, 2, 1, 0, -1, -2, -1}

type Anim struct {
	eyeOpen   image.Image
	eyeClosed image.Image
	eyeHappy  image.Image
	mouthFlat image.Image
	mouthSmug image.Image

	mood Mood
	wink uint8
}

func New() (*Anim, error) {
	a := &Anim{}
	var err error
	if a.eyeOpen, err = media.LoadImage(media.TypeEye, "open"); err != nil {
		return nil, err
	}
	if a.eyeClosed, err = media.LoadImage(media.TypeEye, "closed"); err != nil {
		return nil, err
	}
	if a.eyeHappy, err = media.LoadImage(media.TypeEye, "happy"); err != nil {
		return nil, err
	}
	if a.mouthFlat, err = media.LoadImage(media.TypeMouth, "flat"); err != nil {
		return nil, err
	}
	if a.mouthSmug, err = media.LoadImage(media.TypeMouth, "smile"); err != nil {
		return nil, err
	}
	return a, nil
}

// SetMood changes the resting expression. It takes effect on the next frame.
func (a *Anim) SetMood(m Mood) {
	a.mood = m
}

// Wink closes the right eye for a moment.
func (a *Anim) Wink() {
	a.wink = winkFrames
}

func (a *Anim) Activate(disp drivers.Displayer) {
	a.wink = 0
	anim.Clear(disp)
}

func (a *Anim) DrawFrame(disp drivers.Displayer, tick uint32) bool {
	w, h := disp.Size()
	bob := bobTable[(tick/bobDiv)%8]

	eye := a.eyeOpen
	mouth := a.mouthFlat
	if a.mood == MoodHappy {
		eye = a.eyeHappy
		mouth = a.mouthSmug
	}
	if tick%blinkEvery >= blinkEvery-blinkHold {
		eye = a.eyeClosed
	}
	right := eye
	if a.wink > 0 {
		right = a.eyeClosed
		a.wink--
	}

	ew, _ := media.TypeEye.Size()
	mw, _ := media.TypeMouth.Size()
	eyeY := h/2 - 20 + bob
	anim.DrawImage(disp, w/2-ew-8, eyeY, eye, false)
	anim.DrawImage(disp, w/2+8, eyeY, right, false)
	anim.DrawImage(disp, w/2-mw/2, h/2+12+bob, mouth, false)
	return true
}
