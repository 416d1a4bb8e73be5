package byte90

import (
	"image/color"
	"time"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"

	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/anim"
	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/prefs"
)

// prefTimezone holds the clock's offset from UTC in minutes.
const prefTimezone = "clock.tz_minutes"

var (
	timeColor = color.RGBA{R: 0xE8, G: 0xE8, B: 0xE8, A: 0xFF}
	dateColor = color.RGBA{R: 0x9A, G: 0x9A, B: 0x9A, A: 0xFF}
)

// clockFace is the Clock state's animation. It draws into the base
// frame like every other animation, so the effects pipeline styles it
// the same way it styles the face.
type clockFace struct {
	store prefs.Store
	now   func() time.Time
}

func newClockFace(store prefs.Store, now func() time.Time) *clockFace {
	return &clockFace{store: store, now: now}
}

// localTime applies the persisted timezone offset to the wall clock.
// The device has no real zone database; a fixed offset is all a pet
// needs.
func (c *clockFace) localTime() time.Time {
	off := c.store.IntWithFallback(prefTimezone, 0)
	return c.now().UTC().Add(time.Duration(off) * time.Minute)
}

func (c *clockFace) Activate(disp drivers.Displayer) {
	anim.Clear(disp)
}

func (c *clockFace) DrawFrame(disp drivers.Displayer, tick uint32) bool {
	anim.Clear(disp)
	w, h := disp.Size()
	t := c.localTime()

	hhmm := clockText(t)
	_, tw := tinyfont.LineWidth(&freemono.Bold12pt7b, hhmm)
	tinyfont.WriteLine(disp, &freemono.Bold12pt7b, (w-int16(tw))/2, h/2, hhmm, timeColor)

	date := t.Format("Mon Jan 2")
	_, dw := tinyfont.LineWidth(&tinyfont.Org01, date)
	tinyfont.WriteLine(disp, &tinyfont.Org01, (w-int16(dw))/2, h/2+18, date, dateColor)
	return true
}

// clockText formats HH:MM with the separator blinking at 1Hz. A space
// stands in for the colon on odd seconds; the font is monospaced, so
// the digits hold still.
func clockText(t time.Time) string {
	s := t.Format("15:04")
	if t.Second()%2 == 1 {
		s = s[:2] + " " + s[3:]
	}
	return s
}
