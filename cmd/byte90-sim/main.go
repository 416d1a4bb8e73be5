// Desktop simulator. The device core runs unmodified against a fyne
// window: the panel is an image canvas, gestures are synthesized as
// queued accelerometer bursts, and preferences persist through fyne's
// own store.
//
// Keys: Space click, D double click, B long press, T tap, Y double
// tap, S shake, F cycle orientation, W wake ping, E peer emote,
// R pairing success, X pairing failure.
package main

import (
	"flag"
	"image"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"

	"github.com/ajanata/textbuf"

	byte90 "github.com/alxv2016/Byte90-alxvlabs-sub000"
	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/sound"
	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/state"
)

const panelSize = 128

func main() {
	scale := flag.Int("scale", 3, "window pixels per panel pixel")
	flag.Parse()

	a := app.NewWithID("com.alxvlabs.byte90")
	w := a.NewWindow("BYTE-90")

	panel := newSimPanel()
	px := float32(panelSize * *scale)
	panel.view.SetMinSize(fyne.NewSize(px, px))
	w.SetContent(container.NewCenter(panel.view))

	drv := newSimDriver()
	dev, err := byte90.New(25, panel, a.Preferences(), drv)
	if err != nil {
		println("byte90:", err.Error())
		return
	}

	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeySpace:
			drv.pressButton(byte90.ButtonClick)
		case fyne.KeyD:
			drv.pressButton(byte90.ButtonDoubleClick)
		case fyne.KeyB:
			drv.pressButton(byte90.ButtonLongPress)
		case fyne.KeyT:
			drv.queueTap()
		case fyne.KeyY:
			drv.queueDoubleTap()
		case fyne.KeyS:
			drv.queueShake()
		case fyne.KeyF:
			drv.cycleOrientation()
		case fyne.KeyW:
			dev.WakePing()
		case fyne.KeyE:
			drv.postPeer(byte90.PeerEvent{Kind: byte90.PeerEmote, Emote: 1})
		case fyne.KeyR:
			drv.postPeer(byte90.PeerEvent{Kind: byte90.PeerPaired})
		case fyne.KeyX:
			drv.postPeer(byte90.PeerEvent{Kind: byte90.PeerPairFailed})
		}
	})

	go func() {
		if err := dev.Init(); err != nil {
			println("byte90: init:", err.Error())
			fyne.Do(a.Quit)
			return
		}
		dev.Run()
	}()

	w.ShowAndRun()
}

// simPanel is the drivers.Displayer the core draws on. The device loop
// writes the back buffer; Display snapshots it and asks the fyne
// thread to repaint. A torn repaint only lasts one frame.
type simPanel struct {
	mu    sync.Mutex
	back  *image.RGBA
	front *image.RGBA
	view  *canvas.Image
}

func newSimPanel() *simPanel {
	r := image.Rect(0, 0, panelSize, panelSize)
	p := &simPanel{
		back:  image.NewRGBA(r),
		front: image.NewRGBA(r),
	}
	p.view = canvas.NewImageFromImage(p.front)
	p.view.ScaleMode = canvas.ImageScalePixels
	return p
}

func (p *simPanel) Size() (x, y int16) {
	return panelSize, panelSize
}

func (p *simPanel) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= panelSize || y >= panelSize {
		return
	}
	p.back.SetRGBA(int(x), int(y), c)
}

func (p *simPanel) Display() error {
	p.mu.Lock()
	copy(p.front.Pix, p.back.Pix)
	p.mu.Unlock()
	fyne.Do(p.view.Refresh)
	return nil
}

// simDriver fakes the carrier board. Gestures are bursts of samples
// played back one per poll on top of the current gravity vector, so
// the real classifier does the recognizing.
type simDriver struct {
	buttons chan byte90.ButtonEvent
	peers   chan byte90.PeerEvent

	mu      sync.Mutex
	gravity [3]int32
	burst   [][3]int32
	facing  int
}

var orientations = [4][3]int32{
	{0, 1000, 0},  // upright
	{0, -1000, 0}, // upside down
	{0, 0, 1000},  // face up
	{0, 0, -1000}, // face down
}

func newSimDriver() *simDriver {
	return &simDriver{
		buttons: make(chan byte90.ButtonEvent, 8),
		peers:   make(chan byte90.PeerEvent, 8),
		gravity: orientations[0],
	}
}

func (d *simDriver) EarlyInit() error { return nil }

func (d *simDriver) LateInit(buf *textbuf.Buffer) {
	buf.Println("sim driver online")
}

func (d *simDriver) PressedButton() byte90.ButtonEvent {
	select {
	case ev := <-d.buttons:
		return ev
	default:
		return byte90.ButtonNone
	}
}

func (d *simDriver) Accelerometer() (x, y, z int32, status byte90.SensorStatus) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.burst) > 0 {
		s := d.burst[0]
		d.burst = d.burst[1:]
		return s[0], s[1], s[2], byte90.SensorStatusAvailable
	}
	g := d.gravity
	return g[0], g[1], g[2], byte90.SensorStatusAvailable
}

func (d *simDriver) AudioSink() sound.Sink {
	return logSink{}
}

func (d *simDriver) PeerEvent() (byte90.PeerEvent, bool) {
	select {
	case ev := <-d.peers:
		return ev, true
	default:
		return byte90.PeerEvent{}, false
	}
}

func (d *simDriver) StateChanged(from, to state.ID) {
	println("state:", from.String(), "->", to.String())
}

func (d *simDriver) Haptic(strength uint8, ms uint16) {
	println("haptic:", strength, "for", ms, "ms")
}

func (d *simDriver) pressButton(ev byte90.ButtonEvent) {
	select {
	case d.buttons <- ev:
	default:
	}
}

func (d *simDriver) postPeer(ev byte90.PeerEvent) {
	select {
	case d.peers <- ev:
	default:
	}
}

func (d *simDriver) queue(samples ...[3]int32) {
	d.mu.Lock()
	d.burst = append(d.burst, samples...)
	d.mu.Unlock()
}

// queueTap injects one hard spike; the fall back to gravity on the
// next poll is the tail of the knock.
func (d *simDriver) queueTap() {
	g := d.restingVector()
	d.queue([3]int32{g[0] + 1600, g[1], g[2]})
}

// queueDoubleTap spaces two spikes a few calm polls apart, inside the
// double-tap window but past the settle time.
func (d *simDriver) queueDoubleTap() {
	g := d.restingVector()
	spike := [3]int32{g[0] + 1600, g[1], g[2]}
	d.queue(spike, g, g, g, g, spike)
}

// queueShake alternates the X axis hard enough to rack up direction
// reversals.
func (d *simDriver) queueShake() {
	g := d.restingVector()
	var s [][3]int32
	for i := 0; i < 10; i++ {
		off := int32(800)
		if i%2 == 1 {
			off = -800
		}
		s = append(s, [3]int32{g[0] + off, g[1], g[2]})
	}
	d.queue(s...)
}

func (d *simDriver) restingVector() [3]int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gravity
}

func (d *simDriver) cycleOrientation() {
	d.mu.Lock()
	d.facing = (d.facing + 1) % len(orientations)
	d.gravity = orientations[d.facing]
	d.mu.Unlock()
	println("gravity:", d.gravity[0], d.gravity[1], d.gravity[2])
}

// logSink prints tones instead of playing them.
type logSink struct{}

func (logSink) StartTone(freq uint16, vol uint8) {
	println("tone:", freq, "Hz vol", vol)
}

func (logSink) Stop() {
	println("tone: off")
}
