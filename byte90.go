package byte90

import (
	"errors"
	"runtime"
	"strconv"
	"time"

	"github.com/ajanata/textbuf"
	"tinygo.org/x/drivers"

	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/anim"
	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/anim/alert"
	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/anim/face"
	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/anim/sleepy"
	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/anim/spinner"
	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/flip"
	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/fx"
	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/motion"
	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/prefs"
	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/sound"
	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/state"
)

const (
	// DefaultMenuTimeout closes an untouched menu and returns to the
	// pre-menu state.
	DefaultMenuTimeout = 15 * time.Second
	// DefaultAlertHold is how long the startled reaction stays up
	// before the pet calms down on its own.
	DefaultAlertHold = 3 * time.Second

	// bootHold keeps the boot log readable before the first frame.
	bootHold = 3 * time.Second
	// moodHold is how long a happy mood lingers on the face.
	moodHold = 5 * time.Second
	// maxPeerEventsPerTick bounds mailbox draining so a chatty radio
	// can't starve the loop.
	maxPeerEventsPerTick = 4
)

// Device is the whole pet: one of these owns the panel, the state
// machine, and every subsystem hanging off the main loop.
type Device struct {
	framerate uint
	frameTime time.Duration
	panel     *flip.Flip
	store     prefs.Store
	driver    Driver
	log       Logger
	now       func() time.Time

	sm      *state.Machine
	effects *fx.Registry
	engine  *motion.Engine
	sounds  *sound.Scheduler
	menu    *menuStack

	// base holds what the animations drew; work is the per-tick copy
	// the effects chew on. Keeping them separate is what stops effects
	// from compounding frame over frame.
	base *fx.Frame
	work *fx.Frame
	boot *textbuf.Buffer // on the panel, boot log only
	text *textbuf.Buffer // on the work frame, menu and text screens

	face    *face.Anim
	alert   *alert.Anim
	sleepy  *sleepy.Anim
	spinner *spinner.Anim
	clock   *clockFace
	active  anim.Animation

	motionCfg   motion.Config
	menuTimeout time.Duration
	alertHold   time.Duration

	preMenu    state.ID
	alertUntil time.Time
	moodUntil  time.Time
	lastPoll   time.Time
	bootUntil  time.Time
	lastChime  int
	errMsg     string

	init  bool
	start time.Time

	tick      uint32
	lastSec   time.Time
	lastTicks uint32
	lastFPS   uint32

	// storing this once could be inaccurate on OS-based implementations, but you also don't really care in that case
	totalRAM string
}

// Option adjusts a Device at construction.
type Option func(*Device)

// WithLogger replaces the println-backed default logger.
func WithLogger(l Logger) Option {
	return func(d *Device) { d.log = l }
}

// WithNow replaces the wall clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(d *Device) { d.now = now }
}

// WithMotionConfig replaces the gesture tuning wholesale.
func WithMotionConfig(cfg motion.Config) Option {
	return func(d *Device) { d.motionCfg = cfg }
}

// WithMenuTimeout adjusts the menu idle timeout. Zero disables it.
func WithMenuTimeout(t time.Duration) Option {
	return func(d *Device) { d.menuTimeout = t }
}

// WithAlertHold adjusts how long alerts hold before auto-calming.
// Zero keeps alerts up until a button or sleep takes over.
func WithAlertHold(t time.Duration) Option {
	return func(d *Device) { d.alertHold = t }
}

func New(framerate uint, panel drivers.Displayer, store prefs.Store, driver Driver, opts ...Option) (*Device, error) {
	if framerate == 0 {
		return nil, errors.New("must run at least one frame per second")
	}
	if panel == nil {
		return nil, errors.New("must provide panel display")
	}
	if store == nil {
		return nil, errors.New("must provide settings store")
	}
	if driver == nil {
		return nil, errors.New("must provide driver")
	}

	d := &Device{
		framerate:   framerate,
		frameTime:   time.Second / time.Duration(framerate),
		panel:       flip.New(panel),
		store:       store,
		driver:      driver,
		log:         printlnLogger{},
		now:         time.Now,
		motionCfg:   motion.DefaultConfig(),
		menuTimeout: DefaultMenuTimeout,
		alertHold:   DefaultAlertHold,
		lastChime:   -1,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.start = d.now()
	return d, nil
}

func (d *Device) Init() error {
	if d.init {
		return errors.New("already initialized")
	}
	println("starting init")

	var err error
	d.boot, err = textbuf.New(d.panel, textbuf.FontSize6x8)
	if err != nil {
		return errors.New("init boot log: " + err.Error())
	}
	d.boot.AutoFlush = true

	w, h := d.boot.Size()
	if w < 15 || h < 4 {
		return errors.New("unusably small display")
	}

	err = d.boot.SetLineInverse(0, "BYTE-90 BOOTING")
	if err != nil {
		return errors.New("boot msg: " + err.Error())
	}
	// we already validated it has at least 4 lines
	_ = d.boot.SetY(1)
	// we already know it was possible to print text so don't bother checking every time
	_ = d.boot.Print("Initialize devices")

	if err := d.driver.EarlyInit(); err != nil {
		_ = d.boot.PrintlnInverse(err.Error())
		return errors.New("early init: " + err.Error())
	}
	_ = d.boot.Println(".")

	pw, ph := d.panel.Size()
	d.base = fx.NewFrame(pw, ph)
	d.work = fx.NewFrame(pw, ph)
	d.text, err = textbuf.New(d.work, textbuf.FontSize6x8)
	if err != nil {
		return errors.New("init text overlay: " + err.Error())
	}

	if d.face, err = face.New(); err != nil {
		_ = d.boot.PrintlnInverse("load face: " + err.Error())
		return errors.New("load face: " + err.Error())
	}
	if d.alert, err = alert.New(); err != nil {
		_ = d.boot.PrintlnInverse("load alert: " + err.Error())
		return errors.New("load alert: " + err.Error())
	}
	if d.sleepy, err = sleepy.New(); err != nil {
		_ = d.boot.PrintlnInverse("load sleepy: " + err.Error())
		return errors.New("load sleepy: " + err.Error())
	}
	d.spinner = spinner.New()
	d.clock = newClockFace(d.store, d.now)
	_ = d.boot.Println("Sprites loaded")

	d.effects = fx.NewRegistry(d.store, d.now)
	d.sounds = sound.New(d.driver.AudioSink(), d.store, d.now)
	d.sm = state.New(d.log, d.store)
	d.engine = motion.New(d.motionCfg, d.log, d.sm, d.start)
	d.menu = newMenuStack(d.log, d.buildMenu(), d.menuTimeout)
	d.installHooks()
	d.setAnimation(state.Idle)

	_ = d.boot.Println("CPUs: " + strconv.Itoa(runtime.NumCPU()))
	mem := runtime.MemStats{}
	runtime.ReadMemStats(&mem)
	d.totalRAM = strconv.Itoa(int(mem.HeapSys / 1024))
	_ = d.boot.Println(d.totalRAM + "k RAM, " + strconv.Itoa(int(mem.HeapIdle/1024)) + "k free")

	d.driver.LateInit(d.boot)

	if rs := d.sm.Restore(); rs != state.Idle {
		_ = d.boot.Println("Resuming " + rs.String())
		if err := d.sm.Request(rs, "checkpoint"); err != nil {
			d.log.Infof("init: checkpoint resume to %s rejected: %s", rs, err.Error())
		}
	}

	now := d.now()
	_ = d.boot.Println("The time is now")
	_ = d.boot.Println(now.Format(time.Stamp))
	_ = d.boot.Println("Booted in " + now.Sub(d.start).Round(100*time.Millisecond).String())
	_ = d.boot.Println("BYTE-90 online.")

	d.boot.AutoFlush = false
	d.bootUntil = now.Add(bootHold)
	d.lastPoll = now
	d.lastSec = now

	_ = d.sounds.Play(sound.Startup)

	d.init = true
	println("init complete in", now.Sub(d.start).Round(100*time.Millisecond).String())
	return nil
}

// installHooks wires the cross-cutting reactions to state changes:
// sound cues, the alert hold timer, chime seeding, menu teardown, and
// the driver's power hook.
func (d *Device) installHooks() {
	d.sm.OnEnter(state.Sleep, func() { _ = d.sounds.Play(sound.SleepDescent) })
	d.sm.OnExit(state.Sleep, func() { _ = d.sounds.Play(sound.WakeRise) })
	d.sm.OnEnter(state.Error, func() {
		d.sounds.Preempt(sound.ErrorBuzz)
		d.driver.Haptic(255, 200)
	})
	d.sm.OnEnter(state.MotionAlert, func() {
		if d.alertHold > 0 {
			d.alertUntil = d.now().Add(d.alertHold)
		}
	})
	d.sm.OnExit(state.MotionAlert, func() {
		d.alertUntil = time.Time{}
		d.alert.SetHeart(false)
	})
	d.sm.OnEnter(state.Clock, func() {
		// seed so walking in at XX:00 stays quiet
		d.lastChime = d.clock.localTime().Hour()
	})
	d.sm.OnExit(state.Menu, func() {
		if d.menu != nil {
			d.menu.close()
		}
	})
	d.sm.Observe(func(from, to state.ID, reason string) {
		d.driver.StateChanged(from, to)
		d.setAnimation(to)
	})
}

// setAnimation points the renderer at the state's animation and hands
// it a cleared base frame. The text states draw over black.
func (d *Device) setAnimation(id state.ID) {
	switch id {
	case state.Idle:
		d.active = d.face
	case state.MotionAlert:
		d.active = d.alert
	case state.Sleep:
		d.active = d.sleepy
	case state.Clock:
		d.active = d.clock
	case state.Pairing:
		d.active = d.spinner
	default:
		d.active = nil
	}
	if d.active != nil {
		d.active.Activate(d.base)
	} else {
		d.base.Fill(0)
	}
}

// Run does not return. It attempts to run the main loop at the framerate specified in New.
func (d *Device) Run() {
	for range time.Tick(d.frameTime) {
		err := d.RunTick()
		if err != nil {
			d.panic(err)
		}
	}
}

// RunTick runs a single iteration of the main loop: inputs first, then
// state work, the sound scheduler, and finally the render pipeline.
func (d *Device) RunTick() error {
	if !d.init {
		return errors.New("not initialized")
	}
	now := d.now()
	d.tick++

	if now.Sub(d.lastSec) >= time.Second {
		d.lastFPS = d.tick - d.lastTicks
		d.lastSec = now
		d.lastTicks = d.tick
		d.log.Debugf("fps: %d", d.lastFPS)
	}

	// the boot log stays up briefly; any button skips it
	if !d.bootUntil.IsZero() {
		if now.Before(d.bootUntil) && d.driver.PressedButton() == ButtonNone {
			d.sounds.Tick(now)
			return nil
		}
		d.bootUntil = time.Time{}
	}

	if btn := d.driver.PressedButton(); btn != ButtonNone {
		d.handleButton(btn, now)
	}
	d.pollPeers(now)
	d.pollMotion(now)
	for _, ev := range d.engine.Tick(now) {
		d.handleGesture(ev, now)
	}
	d.tickMenu(now)
	d.tickAlert(now)
	d.tickMood(now)
	d.tickChime(now)

	d.sounds.Tick(now)

	return d.render()
}

// pollMotion reads the accelerometer at the engine's current cadence.
// The engine stretches the cadence in Sleep, which is what lets the
// hardware drop the sensor to a low-power rate.
func (d *Device) pollMotion(now time.Time) {
	if d.engine.WakeRequested() {
		d.wake("wake interrupt", now)
	}
	if now.Sub(d.lastPoll) < d.engine.PollInterval() {
		return
	}
	d.lastPoll = now
	x, y, z, st := d.driver.Accelerometer()
	switch st {
	case SensorStatusAvailable:
	case SensorStatusBusy:
		d.engine.NoteFault()
		return
	default:
		return
	}
	for _, ev := range d.engine.Ingest(motion.Sample{X: x, Y: y, Z: z, At: now}) {
		d.handleGesture(ev, now)
	}
}

// pollPeers drains the driver's pairing mailbox.
func (d *Device) pollPeers(now time.Time) {
	for i := 0; i < maxPeerEventsPerTick; i++ {
		ev, ok := d.driver.PeerEvent()
		if !ok {
			return
		}
		d.handlePeer(ev, now)
	}
}

func (d *Device) handlePeer(ev PeerEvent, now time.Time) {
	d.engine.NoteActivity(now)
	switch ev.Kind {
	case PeerPaired:
		if d.sm.Current() != state.Pairing {
			return
		}
		_ = d.sm.Request(state.Idle, "paired")
		d.sounds.Preempt(sound.PairSuccess)
		d.face.SetMood(face.MoodHappy)
		d.moodUntil = now.Add(moodHold)
	case PeerPairFailed:
		if d.sm.Current() != state.Pairing {
			return
		}
		_ = d.sm.Request(state.Idle, "pairing failed")
		d.sounds.Preempt(sound.PairFail)
	case PeerEmote:
		if d.sm.Current() == state.Sleep {
			d.wake("peer emote", now)
		}
		d.face.SetMood(face.MoodHappy)
		d.moodUntil = now.Add(moodHold)
		cur := d.sm.Current()
		if cur != state.Idle && cur != state.Clock {
			return
		}
		if err := d.sm.Request(state.MotionAlert, "peer emote"); err == nil {
			d.alert.SetHeart(true)
			_ = d.sounds.Play(sound.DoubleTapTrill)
			d.driver.Haptic(120, 60)
		}
	}
}

func (d *Device) handleGesture(ev motion.Event, now time.Time) {
	if d.sm.Current() == state.Sleep {
		// the gesture is consumed by waking up
		d.wake("gesture", now)
		return
	}
	switch ev.Kind {
	case motion.Shake:
		if err := d.sm.Request(state.MotionAlert, "shake"); err == nil {
			_ = d.sounds.Play(sound.ShakeAlarm)
			d.driver.Haptic(200, 120)
		}
	case motion.Tap:
		_ = d.sounds.Play(sound.TapChirp)
		d.driver.Haptic(80, 30)
	case motion.DoubleTap:
		d.face.Wink()
		_ = d.sounds.Play(sound.DoubleTapTrill)
		d.driver.Haptic(120, 40)
	case motion.OrientationChange:
		d.applyOrientation(ev.Orientation)
	}
}

// applyOrientation flips the panel when the pet hangs upside down and
// puts it to sleep face-down. Upright and face-up need nothing.
func (d *Device) applyOrientation(o motion.Orientation) {
	d.panel.Set(o == motion.UpsideDown)
	if o == motion.FaceDown && d.sm.Current() != state.Sleep {
		_ = d.sm.Request(state.Sleep, "face down")
	}
}

func (d *Device) wake(reason string, now time.Time) {
	if d.sm.Current() != state.Sleep {
		return
	}
	if err := d.sm.Request(state.Idle, reason); err == nil {
		d.engine.NoteActivity(now)
	}
}

func (d *Device) handleButton(btn ButtonEvent, now time.Time) {
	d.engine.NoteActivity(now)
	if d.sm.Current() == state.Sleep {
		d.wake("button", now)
		return
	}
	if d.menu.isOpen() {
		switch d.menu.handleButton(btn, now) {
		case menuNavigated:
			_ = d.sounds.Play(sound.MenuBlip)
		case menuActivated:
			_ = d.sounds.Play(sound.Confirm)
		case menuClosed:
			_ = d.sounds.Play(sound.MenuBlip)
			d.closeMenu("menu closed")
		}
		return
	}
	switch d.sm.Current() {
	case state.Idle, state.Clock, state.MotionAlert:
		switch btn {
		case ButtonClick:
			d.openMenu(now)
		case ButtonDoubleClick:
			d.face.Wink()
			_ = d.sounds.Play(sound.TapChirp)
		case ButtonLongPress:
			d.toggleClock()
		}
	case state.Pairing:
		if btn == ButtonLongPress {
			_ = d.sm.Request(state.Idle, "pairing cancelled")
		}
	case state.Updating:
		if btn == ButtonLongPress {
			_ = d.sm.Request(state.Idle, "update cancelled")
		}
	case state.Error:
		if btn == ButtonLongPress {
			d.errMsg = ""
			_ = d.sm.Request(state.Idle, "error acknowledged")
		}
	}
}

// toggleClock flips between the face and the clock on a long press.
// During an alert the same press just calms the pet down.
func (d *Device) toggleClock() {
	switch d.sm.Current() {
	case state.Clock:
		_ = d.sm.Request(state.Idle, "clock off")
	case state.MotionAlert:
		_ = d.sm.Request(state.Idle, "calmed by button")
	default:
		_ = d.sm.Request(state.Clock, "clock on")
	}
}

func (d *Device) openMenu(now time.Time) {
	pre := d.sm.Current()
	if err := d.sm.Request(state.Menu, "button"); err != nil {
		return
	}
	d.preMenu = pre
	d.menu.open(now)
	_ = d.sounds.Play(sound.Confirm)
}

// closeMenu returns to the pre-menu state. Leaf actions that already
// moved the machine elsewhere leave nothing for it to do.
func (d *Device) closeMenu(reason string) {
	if d.sm.Current() != state.Menu {
		return
	}
	to := state.Idle
	if d.preMenu == state.Clock {
		to = state.Clock
	}
	if err := d.sm.Request(to, reason); err != nil {
		d.log.Infof("menu: close to %s rejected: %s", to, err.Error())
	}
}

// leaveMenuTo is the shared exit for menu leaves that send the device
// somewhere specific. The Menu exit hook tears the stack down.
func (d *Device) leaveMenuTo(to state.ID, reason string) {
	if err := d.sm.Request(to, reason); err != nil {
		d.log.Infof("menu: %s rejected: %s", reason, err.Error())
	}
}

func (d *Device) tickMenu(now time.Time) {
	if d.menu.expired(now) {
		d.menu.close()
		d.closeMenu("menu timeout")
	}
}

// tickAlert calms the pet back down a few seconds after an alert.
func (d *Device) tickAlert(now time.Time) {
	if d.sm.Current() != state.MotionAlert || d.alertUntil.IsZero() {
		return
	}
	if now.After(d.alertUntil) {
		_ = d.sm.Request(state.Idle, "calmed")
	}
}

func (d *Device) tickMood(now time.Time) {
	if !d.moodUntil.IsZero() && now.After(d.moodUntil) {
		d.moodUntil = time.Time{}
		d.face.SetMood(face.MoodNeutral)
	}
}

// tickChime plays the hour chime while the clock is up.
func (d *Device) tickChime(now time.Time) {
	if d.sm.Current() != state.Clock {
		return
	}
	t := d.clock.localTime()
	if t.Minute() == 0 && t.Hour() != d.lastChime {
		d.lastChime = t.Hour()
		_ = d.sounds.Play(sound.HourChime)
	}
}

// render runs the frame pipeline: animation into the base frame, a
// copy into the work frame, effects over the copy, text screens over
// that, then the blit.
func (d *Device) render() error {
	if d.active != nil {
		d.active.DrawFrame(d.base, d.tick)
	}
	d.work.CopyFrom(d.base)
	d.effects.Apply(d.work)

	switch d.sm.Current() {
	case state.Menu:
		d.menu.render(d.text)
	case state.Updating:
		d.renderUpdating()
	case state.Error:
		d.renderError()
	}

	return d.blit()
}

// blit pushes the finished work frame through the flip wrapper to the
// panel.
func (d *Device) blit() error {
	w, h := d.work.Size()
	for y := int16(0); y < h; y++ {
		for x := int16(0); x < w; x++ {
			d.panel.SetPixel(x, y, d.work.At(x, y).RGBA())
		}
	}
	if err := d.panel.Display(); err != nil {
		return errors.New("panel display: " + err.Error())
	}
	return nil
}

func (d *Device) renderUpdating() {
	d.text.Clear()
	_ = d.text.SetLineInverse(0, "UPDATE MODE")
	_ = d.text.SetLine(2, "Waiting for host")
	_ = d.text.SetLine(3, dots(d.tick))
	_, h := d.text.Size()
	_ = d.text.SetLine(h-1, "Hold: cancel")
}

func (d *Device) renderError() {
	d.text.Clear()
	_ = d.text.SetLineInverse(0, "BYTE-90 ERROR")
	_ = d.text.SetLine(2, ":(")
	if d.errMsg != "" {
		_ = d.text.SetLine(4, d.errMsg)
	}
	_, h := d.text.Size()
	_ = d.text.SetLine(h-1, "Hold: back")
}

// dots animates a crawling ellipsis on the text screens.
func dots(tick uint32) string {
	return "...."[:1+(tick/12)%4]
}

// State returns the current top-level state.
func (d *Device) State() state.ID {
	return d.sm.Current()
}

// Fail reports an unrecoverable application fault and shows the error
// screen. The message should fit on one text line.
func (d *Device) Fail(msg string) {
	d.errMsg = msg
	if err := d.sm.Request(state.Error, "fault: "+msg); err != nil {
		d.log.Infof("fail: %s", err.Error())
	}
}

// WakePing may be called from an interrupt handler or another
// goroutine to wake the device; it only sets a flag.
func (d *Device) WakePing() {
	if d.engine != nil {
		d.engine.WakePing()
	}
}

// unfortunately you can't recover runtime panics in tinygo, so this is just going to be used for things we detect
// that are fatal
func (d *Device) panic(v any) {
	println(v)
	for {
		println(v)
		time.Sleep(time.Second)
	}
}
