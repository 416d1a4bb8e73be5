//go:build rp2040 || rp2350

// Hardware build for the Raspberry Pi Pico carrier board.
//
// Wiring:
//
//	SPI0  SCK=GPIO18 SDO=GPIO19 (SDI GPIO16 unused, panel is write-only)
//	OLED  CS=GPIO17 DC=GPIO20 RST=GPIO21 (SSD1351, 128x128)
//	I2C0  SDA=GPIO4 SCL=GPIO5 (ADXL345 at 0x53)
//	GPIO6 ADXL345 INT1 (activity wake)
//	GPIO7 button to ground
//	GPIO8 piezo buzzer
//	GPIO9 haptic driver trigger line
package main

import (
	"errors"
	"fmt"
	"machine"
	"time"

	"github.com/ajanata/textbuf"
	"tinygo.org/x/drivers/adxl345"
	"tinygo.org/x/drivers/buzzer"
	"tinygo.org/x/drivers/ssd1351"

	byte90 "github.com/alxv2016/Byte90-alxvlabs-sub000"
	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/prefs"
	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/sound"
	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/state"
)

const (
	oledCS  = machine.GPIO17
	oledDC  = machine.GPIO20
	oledRST = machine.GPIO21

	accelINT  = machine.GPIO6
	buttonPin = machine.GPIO7
	buzzerPin = machine.GPIO8
	hapticPin = machine.GPIO9

	accelAddr = 0x53
)

const (
	longPressMin   = 600 * time.Millisecond
	doubleClickGap = 300 * time.Millisecond
)

func main() {
	blink()
	err := machine.SPI0.Configure(machine.SPIConfig{
		Frequency: 16 * machine.MHz,
		SCK:       machine.GPIO18,
		SDO:       machine.GPIO19,
		SDI:       machine.GPIO16,
	})
	if err != nil {
		fatal(err)
	}
	display := ssd1351.New(machine.SPI0, oledRST, oledDC, oledCS, machine.NoPin, machine.NoPin)
	display.Configure(ssd1351.Config{Width: 128, Height: 128})
	blink()

	drv := newBoardDriver()
	dev, err := byte90.New(25, &display, prefs.NewMemory(), drv)
	if err != nil {
		fatal(err)
	}
	drv.dev = dev
	if err := dev.Init(); err != nil {
		fatal(err)
	}
	dev.Run()
}

func blink() {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led.High()
	time.Sleep(100 * time.Millisecond)
	led.Low()
	time.Sleep(100 * time.Millisecond)
}

func fatal(err error) {
	println("byte90:", err.Error())
	for {
		blink()
	}
}

// boardDriver is the byte90.Driver for the Pico carrier.
type boardDriver struct {
	dev   *byte90.Device
	accel adxl345.Device
	sink  *buzzerSink

	peers   chan byte90.PeerEvent
	haptics chan time.Duration

	button buttonState
}

func newBoardDriver() *boardDriver {
	return &boardDriver{
		sink:    &buzzerSink{cmds: make(chan toneCmd, 4)},
		peers:   make(chan byte90.PeerEvent, 8),
		haptics: make(chan time.Duration, 2),
	}
}

func (b *boardDriver) EarlyInit() error {
	err := machine.I2C0.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.GPIO4,
		SCL:       machine.GPIO5,
	})
	if err != nil {
		return errors.New("i2c0: " + err.Error())
	}

	b.accel = adxl345.New(machine.I2C0)
	b.accel.Configure()
	b.accel.SetRate(adxl345.RATE_100HZ)
	b.accel.SetRange(adxl345.RANGE_2G)
	if err := b.configureAccelWake(); err != nil {
		return err
	}

	buttonPin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	b.button.pin = buttonPin
	buzzerPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	hapticPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	hapticPin.Low()

	accelINT.Configure(machine.PinConfig{Mode: machine.PinInput})
	err = accelINT.SetInterrupt(machine.PinRising, func(machine.Pin) {
		if b.dev != nil {
			b.dev.WakePing()
		}
	})
	if err != nil {
		return errors.New("accel int: " + err.Error())
	}

	go b.runBuzzer()
	go b.runHaptic()
	return nil
}

// configureAccelWake programs the ADXL345 activity interrupt, which the
// tinygo driver does not expose: 0.5 g ac-coupled on all axes, routed
// to INT1.
func (b *boardDriver) configureAccelWake() error {
	for _, r := range []struct{ reg, val uint8 }{
		{0x24, 8},    // THRESH_ACT, 62.5 mg/LSB
		{0x27, 0xF0}, // ACT_INACT_CTL
		{0x2F, 0x00}, // INT_MAP
		{0x2E, 0x10}, // INT_ENABLE
	} {
		if err := machine.I2C0.WriteRegister(accelAddr, r.reg, []byte{r.val}); err != nil {
			return errors.New("accel wake setup: " + err.Error())
		}
	}
	return nil
}

func (b *boardDriver) LateInit(buf *textbuf.Buffer) {
	x, y, z := b.accel.ReadRawAcceleration()
	buf.Println(fmt.Sprintf("accel %d %d %d", x, y, z))
}

// buttonState classifies the raw button level into click, double click
// and long press. It is sampled once per frame, which is also the
// debounce.
type buttonState struct {
	pin         machine.Pin
	down        bool
	downAt      time.Time
	lastClickAt time.Time
	clickWait   bool
	longFired   bool
}

func (s *buttonState) sample(now time.Time) byte90.ButtonEvent {
	pressed := !s.pin.Get()
	switch {
	case pressed && !s.down:
		s.down = true
		s.downAt = now
		s.longFired = false
	case pressed && s.down:
		// long press fires while still held so "hold to cancel" feels
		// immediate
		if !s.longFired && now.Sub(s.downAt) >= longPressMin {
			s.longFired = true
			s.clickWait = false
			return byte90.ButtonLongPress
		}
	case !pressed && s.down:
		s.down = false
		if s.longFired {
			break
		}
		if s.clickWait && now.Sub(s.lastClickAt) <= doubleClickGap {
			s.clickWait = false
			return byte90.ButtonDoubleClick
		}
		s.clickWait = true
		s.lastClickAt = now
	}
	if s.clickWait && now.Sub(s.lastClickAt) > doubleClickGap {
		s.clickWait = false
		return byte90.ButtonClick
	}
	return byte90.ButtonNone
}

func (b *boardDriver) PressedButton() byte90.ButtonEvent {
	return b.button.sample(time.Now())
}

func (b *boardDriver) Accelerometer() (x, y, z int32, status byte90.SensorStatus) {
	rx, ry, rz := b.accel.ReadRawAcceleration()
	// reading INT_SOURCE rearms the latched activity interrupt
	var src [1]byte
	_ = machine.I2C0.ReadRegister(accelAddr, 0x30, src[:])
	// 256 LSB per g at +-2 g full resolution
	return rx * 1000 / 256, ry * 1000 / 256, rz * 1000 / 256, byte90.SensorStatusAvailable
}

func (b *boardDriver) AudioSink() sound.Sink {
	return b.sink
}

func (b *boardDriver) PeerEvent() (byte90.PeerEvent, bool) {
	select {
	case ev := <-b.peers:
		return ev, true
	default:
		return byte90.PeerEvent{}, false
	}
}

// PostPeerEvent queues an event from the radio task, dropping it when
// the main loop is behind.
func (b *boardDriver) PostPeerEvent(ev byte90.PeerEvent) {
	select {
	case b.peers <- ev:
	default:
	}
}

func (b *boardDriver) StateChanged(from, to state.ID) {
	switch {
	case to == state.Sleep:
		b.accel.SetRate(adxl345.RATE_12_5HZ)
	case from == state.Sleep:
		b.accel.SetRate(adxl345.RATE_100HZ)
	}
}

// Haptic pulses the haptic driver's trigger line; the driver plays its
// stored waveform for as long as the line is held. Strength is fixed by
// the waveform, so only the duration is used.
func (b *boardDriver) Haptic(strength uint8, ms uint16) {
	select {
	case b.haptics <- time.Duration(ms) * time.Millisecond:
	default:
	}
}

func (b *boardDriver) runHaptic() {
	for d := range b.haptics {
		hapticPin.High()
		time.Sleep(d)
		hapticPin.Low()
	}
}

type toneCmd struct {
	freq uint16
	vol  uint8
}

// buzzerSink feeds the buzzer goroutine. Sends never block the main
// loop; when the channel is full the stale command is dropped.
type buzzerSink struct {
	cmds chan toneCmd
}

func (s *buzzerSink) StartTone(freq uint16, vol uint8) { s.send(toneCmd{freq: freq, vol: vol}) }

func (s *buzzerSink) Stop() { s.send(toneCmd{}) }

func (s *buzzerSink) send(c toneCmd) {
	for {
		select {
		case s.cmds <- c:
			return
		default:
			select {
			case <-s.cmds:
			default:
			}
		}
	}
}

// runBuzzer bit-bangs a square wave on the piezo. Volume scales the
// duty cycle, topping out at 50%.
func (b *boardDriver) runBuzzer() {
	bz := buzzer.New(buzzerPin)
	var cur toneCmd
	for {
		if cur.freq == 0 || cur.vol == 0 {
			bz.Off()
			cur = <-b.sink.cmds
			continue
		}
		select {
		case cur = <-b.sink.cmds:
		default:
			period := time.Second / time.Duration(cur.freq)
			high := period * time.Duration(cur.vol) / 512
			bz.On()
			time.Sleep(high)
			bz.Off()
			time.Sleep(period - high)
		}
	}
}
