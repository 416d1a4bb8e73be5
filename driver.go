package byte90

import (
	"github.com/ajanata/textbuf"

	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/sound"
	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/state"
)

// Driver is the hardware abstraction the Device runs on. The panel
// display is handed to New directly so boot messages can be shown while
// the driver brings up everything else.
type Driver interface {
	// EarlyInit initializes secondary devices after the display has been
	// initialized for boot messages. Hardware drivers shall configure any
	// buses (SPI, I2C, etc.) that are required to communicate with these
	// devices at this point, and should only configure the bare minimum.
	EarlyInit() error

	// LateInit performs any late initialization (e.g. connecting to wifi to
	// set the clock). The failure of anything in LateInit should not cause
	// the failure of the entire process. Boot messages may be freely logged.
	//
	// TODO interface
	LateInit(buffer *textbuf.Buffer)

	// PressedButton returns the button event completed since the last call,
	// if any. The implementation is responsible for debouncing and for
	// classifying click, double click and long press; this should only
	// return a value when that value should be acted upon.
	//
	// This function should expect to be called at the main loop framerate.
	PressedButton() ButtonEvent

	// Accelerometer returns the current reading in milli-g. When resting
	// upright the Y axis should read approximately +1000.
	// The second return value indicates the status of the accelerometer:
	// does not exist, valid data, or busy.
	Accelerometer() (x, y, z int32, status SensorStatus)

	// AudioSink returns the tone output the sound scheduler drives. It must
	// be non-blocking; a silent implementation is fine.
	AudioSink() sound.Sink

	// PeerEvent returns the next event from the pairing channel, if one is
	// queued. It must never block.
	PeerEvent() (PeerEvent, bool)

	// StateChanged is called after every completed device state transition,
	// for power hooks: configuring the accelerometer wake interrupt,
	// powering the haptic driver down for sleep, switching the radio on for
	// pairing. It runs on the main loop and must not block.
	StateChanged(from, to state.ID)

	// Haptic plays a best-effort vibration. Drivers without a motor ignore
	// it.
	Haptic(strength uint8, ms uint16)
}
