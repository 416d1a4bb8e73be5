package byte90

// ButtonEvent is one debounced press classification from the driver.
type ButtonEvent uint8

const (
	ButtonNone ButtonEvent = iota
	ButtonClick
	ButtonDoubleClick
	ButtonLongPress
)

func (b ButtonEvent) String() string {
	switch b {
	case ButtonNone:
		return "none"
	case ButtonClick:
		return "click"
	case ButtonDoubleClick:
		return "doubleclick"
	case ButtonLongPress:
		return "longpress"
	default:
		return "INVALID"
	}
}

type SensorStatus uint8

const (
	// SensorStatusUnavailable indicates that the sensor is never available (not implemented in hardware).
	SensorStatusUnavailable SensorStatus = iota
	// SensorStatusAvailable indicates that the returned value(s) is/are accurate.
	SensorStatusAvailable
	// SensorStatusBusy indicates that the sensor is temporarily unavailable e.g. due to bus contention.
	SensorStatusBusy
)

// PeerEventKind classifies events from the wireless pairing channel.
type PeerEventKind uint8

const (
	// PeerPaired reports a completed pairing handshake.
	PeerPaired PeerEventKind = iota
	// PeerPairFailed reports a pairing timeout or rejection.
	PeerPairFailed
	// PeerEmote reports a reaction sent by an already-paired peer.
	PeerEmote
)

func (k PeerEventKind) String() string {
	switch k {
	case PeerPaired:
		return "paired"
	case PeerPairFailed:
		return "pairfailed"
	case PeerEmote:
		return "emote"
	default:
		return "INVALID"
	}
}

// PeerEvent is one polled event from the pairing channel. Emote is only
// meaningful for PeerEmote.
type PeerEvent struct {
	Kind  PeerEventKind
	Emote uint8
}
