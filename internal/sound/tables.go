package sound

// The built-in event tables. Data, not code: tweaking the device's
// voice means editing steps here, nothing else.
var (
	// Startup plays once after init.
	Startup = Event{Name: "startup", Priority: System, Steps: []Step{
		Tone(NoteC5, 90, 200),
		Tone(NoteE5, 90, 200),
		Tone(NoteG5, 90, 200),
		Rest(40),
		Tone(NoteC6, 160, 230),
	}}

	// TapChirp is the single-tap acknowledgement.
	TapChirp = Event{Name: "tap", Priority: Ambient, Steps: []Step{
		Tone(NoteE6, 40, 180),
	}}

	// DoubleTapTrill marks a recognized double tap.
	DoubleTapTrill = Event{Name: "doubletap", Priority: Ambient, Steps: []Step{
		Tone(NoteE6, 40, 180),
		Rest(30),
		Tone(NoteG6, 40, 180),
		Rest(30),
		Tone(NoteE6, 40, 180),
	}}

	// ShakeAlarm is the rattled complaint while in the alert state.
	ShakeAlarm = Event{Name: "shake", Priority: Ambient, Steps: []Step{
		Tone(NoteA4, 70, 220),
		Tone(NoteF4, 70, 220),
		Tone(NoteA4, 70, 220),
		Tone(NoteF4, 70, 220),
		Rest(60),
		Tone(NoteD4, 180, 200),
	}}

	// SleepDescent accompanies the drop into Sleep.
	SleepDescent = Event{Name: "sleep", Priority: UI, Steps: []Step{
		Tone(NoteG5, 110, 160),
		Tone(NoteE5, 110, 140),
		Tone(NoteC5, 200, 120),
	}}

	// WakeRise accompanies waking back to Idle.
	WakeRise = Event{Name: "wake", Priority: UI, Steps: []Step{
		Tone(NoteC5, 80, 160),
		Tone(NoteE5, 80, 180),
		Tone(NoteG5, 140, 200),
	}}

	// MenuBlip is the cursor-move click.
	MenuBlip = Event{Name: "blip", Priority: UI, Steps: []Step{
		Tone(NoteC6, 25, 150),
	}}

	// Confirm marks a menu item activation.
	Confirm = Event{Name: "confirm", Priority: UI, Steps: []Step{
		Tone(NoteG5, 50, 180),
		Tone(NoteC6, 90, 200),
	}}

	// PairSuccess celebrates a completed pairing handshake.
	PairSuccess = Event{Name: "paired", Priority: System, Steps: []Step{
		Tone(NoteC5, 70, 200),
		Tone(NoteE5, 70, 200),
		Tone(NoteG5, 70, 200),
		Tone(NoteC6, 70, 220),
		Rest(40),
		Tone(NoteG5, 60, 180),
		Tone(NoteC6, 180, 230),
	}}

	// PairFail reports a pairing timeout or rejection.
	PairFail = Event{Name: "pairfail", Priority: System, Steps: []Step{
		Tone(NoteE5, 120, 200),
		Rest(40),
		Tone(NoteC5, 120, 200),
		Rest(40),
		Tone(NoteG4, 240, 200),
	}}

	// ErrorBuzz announces the Error state.
	ErrorBuzz = Event{Name: "error", Priority: System, Steps: []Step{
		Tone(NoteB4, 150, 230),
		Rest(70),
		Tone(NoteB4, 150, 230),
		Rest(70),
		Tone(NoteB4, 300, 230),
	}}

	// HourChime marks the top of the hour while the clock shows.
	HourChime = Event{Name: "hour", Priority: Ambient, Steps: []Step{
		Tone(NoteG5, 120, 150),
		Rest(60),
		Tone(NoteC6, 260, 170),
	}}
)
