package sound

// Note frequencies in Hz, rounded to the nearest integer. Enough of
// the equal-tempered scale for the built-in event tables.
const (
	NoteC4  = 262
	NoteCs4 = 277
	NoteD4  = 294
	NoteDs4 = 311
	NoteE4  = 330
	NoteF4  = 349
	NoteFs4 = 370
	NoteG4  = 392
	NoteGs4 = 415
	NoteA4  = 440
	NoteAs4 = 466
	NoteB4  = 494
	NoteC5  = 523
	NoteCs5 = 554
	NoteD5  = 587
	NoteDs5 = 622
	NoteE5  = 659
	NoteF5  = 698
	NoteFs5 = 740
	NoteG5  = 784
	NoteGs5 = 831
	NoteA5  = 880
	NoteAs5 = 932
	NoteB5  = 988
	NoteC6  = 1047
	NoteD6  = 1175
	NoteE6  = 1319
	NoteG6  = 1568
)
