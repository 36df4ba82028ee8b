package hw

// MIDI status nibbles handled by the decoder
const (
	statusNoteOff = 0x80
	statusNoteOn  = 0x90
)

// Decoder is an incremental MIDI byte-stream decoder with running-status
// support. Feed it one byte at a time with Read; it fires the note
// callbacks as complete messages arrive. Messages other than note on/off
// are consumed and dropped.
type Decoder struct {
	status uint8   // current running status (0 = none)
	data   [2]byte // pending data bytes
	have   int
	need   int

	onNote func(ev NoteEvent)
}

// NewDecoder creates a decoder that delivers note events to fn.
func NewDecoder(fn func(ev NoteEvent)) *Decoder {
	return &Decoder{onNote: fn}
}

// Read consumes one byte from the wire.
func (d *Decoder) Read(b byte) {
	switch {
	case b >= 0xF8:
		// System real-time: may appear anywhere, never disturbs state.
		return
	case b >= 0xF0:
		// System common clears running status.
		d.status = 0
		d.have = 0
		return
	case b >= 0x80:
		d.status = b
		d.have = 0
		d.need = dataBytes(b)
		return
	}

	// Data byte with no status to attach to
	if d.status == 0 {
		return
	}

	d.data[d.have] = b
	d.have++
	if d.have < d.need {
		return
	}
	d.have = 0 // running status: next data bytes reuse d.status
	d.dispatch()
}

func (d *Decoder) dispatch() {
	cmd := d.status & 0xF0
	ch := d.status & 0x0F

	switch cmd {
	case statusNoteOn:
		note, vel := d.data[0], d.data[1]
		// Velocity 0 is note off per the MIDI spec.
		d.onNote(NoteEvent{On: vel > 0, Channel: ch, Note: note, Velocity: vel})
	case statusNoteOff:
		d.onNote(NoteEvent{On: false, Channel: ch, Note: d.data[0], Velocity: d.data[1]})
	}
}

// dataBytes returns the data-byte count for a status byte.
func dataBytes(status byte) int {
	switch status & 0xF0 {
	case 0xC0, 0xD0: // program change, channel pressure
		return 1
	default:
		return 2
	}
}
