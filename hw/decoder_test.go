package hw

import "testing"

func collectNotes() (*Decoder, *[]NoteEvent) {
	var events []NoteEvent
	d := NewDecoder(func(ev NoteEvent) {
		events = append(events, ev)
	})
	return d, &events
}

func feed(d *Decoder, bytes ...byte) {
	for _, b := range bytes {
		d.Read(b)
	}
}

func TestDecoderNoteOnOff(t *testing.T) {
	d, events := collectNotes()

	feed(d, 0x90, 60, 100, 0x80, 60, 0)

	want := []NoteEvent{
		{On: true, Channel: 0, Note: 60, Velocity: 100},
		{On: false, Channel: 0, Note: 60, Velocity: 0},
	}
	if len(*events) != len(want) {
		t.Fatalf("%d events, want %d", len(*events), len(want))
	}
	for i, ev := range want {
		if (*events)[i] != ev {
			t.Errorf("event %d = %+v, want %+v", i, (*events)[i], ev)
		}
	}
}

func TestDecoderRunningStatus(t *testing.T) {
	d, events := collectNotes()

	// One status byte, three note-on messages.
	feed(d, 0x91, 60, 100, 64, 90, 67, 80)

	if len(*events) != 3 {
		t.Fatalf("%d events, want 3", len(*events))
	}
	for i, note := range []uint8{60, 64, 67} {
		ev := (*events)[i]
		if !ev.On || ev.Channel != 1 || ev.Note != note {
			t.Errorf("event %d = %+v, want note on %d channel 1", i, ev, note)
		}
	}
}

func TestDecoderVelocityZeroIsOff(t *testing.T) {
	d, events := collectNotes()

	feed(d, 0x90, 60, 0)

	if len(*events) != 1 || (*events)[0].On {
		t.Fatalf("events %+v, want a single note off", *events)
	}
}

func TestDecoderRealtimeBytesInterleave(t *testing.T) {
	d, events := collectNotes()

	// A clock byte (0xF8) in the middle of a message must not disturb it.
	feed(d, 0x90, 60, 0xF8, 100)

	if len(*events) != 1 || !(*events)[0].On || (*events)[0].Velocity != 100 {
		t.Fatalf("events %+v, want note on 60 vel 100", *events)
	}
}

func TestDecoderSystemCommonClearsRunningStatus(t *testing.T) {
	d, events := collectNotes()

	// Tune request clears running status; the stray data bytes after it
	// have nothing to attach to.
	feed(d, 0x90, 60, 100, 0xF6, 64, 90)

	if len(*events) != 1 {
		t.Fatalf("%d events, want 1 (data after system common dropped)", len(*events))
	}
}

func TestDecoderIgnoresOtherMessages(t *testing.T) {
	d, events := collectNotes()

	// Control change and program change are consumed without callbacks.
	feed(d, 0xB0, 7, 100, 0xC0, 5, 0x90, 60, 100)

	if len(*events) != 1 || (*events)[0].Note != 60 {
		t.Fatalf("events %+v, want only the trailing note on", *events)
	}
}
