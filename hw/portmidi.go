package hw

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// PortInput decodes note events from a system MIDI input port. The rtmidi
// driver must be registered by the importing binary.
type PortInput struct {
	name     string
	stopFunc func()
	events   chan NoteEvent
}

// OpenPortInput opens the named MIDI input port (substring match as gomidi
// does) and starts listening.
func OpenPortInput(portName string) (*PortInput, error) {
	in, err := gomidi.FindInPort(portName)
	if err != nil {
		return nil, fmt.Errorf("find MIDI input %q: %w", portName, err)
	}

	p := &PortInput{
		name:   in.String(),
		events: make(chan NoteEvent, 32),
	}

	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		var channel, note, velocity uint8
		switch {
		case msg.GetNoteOn(&channel, &note, &velocity):
			p.send(NoteEvent{On: velocity > 0, Channel: channel, Note: note, Velocity: velocity})
		case msg.GetNoteOff(&channel, &note, &velocity):
			p.send(NoteEvent{On: false, Channel: channel, Note: note, Velocity: velocity})
		}
	})
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	p.stopFunc = stop
	return p, nil
}

func (p *PortInput) send(ev NoteEvent) {
	select {
	case p.events <- ev:
	default:
		// Drop if channel full
	}
}

// Name returns the resolved port name.
func (p *PortInput) Name() string {
	return p.name
}

// NoteEvents returns the decoded event stream.
func (p *PortInput) NoteEvents() <-chan NoteEvent {
	return p.events
}

// Close stops listening.
func (p *PortInput) Close() error {
	if p.stopFunc != nil {
		p.stopFunc()
	}
	close(p.events)
	return nil
}
