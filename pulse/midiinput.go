package pulse

import (
	"sync"

	"github.com/cameronprince/mptcc/hw"
)

type heldNote struct {
	note     uint8
	velocity uint8
}

// MIDIInput is the live source: incoming note events drive all four
// channels with a single voice under last-note priority. The held notes
// form an ordered stack, not a set: releasing the active note falls back
// to the most recently pressed note still held.
type MIDIInput struct {
	maxOnTime int // microseconds at velocity 127

	mu   sync.Mutex
	held []heldNote

	cell ParamCell
}

// NewMIDIInput creates the source. maxOnTimeMicros is the on-time mapped
// to full velocity.
func NewMIDIInput(maxOnTimeMicros int) *MIDIInput {
	return &MIDIInput{maxOnTime: maxOnTimeMicros}
}

func (m *MIDIInput) Mode() Mode { return ModeLiveMIDI }

// Activate starts from silence.
func (m *MIDIInput) Activate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held = m.held[:0]
	m.cell.Store(Frame{})
}

// Deactivate sweeps every held note off.
func (m *MIDIInput) Deactivate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held = m.held[:0]
	m.cell.Store(Frame{})
}

// Produce returns the active note's pair on all channels.
func (m *MIDIInput) Produce() [NumOutputs]Frame {
	f := m.cell.Load()
	var out [NumOutputs]Frame
	for c := range out {
		out[c] = f
	}
	return out
}

// Handle routes one decoded note event.
func (m *MIDIInput) Handle(ev hw.NoteEvent) {
	if ev.On {
		m.NoteOn(ev.Note, ev.Velocity)
	} else {
		m.NoteOff(ev.Note)
	}
}

// NoteOn pushes a note; it becomes the active voice.
func (m *MIDIInput) NoteOn(note, velocity uint8) {
	if velocity == 0 {
		m.NoteOff(note)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remove(note)
	m.held = append(m.held, heldNote{note: note, velocity: velocity})
	m.publish()
}

// NoteOff removes a note. If it was the active voice, the most recently
// pushed remaining note takes over, or the source goes silent.
func (m *MIDIInput) NoteOff(note uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remove(note)
	m.publish()
}

// ActiveNote returns the currently sounding note, if any.
func (m *MIDIInput) ActiveNote() (note uint8, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.held) == 0 {
		return 0, false
	}
	return m.held[len(m.held)-1].note, true
}

// remove drops a note from the stack wherever it sits. Callers hold m.mu.
func (m *MIDIInput) remove(note uint8) {
	for i, h := range m.held {
		if h.note == note {
			m.held = append(m.held[:i], m.held[i+1:]...)
			return
		}
	}
}

// publish commits the top-of-stack voice. Callers hold m.mu.
func (m *MIDIInput) publish() {
	if len(m.held) == 0 {
		m.cell.Store(Frame{})
		return
	}
	top := m.held[len(m.held)-1]
	m.cell.Store(Frame{
		Params: Params{
			FrequencyHz:  NoteFrequency(top.note),
			OnTimeMicros: VelocityOnTime(top.velocity, m.maxOnTime),
		},
		Active: true,
	})
}
