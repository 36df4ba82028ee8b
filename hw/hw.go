package hw

import (
	"github.com/cameronprince/mptcc/led"
)

// PulseWriter drives the physical output channels. Implementations are
// fire-and-forget; a returned error means the hardware is in an unknown
// state and the caller must shut the session down.
type PulseWriter interface {
	// SetOutput programs one channel. enabled=false forces the channel off
	// regardless of the other arguments.
	SetOutput(channel int, freqHz int, onTimeMicros int, enabled bool) error
}

// LEDWriter drives the per-channel status LEDs.
type LEDWriter interface {
	SetColor(channel int, color led.RGB)
}

// Encoder reads the rotary encoders. Delta returns the signed tick count
// accumulated since the previous call; Pressed reports a press edge once.
// Both are polled from the control context only.
type Encoder interface {
	Delta(idx int) int
	Pressed(idx int) bool
}

// NoteEvent is one decoded note message from a live input.
type NoteEvent struct {
	On       bool
	Channel  uint8
	Note     uint8
	Velocity uint8
}

// NoteInput is a live source of decoded note events.
type NoteInput interface {
	NoteEvents() <-chan NoteEvent
	Close() error
}

// NullPulseWriter discards all writes. Used headless and in tests.
type NullPulseWriter struct{}

func (NullPulseWriter) SetOutput(channel, freqHz, onTimeMicros int, enabled bool) error {
	return nil
}

// NullLEDWriter discards all writes.
type NullLEDWriter struct{}

func (NullLEDWriter) SetColor(channel int, color led.RGB) {}

// NullEncoder reports no movement.
type NullEncoder struct{}

func (NullEncoder) Delta(idx int) int    { return 0 }
func (NullEncoder) Pressed(idx int) bool { return false }
