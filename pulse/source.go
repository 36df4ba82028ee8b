package pulse

import "sync/atomic"

// NumOutputs is the number of physical output channels.
const NumOutputs = 4

// Mode identifies which source is driving the outputs.
type Mode int

const (
	ModeIdle Mode = iota
	ModeInterrupter
	ModeLiveMIDI
	ModeFilePlayback
	ModeARSG
)

func (m Mode) String() string {
	switch m {
	case ModeInterrupter:
		return "Interrupter"
	case ModeLiveMIDI:
		return "MIDI Input"
	case ModeFilePlayback:
		return "MIDI File"
	case ModeARSG:
		return "ARSG"
	default:
		return "Idle"
	}
}

// Params is one frequency/on-time pair as proposed by a source. Not yet
// validated; the engine clamps before anything reaches hardware.
type Params struct {
	FrequencyHz  int
	OnTimeMicros int
}

// Frame is a per-channel pulse request. Active=false forces the channel
// off regardless of the params.
type Frame struct {
	Params
	Active bool
}

// Source produces the per-channel pulse requests while it is the active
// source. Produce is called from the engine tick goroutine; everything
// else runs on the control context. Deactivate must sweep every sounding
// note off; it is called on every exit path, not only clean stops.
type Source interface {
	Mode() Mode
	Activate()
	Deactivate()
	Produce() [NumOutputs]Frame
}

// ParamCell publishes a Frame from the control context to the engine as a
// single atomic handle swap, so frequency and on-time are always observed
// as a matched pair (last writer wins, no queue).
type ParamCell struct {
	v atomic.Pointer[Frame]
}

// Store commits a frame.
func (c *ParamCell) Store(f Frame) {
	c.v.Store(&f)
}

// Load returns the most recently committed frame (zero frame if none).
func (c *ParamCell) Load() Frame {
	if p := c.v.Load(); p != nil {
		return *p
	}
	return Frame{}
}
