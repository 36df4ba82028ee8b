package pulse

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/cameronprince/mptcc/debug"
	"github.com/cameronprince/mptcc/hw"
	"github.com/cameronprince/mptcc/led"
)

// DefaultTickInterval matches the reference controller's output thread
// cadence.
const DefaultTickInterval = 10 * time.Millisecond

// sourceCell wraps the active source for atomic swapping.
type sourceCell struct {
	src Source
}

// Engine owns the four output channels. It runs a dedicated tick goroutine
// that reads the active source, clamps every pair through the envelope and
// writes hardware-facing state. Exactly one source is active at any
// instant; nil means Idle with all channels off.
//
// The tick path never blocks on I/O and touches shared state only through
// atomic cells.
type Engine struct {
	writer hw.PulseWriter
	leds   hw.LEDWriter

	limits atomic.Pointer[Limits]
	source atomic.Pointer[sourceCell]

	channels [NumOutputs]atomic.Pointer[OutputChannel]

	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	switchMu sync.Mutex // serializes source switches (control context)

	// UpdateChan receives a signal whenever channel state changes.
	UpdateChan chan struct{}
}

// NewEngine creates an idle engine.
func NewEngine(writer hw.PulseWriter, leds hw.LEDWriter, limits Limits) *Engine {
	e := &Engine{
		writer:     writer,
		leds:       leds,
		interval:   DefaultTickInterval,
		stopChan:   make(chan struct{}),
		UpdateChan: make(chan struct{}, 1),
	}
	e.limits.Store(&limits)
	for i := range e.channels {
		e.channels[i].Store(&OutputChannel{ID: i + 1})
	}
	return e
}

// Start launches the tick goroutine.
func (e *Engine) Start() {
	go e.run()
}

// Stop shuts the engine down, forcing every channel off.
func (e *Engine) Stop() {
	e.SetSource(nil)
	e.stopOnce.Do(func() { close(e.stopChan) })
}

func (e *Engine) run() {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stopChan:
			e.allOff()
			return
		case <-ticker.C:
			e.tick()
		}
	}
}

// tick reads the active source, validates and commits per-channel state.
func (e *Engine) tick() {
	var frames [NumOutputs]Frame
	if cell := e.source.Load(); cell != nil && cell.src != nil {
		frames = cell.src.Produce()
	}
	limits := *e.limits.Load()

	changed := false
	for i, fr := range frames {
		next := OutputChannel{ID: i + 1}
		if fr.Active {
			p := Clamp(fr.Params, limits)
			next = OutputChannel{
				ID:           i + 1,
				FrequencyHz:  p.FrequencyHz,
				OnTimeMicros: p.OnTimeMicros,
				Level:        limits.Level(p),
				Enabled:      true,
			}
		}
		if *e.channels[i].Load() == next {
			continue
		}
		e.channels[i].Store(&next)
		changed = true

		if err := e.writer.SetOutput(i, next.FrequencyHz, next.OnTimeMicros, next.Enabled); err != nil {
			e.fault(err)
			return
		}
		if next.Enabled {
			e.leds.SetColor(i, led.LevelColor(next.Level))
		} else {
			e.leds.SetColor(i, led.Off())
		}
	}

	if changed {
		select {
		case e.UpdateChan <- struct{}{}:
		default:
		}
	}
}

// SetSource switches the active source using the off-then-swap-then-resume
// protocol: detach so the tick loop sees Idle, force the channels off,
// sweep the old source's notes, then resume on the new source. The engine
// can never observe a half-switched or stale source.
func (e *Engine) SetSource(src Source) {
	e.switchMu.Lock()
	defer e.switchMu.Unlock()

	old := e.source.Swap(nil)
	e.allOff()
	if old != nil && old.src != nil {
		old.src.Deactivate()
	}
	if src != nil {
		src.Activate()
		e.source.Store(&sourceCell{src: src})
	}
}

// Mode reports the engine's current state.
func (e *Engine) Mode() Mode {
	if cell := e.source.Load(); cell != nil && cell.src != nil {
		return cell.src.Mode()
	}
	return ModeIdle
}

// Channel returns a snapshot of one output's state.
func (e *Engine) Channel(i int) OutputChannel {
	if i < 0 || i >= NumOutputs {
		return OutputChannel{}
	}
	return *e.channels[i].Load()
}

// Channels returns snapshots of all outputs.
func (e *Engine) Channels() [NumOutputs]OutputChannel {
	var out [NumOutputs]OutputChannel
	for i := range out {
		out[i] = *e.channels[i].Load()
	}
	return out
}

// SetLimits swaps the safety envelope. Takes effect on the next tick.
func (e *Engine) SetLimits(l Limits) {
	e.limits.Store(&l)
}

// Limits returns the current envelope.
func (e *Engine) Limits() Limits {
	return *e.limits.Load()
}

// fault handles a hardware write failure: the session is over, never leave
// a channel possibly on.
func (e *Engine) fault(err error) {
	debug.Error("engine", err)
	e.SetSource(nil)
}

// allOff forces every channel off, unconditionally writing hardware.
// Write errors are ignored; off is the best we can do.
func (e *Engine) allOff() {
	for i := range e.channels {
		e.channels[i].Store(&OutputChannel{ID: i + 1})
		e.writer.SetOutput(i, 0, 0, false)
		e.leds.SetColor(i, led.Off())
	}
	select {
	case e.UpdateChan <- struct{}{}:
	default:
	}
}
