package pulse

import (
	"sync"
	"sync/atomic"
	"time"
)

// LineRange bounds the ARSG source's line-frequency counter.
type LineRange struct {
	MinHz int
	MaxHz int
}

// DefaultLineRange covers mains rates and typical rotary break rates.
func DefaultLineRange() LineRange {
	return LineRange{MinHz: 10, MaxHz: 120}
}

// gateSpec fixes the gating square wave: open for the first half period
// after epoch, closed for the second, repeating.
type gateSpec struct {
	epoch      time.Time
	halfPeriod time.Duration
}

func (g *gateSpec) open(now time.Time) bool {
	elapsed := now.Sub(g.epoch)
	if elapsed < 0 {
		return true
	}
	return (elapsed/g.halfPeriod)%2 == 0
}

// ARSG is the rotary-spark-gap emulator source: the interrupter's shared
// frequency/on-time pair, gated on and off at twice the line frequency so
// the outputs fire in bursts the way a mains-synchronized rotary gap
// does. The gate is derived from elapsed time on the tick path instead of
// a flag flipped by a second goroutine, so the phase never drifts.
type ARSG struct {
	limits Limits
	line   LineRange

	mu        sync.Mutex
	lineFreq  int
	frequency int
	onTime    int
	coarse    bool
	enabled   bool

	cell ParamCell
	gate atomic.Pointer[gateSpec]

	now func() time.Time
}

// NewARSG creates the source at the envelope minimums, outputs disabled.
func NewARSG(limits Limits, line LineRange) *ARSG {
	a := &ARSG{
		limits:    limits,
		line:      line,
		lineFreq:  line.MinHz,
		frequency: limits.MinFrequencyHz,
		onTime:    limits.MinOnTimeMicros,
		now:       time.Now,
	}
	a.publish()
	return a
}

func (a *ARSG) Mode() Mode { return ModeARSG }

// Activate republishes the current settings. Outputs stay disabled until
// the operator arms them.
func (a *ARSG) Activate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = false
	a.publish()
}

// Deactivate disarms the outputs.
func (a *ARSG) Deactivate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = false
	a.publish()
}

// Produce returns the shared pair on all channels, blanked during the
// closed half of each line cycle.
func (a *ARSG) Produce() [NumOutputs]Frame {
	f := a.cell.Load()
	if f.Active {
		if g := a.gate.Load(); g != nil && !g.open(a.now()) {
			f.Active = false
		}
	}
	var out [NumOutputs]Frame
	for c := range out {
		out[c] = f
	}
	return out
}

// AdjustLineFrequency applies an encoder delta to the line frequency.
func (a *ARSG) AdjustLineFrequency(delta int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lineFreq = constrain(a.lineFreq+delta*a.step(), a.line.MinHz, a.line.MaxHz)
	a.publish()
}

// AdjustOnTime applies an encoder delta to the on-time counter.
func (a *ARSG) AdjustOnTime(delta int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onTime += delta * a.step()
	a.clampOnTime()
	a.publish()
}

// AdjustFrequency applies an encoder delta to the carrier frequency.
func (a *ARSG) AdjustFrequency(delta int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.frequency = constrain(a.frequency+delta*a.step(), a.limits.MinFrequencyHz, a.limits.MaxFrequencyHz)
	a.clampOnTime()
	a.publish()
}

// ToggleCoarse flips the 10x multiplier.
func (a *ARSG) ToggleCoarse() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.coarse = !a.coarse
	return a.coarse
}

// ToggleEnabled arms or disarms the outputs. Arming restarts the gate
// phase from now.
func (a *ARSG) ToggleEnabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = !a.enabled
	a.publish()
	return a.enabled
}

// Settings returns the current state for display.
func (a *ARSG) Settings() (lineFreqHz, frequencyHz, onTimeMicros int, coarse, enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lineFreq, a.frequency, a.onTime, a.coarse, a.enabled
}

func (a *ARSG) step() int {
	if a.coarse {
		return coarseStep
	}
	return 1
}

// clampOnTime keeps the on-time counter inside the envelope at the
// current carrier frequency. Callers hold a.mu.
func (a *ARSG) clampOnTime() {
	max := a.limits.MaxOnTimeAt(a.frequency)
	a.onTime = constrain(a.onTime, a.limits.MinOnTimeMicros, max)
}

// publish commits the pair and refreshes the gate. Callers hold a.mu.
func (a *ARSG) publish() {
	a.cell.Store(Frame{
		Params: Params{FrequencyHz: a.frequency, OnTimeMicros: a.onTime},
		Active: a.enabled,
	})
	if a.enabled && a.lineFreq > 0 {
		a.gate.Store(&gateSpec{
			epoch:      a.now(),
			halfPeriod: time.Second / time.Duration(2*a.lineFreq),
		})
	} else {
		a.gate.Store(nil)
	}
}
