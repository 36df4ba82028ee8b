package pulse

import "sync"

// Coarse-adjust multiplier, matching the reference controller's 10x toggle.
const coarseStep = 10

// Interrupter is the manual source: two encoder-driven step counters
// (frequency, on-time) shared by all four channels. Adjustments happen on
// the control context; the engine reads the committed pair.
type Interrupter struct {
	limits Limits
	skip   map[int]bool // frequencies stepped over during adjust

	mu        sync.Mutex
	frequency int
	onTime    int
	coarse    bool
	enabled   bool

	cell ParamCell
}

// NewInterrupter creates the source starting at the envelope minimums,
// outputs disabled.
func NewInterrupter(limits Limits, skipFrequencies []int) *Interrupter {
	skip := make(map[int]bool, len(skipFrequencies))
	for _, f := range skipFrequencies {
		skip[f] = true
	}
	i := &Interrupter{
		limits:    limits,
		skip:      skip,
		frequency: limits.MinFrequencyHz,
		onTime:    limits.MinOnTimeMicros,
	}
	i.publish()
	return i
}

func (i *Interrupter) Mode() Mode { return ModeInterrupter }

// Activate republishes the current settings. Outputs stay disabled until
// the operator arms them.
func (i *Interrupter) Activate() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.publish()
}

// Deactivate disarms the outputs.
func (i *Interrupter) Deactivate() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.enabled = false
	i.publish()
}

// Produce returns the shared pair for all channels; this mode drives all
// outputs symmetrically.
func (i *Interrupter) Produce() [NumOutputs]Frame {
	f := i.cell.Load()
	var out [NumOutputs]Frame
	for c := range out {
		out[c] = f
	}
	return out
}

// AdjustOnTime applies an encoder delta to the on-time counter.
func (i *Interrupter) AdjustOnTime(delta int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.onTime += delta * i.step()
	i.clampOnTime()
	i.publish()
}

// AdjustFrequency applies an encoder delta to the frequency counter,
// stepping over skip-listed frequencies in the direction of travel.
func (i *Interrupter) AdjustFrequency(delta int) {
	i.mu.Lock()
	defer i.mu.Unlock()

	step := i.step()
	next := i.frequency + delta*step
	for i.skip[next] {
		if delta >= 0 {
			next += step
		} else {
			next -= step
		}
	}
	i.frequency = constrain(next, i.limits.MinFrequencyHz, i.limits.MaxFrequencyHz)
	i.clampOnTime()
	i.publish()
}

// ToggleCoarse flips the 10x multiplier.
func (i *Interrupter) ToggleCoarse() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.coarse = !i.coarse
	return i.coarse
}

// ToggleEnabled arms or disarms the outputs.
func (i *Interrupter) ToggleEnabled() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.enabled = !i.enabled
	i.publish()
	return i.enabled
}

// Settings returns the current state for display.
func (i *Interrupter) Settings() (frequencyHz, onTimeMicros int, coarse, enabled bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.frequency, i.onTime, i.coarse, i.enabled
}

func (i *Interrupter) step() int {
	if i.coarse {
		return coarseStep
	}
	return 1
}

// clampOnTime keeps the on-time counter inside the envelope at the current
// frequency so the display tracks what the engine will emit.
func (i *Interrupter) clampOnTime() {
	max := i.limits.MaxOnTimeAt(i.frequency)
	i.onTime = constrain(i.onTime, i.limits.MinOnTimeMicros, max)
}

// publish commits the pair. Callers hold i.mu.
func (i *Interrupter) publish() {
	i.cell.Store(Frame{
		Params: Params{FrequencyHz: i.frequency, OnTimeMicros: i.onTime},
		Active: i.enabled,
	})
}
