package pulse

// Limits is the safety envelope applied to every parameter pair before it
// reaches hardware. Mutated only by the configuration layer; the engine
// treats it as a value.
type Limits struct {
	MinFrequencyHz  int
	MaxFrequencyHz  int
	MinOnTimeMicros int
	MaxOnTimeMicros int
	MaxDutyPercent  float64
}

// DefaultLimits returns the reference controller's envelope.
func DefaultLimits() Limits {
	return Limits{
		MinFrequencyHz:  100,
		MaxFrequencyHz:  1000,
		MinOnTimeMicros: 20,
		MaxOnTimeMicros: 300,
		MaxDutyPercent:  5.0,
	}
}

// Clamp forces a proposed parameter pair into the envelope. Frequency and
// on-time clamp independently, then the duty cap trims on-time against the
// clamped frequency's period: frequency is authoritative, on-time yields.
// Total for any input, so garbage still comes out safe.
func Clamp(p Params, l Limits) Params {
	f := constrain(p.FrequencyHz, l.MinFrequencyHz, l.MaxFrequencyHz)
	on := constrain(p.OnTimeMicros, l.MinOnTimeMicros, l.MaxOnTimeMicros)
	if maxOn := l.MaxOnTimeAt(f); on > maxOn {
		on = maxOn
	}
	return Params{FrequencyHz: f, OnTimeMicros: on}
}

// MaxOnTimeAt returns the largest on-time the envelope allows at the given
// frequency, in microseconds.
func (l Limits) MaxOnTimeAt(freqHz int) int {
	if freqHz <= 0 {
		return l.MaxOnTimeMicros
	}
	byDuty := int(l.MaxDutyPercent / 100 * 1_000_000 / float64(freqHz))
	if byDuty < l.MaxOnTimeMicros {
		return byDuty
	}
	return l.MaxOnTimeMicros
}

// Level normalizes a pair's effective duty against the envelope's duty
// cap, 0-100.
func (l Limits) Level(p Params) int {
	if p.FrequencyHz <= 0 || p.OnTimeMicros <= 0 || l.MaxDutyPercent <= 0 {
		return 0
	}
	maxOn := l.MaxDutyPercent / 100 * 1_000_000 / float64(p.FrequencyHz)
	return constrain(int(float64(p.OnTimeMicros)/maxOn*100), 0, 100)
}

func constrain(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
