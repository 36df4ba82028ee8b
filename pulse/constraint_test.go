package pulse

import "testing"

func TestClampBounds(t *testing.T) {
	l := DefaultLimits()

	tests := []struct {
		name string
		in   Params
		want Params
	}{
		{"below minimums", Params{FrequencyHz: 1, OnTimeMicros: 0}, Params{FrequencyHz: 100, OnTimeMicros: 20}},
		{"above maximums", Params{FrequencyHz: 99999, OnTimeMicros: 99999}, Params{FrequencyHz: 1000, OnTimeMicros: 50}},
		{"in range", Params{FrequencyHz: 200, OnTimeMicros: 100}, Params{FrequencyHz: 200, OnTimeMicros: 100}},
		{"negative garbage", Params{FrequencyHz: -500, OnTimeMicros: -500}, Params{FrequencyHz: 100, OnTimeMicros: 20}},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in, l); got != tt.want {
			t.Errorf("%s: Clamp(%+v) = %+v, want %+v", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestClampDutyCapOnTimeYields(t *testing.T) {
	l := DefaultLimits()

	// At 1000 Hz the period is 1000us; 5% duty allows 50us even though the
	// envelope's absolute max is 300us.
	got := Clamp(Params{FrequencyHz: 1000, OnTimeMicros: 300}, l)
	if got.FrequencyHz != 1000 {
		t.Errorf("frequency not authoritative: got %d", got.FrequencyHz)
	}
	if got.OnTimeMicros != 50 {
		t.Errorf("on-time did not yield to duty cap: got %d, want 50", got.OnTimeMicros)
	}
}

func TestClampDutyEnvelopeHolds(t *testing.T) {
	l := DefaultLimits()
	const eps = 0.001

	for freq := -100; freq <= 2000; freq += 37 {
		for on := -50; on <= 500; on += 13 {
			got := Clamp(Params{FrequencyHz: freq, OnTimeMicros: on}, l)

			if got.FrequencyHz < l.MinFrequencyHz || got.FrequencyHz > l.MaxFrequencyHz {
				t.Fatalf("frequency %d escaped [%d,%d]", got.FrequencyHz, l.MinFrequencyHz, l.MaxFrequencyHz)
			}
			if got.OnTimeMicros > l.MaxOnTimeMicros {
				t.Fatalf("on-time %d above absolute max", got.OnTimeMicros)
			}
			period := 1_000_000.0 / float64(got.FrequencyHz)
			duty := float64(got.OnTimeMicros) / period
			if duty > l.MaxDutyPercent/100+eps {
				t.Fatalf("duty %.4f exceeds cap %.4f (freq=%d on=%d)", duty, l.MaxDutyPercent/100, freq, on)
			}
		}
	}
}

func TestLevel(t *testing.T) {
	l := DefaultLimits()

	// Full duty envelope = level 100: 50us at 1000 Hz is exactly 5%.
	if got := l.Level(Params{FrequencyHz: 1000, OnTimeMicros: 50}); got != 100 {
		t.Errorf("full envelope level = %d, want 100", got)
	}
	// Half the envelope.
	if got := l.Level(Params{FrequencyHz: 1000, OnTimeMicros: 25}); got != 50 {
		t.Errorf("half envelope level = %d, want 50", got)
	}
	if got := l.Level(Params{}); got != 0 {
		t.Errorf("zero params level = %d, want 0", got)
	}
}
