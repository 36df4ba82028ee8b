package pulse

import (
	"testing"
	"time"
)

func newTestARSG() (*ARSG, *time.Time) {
	a := NewARSG(DefaultLimits(), DefaultLineRange())
	clock := time.Unix(0, 0)
	a.now = func() time.Time { return clock }
	return a, &clock
}

func TestARSGGatesAtTwiceLineFrequency(t *testing.T) {
	a, clock := newTestARSG()

	a.AdjustLineFrequency(40) // 10 -> 50 Hz, half period 10ms
	if !a.ToggleEnabled() {
		t.Fatal("expected armed after toggle")
	}

	// First half cycle: outputs firing.
	if !a.Produce()[0].Active {
		t.Fatal("gate should be open at phase start")
	}
	*clock = clock.Add(5 * time.Millisecond)
	if !a.Produce()[0].Active {
		t.Fatal("gate should stay open through the first half period")
	}

	// Second half cycle: blanked.
	*clock = clock.Add(10 * time.Millisecond)
	if a.Produce()[0].Active {
		t.Fatal("gate should be closed in the second half period")
	}

	// Next cycle: firing again.
	*clock = clock.Add(10 * time.Millisecond)
	if !a.Produce()[0].Active {
		t.Fatal("gate should reopen on the next cycle")
	}
}

func TestARSGLineFrequencyClamped(t *testing.T) {
	a, _ := newTestARSG()
	r := DefaultLineRange()

	a.AdjustLineFrequency(-5)
	if line, _, _, _, _ := a.Settings(); line != r.MinHz {
		t.Fatalf("line freq %d below range, want %d", line, r.MinHz)
	}

	a.ToggleCoarse()
	a.AdjustLineFrequency(100)
	if line, _, _, _, _ := a.Settings(); line != r.MaxHz {
		t.Fatalf("line freq %d above range, want %d", line, r.MaxHz)
	}
}

func TestARSGOnTimeFollowsDutyCap(t *testing.T) {
	a, _ := newTestARSG()
	l := DefaultLimits()

	a.AdjustOnTime(1000)
	if _, _, on, _, _ := a.Settings(); on != l.MaxOnTimeAt(l.MinFrequencyHz) {
		t.Fatalf("on-time %d, want duty-capped %d", on, l.MaxOnTimeAt(l.MinFrequencyHz))
	}

	a.ToggleCoarse()
	a.AdjustFrequency(90) // 100 -> 1000 Hz
	if _, _, on, _, _ := a.Settings(); on != 50 {
		t.Fatalf("on-time %d after frequency rise, want 50 (5%% of 1000us)", on)
	}
}

func TestARSGProduceSymmetric(t *testing.T) {
	a, _ := newTestARSG()
	a.AdjustFrequency(100)
	a.AdjustOnTime(10)
	a.ToggleEnabled()

	frames := a.Produce()
	for c := 1; c < NumOutputs; c++ {
		if frames[c] != frames[0] {
			t.Fatalf("channel %d frame %+v differs from channel 0 %+v", c, frames[c], frames[0])
		}
	}
	if !frames[0].Active {
		t.Fatal("frames should be active while armed and gated open")
	}
}

func TestARSGDeactivateDisarms(t *testing.T) {
	a, clock := newTestARSG()
	a.ToggleEnabled()
	if !a.Produce()[0].Active {
		t.Fatal("expected active while armed")
	}

	a.Deactivate()
	for i, f := range a.Produce() {
		if f.Active {
			t.Errorf("channel %d active after deactivate", i)
		}
	}

	// Re-arming restarts the gate phase from now, not the old epoch.
	*clock = clock.Add(3 * time.Second)
	a.ToggleEnabled()
	if !a.Produce()[0].Active {
		t.Fatal("gate should be open right after re-arming")
	}
}
