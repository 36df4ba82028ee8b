package led

import "testing"

func TestLevelColorEndpoints(t *testing.T) {
	if got := LevelColor(0); got != (RGB{0, 255, 0}) {
		t.Errorf("level 0 = %v, want pure green", got)
	}
	if got := LevelColor(100); got != (RGB{255, 0, 0}) {
		t.Errorf("level 100 = %v, want pure red", got)
	}
	if got := LevelColor(50); got != (RGB{255, 255, 0}) {
		t.Errorf("level 50 = %v, want pure yellow", got)
	}
}

func TestLevelColorClampsOutOfRange(t *testing.T) {
	if got := LevelColor(-5); got != LevelColor(0) {
		t.Errorf("negative level = %v, want green", got)
	}
	if got := LevelColor(150); got != LevelColor(100) {
		t.Errorf("overrange level = %v, want red", got)
	}
}

func TestLevelColorDeterministic(t *testing.T) {
	for level := 0; level <= 100; level += 10 {
		a, b := LevelColor(level), LevelColor(level)
		if a != b {
			t.Fatalf("level %d produced %v then %v", level, a, b)
		}
	}
}

func TestLevelColorMonotonicWarmth(t *testing.T) {
	// Rising level never moves the color toward green.
	prev := LevelColor(0)
	for level := 1; level <= 100; level++ {
		c := LevelColor(level)
		if int(c[0]) < int(prev[0])-1 {
			t.Fatalf("red dropped from %d to %d at level %d", prev[0], c[0], level)
		}
		if int(c[1]) > int(prev[1])+1 {
			t.Fatalf("green rose from %d to %d at level %d", prev[1], c[1], level)
		}
		prev = c
	}
}

func TestOff(t *testing.T) {
	if Off() != (RGB{0, 0, 0}) {
		t.Errorf("Off() = %v", Off())
	}
}
