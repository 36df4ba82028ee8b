package pulse

import "testing"

func TestNoteFrequency(t *testing.T) {
	tests := []struct {
		note uint8
		want int
	}{
		{69, 440}, // A4 reference
		{81, 880}, // one octave up
		{57, 220}, // one octave down
		{60, 261}, // middle C
	}
	for _, tt := range tests {
		if got := NoteFrequency(tt.note); got != tt.want {
			t.Errorf("NoteFrequency(%d) = %d, want %d", tt.note, got, tt.want)
		}
	}
}

func TestVelocityOnTime(t *testing.T) {
	if got := VelocityOnTime(127, 100); got != 100 {
		t.Errorf("full velocity = %d, want 100", got)
	}
	if got := VelocityOnTime(0, 100); got != 0 {
		t.Errorf("zero velocity = %d, want 0", got)
	}
	if got := VelocityOnTime(64, 100); got != 50 {
		t.Errorf("mid velocity = %d, want 50", got)
	}
}
