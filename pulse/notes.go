package pulse

import "math"

// NoteFrequency converts a MIDI note number to Hz using 12-tone equal
// temperament referenced to A4 (note 69) = 440 Hz.
func NoteFrequency(note uint8) int {
	return int(440 * math.Pow(2, (float64(note)-69)/12))
}

// VelocityOnTime scales a MIDI velocity (0-127) into [0, maxMicros]
// microseconds of on-time.
func VelocityOnTime(velocity uint8, maxMicros int) int {
	if velocity > 127 {
		velocity = 127
	}
	return int(float64(velocity) / 127 * float64(maxMicros))
}
