package midifile

// Kind classifies a track event.
type Kind uint8

const (
	KindNoteOn Kind = iota
	KindNoteOff
	KindTempo
	KindOther
)

// TrackEvent is one event of a track, stamped with its absolute position
// in the piece. Timestamps within one track are non-decreasing.
type TrackEvent struct {
	Timestamp        int64 // microseconds from the start of the file
	Track            int   // source track index
	Kind             Kind
	Note             uint8
	Velocity         uint8
	MicrosPerQuarter int64 // KindTempo only
}

// Source is a lazy, finite, ordered sequence of track events.
type Source interface {
	// Next returns the next event, or ok=false when exhausted.
	Next() (ev TrackEvent, ok bool)
}
