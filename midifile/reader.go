package midifile

import (
	"errors"
	"fmt"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
)

var (
	// ErrEmptyTrack marks a track with no usable events.
	ErrEmptyTrack = errors.New("track has no events")
	// ErrNoTracks is returned for files without any track.
	ErrNoTracks = errors.New("file has no tracks")
)

// tempoSegment covers the span from StartTick until the next segment.
type tempoSegment struct {
	startTick     int64
	microsAtStart int64   // absolute microseconds at startTick
	microsPerTick float64 // rate in effect from startTick on
}

// File is a parsed MIDI file with its tempo map resolved. Per-track note
// events are exposed as lazy cursors; nothing beyond the raw track data is
// materialized up front.
type File struct {
	tracks    []smf.Track
	names     []string
	trackErrs map[int]error
	segments  []tempoSegment
	tempos    []TrackEvent
}

// Load reads and parses the named MIDI file. A file that fails to parse
// entirely is rejected here, before any playback session exists.
func Load(path string) (*File, error) {
	s, err := smf.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read MIDI file %s: %w", path, err)
	}
	return FromSMF(s)
}

// FromSMF builds a File from an already-read SMF.
func FromSMF(s *smf.SMF) (*File, error) {
	if len(s.Tracks) == 0 {
		return nil, ErrNoTracks
	}

	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("unsupported time format %v", s.TimeFormat)
	}
	resolution := float64(mt.Resolution())

	f := &File{
		tracks:    s.Tracks,
		names:     make([]string, len(s.Tracks)),
		trackErrs: make(map[int]error),
	}

	// Collect tempo metas from every track, in absolute tick order. Tempo
	// changes apply globally no matter which track carries them.
	type tempoPoint struct {
		tick             int64
		microsPerQuarter int64
	}
	var points []tempoPoint

	for i, track := range f.tracks {
		if len(track) == 0 {
			f.trackErrs[i] = ErrEmptyTrack
			continue
		}
		var absTick int64
		for _, ev := range track {
			absTick += int64(ev.Delta)
			var bpm float64
			if ev.Message.GetMetaTempo(&bpm) && bpm > 0 {
				points = append(points, tempoPoint{
					tick:             absTick,
					microsPerQuarter: int64(60_000_000 / bpm),
				})
			}
			var name string
			if ev.Message.GetMetaTrackName(&name) {
				f.names[i] = name
			}
		}
	}

	sort.SliceStable(points, func(a, b int) bool { return points[a].tick < points[b].tick })

	// Build the cumulative tick → microsecond map. 120 BPM until the first
	// tempo meta, per the MIDI spec. A change at tick T converts only the
	// deltas after T; the span up to T keeps the prior rate.
	const defaultMicrosPerQuarter = 500_000
	segs := []tempoSegment{{
		startTick:     0,
		microsAtStart: 0,
		microsPerTick: defaultMicrosPerQuarter / resolution,
	}}
	for _, p := range points {
		last := segs[len(segs)-1]
		microsAt := last.microsAtStart + int64(float64(p.tick-last.startTick)*last.microsPerTick)
		rate := float64(p.microsPerQuarter) / resolution
		if p.tick == last.startTick {
			segs[len(segs)-1] = tempoSegment{p.tick, last.microsAtStart, rate}
		} else {
			segs = append(segs, tempoSegment{p.tick, microsAt, rate})
		}
		f.tempos = append(f.tempos, TrackEvent{
			Timestamp:        microsAt,
			Kind:             KindTempo,
			MicrosPerQuarter: p.microsPerQuarter,
		})
	}
	f.segments = segs

	return f, nil
}

// NumTracks returns the number of tracks in the file.
func (f *File) NumTracks() int {
	return len(f.tracks)
}

// TrackName returns the name meta of a track, or "".
func (f *File) TrackName(i int) string {
	if i < 0 || i >= len(f.names) {
		return ""
	}
	return f.names[i]
}

// TrackErr reports why a track is unusable, or nil.
func (f *File) TrackErr(i int) error {
	return f.trackErrs[i]
}

// TempoEvents returns the global tempo-meta stream in time order.
func (f *File) TempoEvents() []TrackEvent {
	return f.tempos
}

// tickToMicros converts an absolute tick position to absolute microseconds
// using the tempo map.
func (f *File) tickToMicros(tick int64) int64 {
	// Last segment whose start is <= tick
	i := sort.Search(len(f.segments), func(i int) bool {
		return f.segments[i].startTick > tick
	}) - 1
	seg := f.segments[i]
	return seg.microsAtStart + int64(float64(tick-seg.startTick)*seg.microsPerTick)
}

// Cursor returns a lazy cursor over one track's note events, already
// converted to absolute microseconds. Returns an error for unusable or
// out-of-range tracks; other tracks are unaffected.
func (f *File) Cursor(track int) (*Cursor, error) {
	if track < 0 || track >= len(f.tracks) {
		return nil, fmt.Errorf("track %d out of range", track)
	}
	if err := f.trackErrs[track]; err != nil {
		return nil, fmt.Errorf("track %d: %w", track, err)
	}
	return &Cursor{f: f, track: track}, nil
}

// Cursor lazily walks one track, yielding note events in time order.
type Cursor struct {
	f       *File
	track   int
	idx     int
	absTick int64
}

// Next implements Source.
func (c *Cursor) Next() (TrackEvent, bool) {
	track := c.f.tracks[c.track]
	for c.idx < len(track) {
		ev := track[c.idx]
		c.idx++
		c.absTick += int64(ev.Delta)

		var channel, note, velocity uint8
		switch {
		case ev.Message.GetNoteOn(&channel, &note, &velocity):
			kind := KindNoteOn
			if velocity == 0 {
				// Running-status shorthand for note off
				kind = KindNoteOff
			}
			return TrackEvent{
				Timestamp: c.f.tickToMicros(c.absTick),
				Track:     c.track,
				Kind:      kind,
				Note:      note,
				Velocity:  velocity,
			}, true
		case ev.Message.GetNoteOff(&channel, &note, &velocity):
			return TrackEvent{
				Timestamp: c.f.tickToMicros(c.absTick),
				Track:     c.track,
				Kind:      KindNoteOff,
				Note:      note,
				Velocity:  velocity,
			}, true
		}
		// Everything else advances time only
	}
	return TrackEvent{}, false
}
