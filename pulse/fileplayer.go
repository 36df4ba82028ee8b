package pulse

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cameronprince/mptcc/debug"
	"github.com/cameronprince/mptcc/midifile"
)

var (
	// ErrNoFile is returned when playback starts with no file loaded.
	ErrNoFile = errors.New("no MIDI file loaded")
	// ErrNoAssignments is returned when no playable track is assigned.
	ErrNoAssignments = errors.New("no tracks assigned to outputs")
)

// DefaultGain is the initial per-output gain percentage.
const DefaultGain = 50

// TrackInfo describes one track of the loaded file for listing screens.
type TrackInfo struct {
	Index  int
	Name   string
	Output int // assigned output channel index, -1 if unassigned
	Err    error
}

// Player is the scheduled source: it parses a multi-track MIDI file,
// merges the assigned tracks into one time-ordered stream and dispatches
// it against a wall-clock start reference. Unlike the other sources it
// keeps an independent held-note stack per assigned output.
type Player struct {
	maxOnTime int // microseconds at velocity 127

	mu          sync.Mutex
	file        *midifile.File
	path        string
	assignments [NumOutputs]int // track index per output, -1 = unassigned
	session     *playSession
	onIdle      func()

	gains [NumOutputs]atomic.Int32 // live, 0-100
	cells [NumOutputs]ParamCell

	now func() time.Time
}

// playSession is the state of one playback run. The stacks belong to the
// dispatch goroutine; the stream is consumed once and never rewound.
type playSession struct {
	stream   *midifile.Stream
	startAt  time.Time
	stopChan chan struct{}
	stopOnce sync.Once
	stacks   [NumOutputs][]heldNote
}

func (s *playSession) stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

// NewPlayer creates an idle player. maxOnTimeMicros is the on-time mapped
// to full velocity before gain scaling.
func NewPlayer(maxOnTimeMicros int) *Player {
	p := &Player{
		maxOnTime: maxOnTimeMicros,
		now:       time.Now,
	}
	for i := range p.assignments {
		p.assignments[i] = -1
		p.gains[i].Store(DefaultGain)
	}
	return p
}

func (p *Player) Mode() Mode { return ModeFilePlayback }

// Activate is a no-op; playback begins with Start once the engine has
// switched over.
func (p *Player) Activate() {}

// Deactivate cancels any running session and sweeps all notes off.
func (p *Player) Deactivate() {
	p.Stop()
}

// Produce returns each output's committed frame.
func (p *Player) Produce() [NumOutputs]Frame {
	var out [NumOutputs]Frame
	for c := range out {
		out[c] = p.cells[c].Load()
	}
	return out
}

// SetOnIdle registers the callback fired when a session finishes on its
// own (stream exhausted, all stacks empty).
func (p *Player) SetOnIdle(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onIdle = fn
}

// LoadFile parses the named file. A file that fails to parse entirely is
// rejected here and the player keeps its previous state.
func (p *Player) LoadFile(path string) error {
	f, err := midifile.Load(path)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.file = f
	p.path = path
	for i := range p.assignments {
		p.assignments[i] = -1
	}
	return nil
}

// Path returns the loaded file path, or "".
func (p *Player) Path() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.path
}

// Tracks lists the loaded file's tracks with their assignment state.
func (p *Player) Tracks() []TrackInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.file == nil {
		return nil
	}
	out := make([]TrackInfo, p.file.NumTracks())
	for i := range out {
		out[i] = TrackInfo{
			Index:  i,
			Name:   p.file.TrackName(i),
			Output: -1,
			Err:    p.file.TrackErr(i),
		}
	}
	for o, t := range p.assignments {
		if t >= 0 && t < len(out) {
			out[t].Output = o
		}
	}
	return out
}

// AssignTrack maps a track to an output channel. The prior occupant of
// that output is silently replaced, and the track leaves any other output
// it held. The mapping stays one track per output and one output per
// track at all times.
func (p *Player) AssignTrack(track, output int) {
	if output < 0 || output >= NumOutputs || track < 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for o := range p.assignments {
		if p.assignments[o] == track {
			p.assignments[o] = -1
		}
	}
	p.assignments[output] = track
}

// UnassignTrack removes a track from whatever output holds it.
func (p *Player) UnassignTrack(track int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for o := range p.assignments {
		if p.assignments[o] == track {
			p.assignments[o] = -1
		}
	}
}

// Assignments returns the output→track mapping (-1 = unassigned).
func (p *Player) Assignments() [NumOutputs]int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.assignments
}

// Gain returns an output's live gain percentage.
func (p *Player) Gain(output int) int {
	if output < 0 || output >= NumOutputs {
		return 0
	}
	return int(p.gains[output].Load())
}

// AdjustGain applies an encoder delta to an output's gain. Takes effect on
// that output's subsequent notes.
func (p *Player) AdjustGain(output, delta int) int {
	if output < 0 || output >= NumOutputs {
		return 0
	}
	g := int32(constrain(int(p.gains[output].Load())+delta, 0, 100))
	p.gains[output].Store(g)
	return int(g)
}

// Start begins playback of the assigned tracks from the top of the file.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, err := p.prepare()
	if err != nil {
		return err
	}
	p.session = s
	go p.dispatchLoop(s)
	return nil
}

// prepare builds a fresh session from the current file and assignments.
// Callers hold p.mu.
func (p *Player) prepare() (*playSession, error) {
	if p.file == nil {
		return nil, ErrNoFile
	}
	if p.session != nil {
		p.session.stop()
		p.session = nil
		p.sweep()
	}

	var sources []midifile.Source
	for _, track := range p.assignments {
		if track < 0 {
			continue
		}
		cur, err := p.file.Cursor(track)
		if err != nil {
			// One bad track only excludes that track.
			debug.Log("player", "skipping track %d: %v", track, err)
			continue
		}
		sources = append(sources, cur)
	}
	if len(sources) == 0 {
		return nil, ErrNoAssignments
	}

	return &playSession{
		stream:   midifile.Merge(sources...),
		startAt:  p.now(),
		stopChan: make(chan struct{}),
	}, nil
}

// Stop cancels playback. Called on every exit path; always sweeps every
// sounding note off before the caller returns to Idle. Clearing the
// session and sweeping happen in one critical section, so a dispatch
// goroutine already past its stop check cannot publish after the sweep:
// apply drops events whose session is no longer current.
func (p *Player) Stop() {
	p.mu.Lock()
	s := p.session
	p.session = nil
	p.sweep()
	p.mu.Unlock()

	if s != nil {
		s.stop()
	}
}

// Playing reports whether a session is running.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session != nil
}

// Elapsed returns wall-clock time since the session started.
func (p *Player) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return 0
	}
	return p.now().Sub(p.session.startAt)
}

// dispatchLoop plays the merged stream against absolute timestamps. Each
// wait compares the event's timestamp with elapsed time since the start
// reference, never with the previous event, so scheduler jitter does not
// accumulate.
func (p *Player) dispatchLoop(s *playSession) {
	for {
		select {
		case <-s.stopChan:
			return
		default:
		}
		ev, ok := s.stream.Peek()
		if !ok {
			break
		}
		due := s.startAt.Add(time.Duration(ev.Timestamp) * time.Microsecond)
		if wait := due.Sub(p.now()); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-s.stopChan:
				timer.Stop()
				return
			case <-timer.C:
			}
		}
		s.stream.Next()
		p.apply(s, ev)
	}
	p.finish(s)
}

// apply routes one merged event to its output's note stack. Events from
// a session that is no longer current are dropped; the whole update runs
// under p.mu so it serializes against Stop's clear-and-sweep.
func (p *Player) apply(s *playSession, ev midifile.TrackEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session != s {
		return
	}

	output := -1
	for o, track := range p.assignments {
		if track == ev.Track {
			output = o
			break
		}
	}
	if output < 0 {
		return
	}

	stack := s.stacks[output]
	switch ev.Kind {
	case midifile.KindNoteOn:
		for i, h := range stack {
			if h.note == ev.Note {
				stack = append(stack[:i], stack[i+1:]...)
				break
			}
		}
		stack = append(stack, heldNote{note: ev.Note, velocity: ev.Velocity})
	case midifile.KindNoteOff:
		for i, h := range stack {
			if h.note == ev.Note {
				stack = append(stack[:i], stack[i+1:]...)
				break
			}
		}
	default:
		return
	}
	s.stacks[output] = stack
	p.publish(output, stack)
}

// publish commits an output's frame from the top of its stack, scaled by
// that output's live gain. Callers hold p.mu.
func (p *Player) publish(output int, stack []heldNote) {
	if len(stack) == 0 {
		p.cells[output].Store(Frame{})
		return
	}
	top := stack[len(stack)-1]
	gain := int(p.gains[output].Load())
	onTime := VelocityOnTime(top.velocity, p.maxOnTime) * gain / 100
	p.cells[output].Store(Frame{
		Params: Params{FrequencyHz: NoteFrequency(top.note), OnTimeMicros: onTime},
		Active: true,
	})
}

// finish ends a session that ran to completion: stream exhausted, every
// stack swept, then hand the engine back to Idle. A session that was
// superseded while its last events were in flight leaves the new
// session's cells alone.
func (p *Player) finish(s *playSession) {
	p.mu.Lock()
	current := p.session == s
	if current {
		p.session = nil
		p.sweep()
	}
	cb := p.onIdle
	p.mu.Unlock()

	if current && cb != nil {
		cb()
	}
}

// sweep forces every output frame off. Callers hold p.mu.
func (p *Player) sweep() {
	for c := range p.cells {
		p.cells[c].Store(Frame{})
	}
}
