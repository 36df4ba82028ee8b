package midifile

import "testing"

// sliceSource replays a fixed event slice.
type sliceSource struct {
	events []TrackEvent
	idx    int
}

func (s *sliceSource) Next() (TrackEvent, bool) {
	if s.idx >= len(s.events) {
		return TrackEvent{}, false
	}
	ev := s.events[s.idx]
	s.idx++
	return ev, true
}

func src(track int, timestamps ...int64) *sliceSource {
	s := &sliceSource{}
	for _, ts := range timestamps {
		s.events = append(s.events, TrackEvent{Timestamp: ts, Track: track, Kind: KindNoteOn})
	}
	return s
}

func TestMergeInterleavesByTimestamp(t *testing.T) {
	stream := Merge(src(0, 0, 10, 30), src(1, 5, 20))

	want := []int64{0, 5, 10, 20, 30}
	for i, ts := range want {
		ev, ok := stream.Next()
		if !ok {
			t.Fatalf("stream ended at event %d, want %d events", i, len(want))
		}
		if ev.Timestamp != ts {
			t.Errorf("event %d at %dus, want %dus", i, ev.Timestamp, ts)
		}
	}
	if _, ok := stream.Next(); ok {
		t.Fatal("stream should be exhausted")
	}
}

func TestMergeTieBreaksByTrack(t *testing.T) {
	stream := Merge(src(2, 100, 100), src(0, 100), src(1, 100))

	want := []int{0, 1, 2, 2}
	for i, track := range want {
		ev, ok := stream.Next()
		if !ok {
			t.Fatalf("stream ended at event %d", i)
		}
		if ev.Timestamp != 100 || ev.Track != track {
			t.Errorf("event %d from track %d at %dus, want track %d at 100us", i, ev.Track, ev.Timestamp, track)
		}
	}
}

func TestMergePeekDoesNotConsume(t *testing.T) {
	stream := Merge(src(0, 7))

	for n := 0; n < 3; n++ {
		ev, ok := stream.Peek()
		if !ok || ev.Timestamp != 7 {
			t.Fatalf("peek %d = (%+v, %v), want the same pending event", n, ev, ok)
		}
	}
	if ev, ok := stream.Next(); !ok || ev.Timestamp != 7 {
		t.Fatalf("next = (%+v, %v) after peeks", ev, ok)
	}
	if _, ok := stream.Peek(); ok {
		t.Fatal("peek should report exhaustion")
	}
}

func TestMergeSkipsNilAndEmptySources(t *testing.T) {
	stream := Merge(nil, &sliceSource{}, src(3, 42))

	ev, ok := stream.Next()
	if !ok || ev.Track != 3 || ev.Timestamp != 42 {
		t.Fatalf("next = (%+v, %v), want track 3 at 42us", ev, ok)
	}
	if _, ok := stream.Next(); ok {
		t.Fatal("stream should be exhausted")
	}
}
