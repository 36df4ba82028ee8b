package midifile

import "container/heap"

// Stream is a k-way merge of per-track event sources into one globally
// time-ordered sequence. It pulls from the sources lazily, holding only
// one pending event per source, so files larger than memory stream
// through without being materialized. Ties break by ascending track
// index; within a track the source order is preserved. The sequence is
// finite and cannot be rewound.
type Stream struct {
	h mergeHeap
}

// Merge builds a stream over the given sources. Each source must yield
// events in non-decreasing timestamp order; the merged stream then is
// non-decreasing as well.
func Merge(sources ...Source) *Stream {
	s := &Stream{}
	for _, src := range sources {
		if src == nil {
			continue
		}
		if ev, ok := src.Next(); ok {
			s.h = append(s.h, mergeEntry{ev: ev, src: src})
		}
	}
	heap.Init(&s.h)
	return s
}

// Next returns the next merged event, or ok=false when every source is
// exhausted.
func (s *Stream) Next() (TrackEvent, bool) {
	if len(s.h) == 0 {
		return TrackEvent{}, false
	}
	entry := s.h[0]
	if next, ok := entry.src.Next(); ok {
		s.h[0] = mergeEntry{ev: next, src: entry.src}
		heap.Fix(&s.h, 0)
	} else {
		heap.Pop(&s.h)
	}
	return entry.ev, true
}

// Peek returns the next merged event without consuming it.
func (s *Stream) Peek() (TrackEvent, bool) {
	if len(s.h) == 0 {
		return TrackEvent{}, false
	}
	return s.h[0].ev, true
}

type mergeEntry struct {
	ev  TrackEvent
	src Source
}

type mergeHeap []mergeEntry

func (h mergeHeap) Len() int { return len(h) }

func (h mergeHeap) Less(i, j int) bool {
	if h[i].ev.Timestamp != h[j].ev.Timestamp {
		return h[i].ev.Timestamp < h[j].ev.Timestamp
	}
	return h[i].ev.Track < h[j].ev.Track
}

func (h mergeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *mergeHeap) Push(x any) { *h = append(*h, x.(mergeEntry)) }

func (h *mergeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
