package bezier

import "sync/atomic"

// Intersection counters. A nil *Stats is valid and discards all updates so
// the kernel can run without instrumentation.
type Stats struct {
	// Curve primitives tested.
	Prims atomic.Uint64

	// Candidates that passed the cone test.
	Candidates atomic.Uint64

	// Candidates dropped because of a zero curve tangent.
	DegenerateRejects atomic.Uint64

	// Candidates rejected by a user filter.
	FilterRejects atomic.Uint64

	// Committed intersections and positive occlusion tests.
	Hits       atomic.Uint64
	Occlusions atomic.Uint64
}

// A point-in-time copy of the counters.
type StatsSnapshot struct {
	Prims             uint64
	Candidates        uint64
	DegenerateRejects uint64
	FilterRejects     uint64
	Hits              uint64
	Occlusions        uint64
}

// Copy the current counter values.
func (s *Stats) Snapshot() StatsSnapshot {
	if s == nil {
		return StatsSnapshot{}
	}
	return StatsSnapshot{
		Prims:             s.Prims.Load(),
		Candidates:        s.Candidates.Load(),
		DegenerateRejects: s.DegenerateRejects.Load(),
		FilterRejects:     s.FilterRejects.Load(),
		Hits:              s.Hits.Load(),
		Occlusions:        s.Occlusions.Load(),
	}
}

func (s *Stats) prim() {
	if s != nil {
		s.Prims.Add(1)
	}
}

func (s *Stats) candidates(n int) {
	if s != nil && n > 0 {
		s.Candidates.Add(uint64(n))
	}
}

func (s *Stats) degenerateReject() {
	if s != nil {
		s.DegenerateRejects.Add(1)
	}
}

func (s *Stats) filterReject() {
	if s != nil {
		s.FilterRejects.Add(1)
	}
}

func (s *Stats) hit() {
	if s != nil {
		s.Hits.Add(1)
	}
}

func (s *Stats) occlusion() {
	if s != nil {
		s.Occlusions.Add(1)
	}
}

// Get the counter deltas between two snapshots.
func (s StatsSnapshot) Sub(prev StatsSnapshot) StatsSnapshot {
	return StatsSnapshot{
		Prims:             s.Prims - prev.Prims,
		Candidates:        s.Candidates - prev.Candidates,
		DegenerateRejects: s.DegenerateRejects - prev.DegenerateRejects,
		FilterRejects:     s.FilterRejects - prev.FilterRejects,
		Hits:              s.Hits - prev.Hits,
		Occlusions:        s.Occlusions - prev.Occlusions,
	}
}

// Sum two snapshots.
func (s StatsSnapshot) Add(other StatsSnapshot) StatsSnapshot {
	return StatsSnapshot{
		Prims:             s.Prims + other.Prims,
		Candidates:        s.Candidates + other.Candidates,
		DegenerateRejects: s.DegenerateRejects + other.DegenerateRejects,
		FilterRejects:     s.FilterRejects + other.FilterRejects,
		Hits:              s.Hits + other.Hits,
		Occlusions:        s.Occlusions + other.Occlusions,
	}
}
