package bezier

import (
	"math/bits"
)

// The maximum number of candidates a single intersection call can produce.
// It covers the BatchWidth segments of the batched strategy and the leaves of
// a recursive traversal at MaxRecursionDepth.
const maxCandidates = 1 << MaxRecursionDepth

type candidate struct {
	// Curve parameter in [0, 1].
	u float32

	// Ray parameter.
	t float32
}

// A fixed-size set of candidate hits. Bit i of valid is set while candidate i
// can still be selected.
type candidateSet struct {
	items [maxCandidates]candidate
	valid uint32
	count int
}

func (cs *candidateSet) set(i int, u, t float32) {
	cs.items[i] = candidate{u: u, t: t}
	cs.valid |= 1 << uint(i)
	if i >= cs.count {
		cs.count = i + 1
	}
}

// Append a candidate; returns false if the set is full.
func (cs *candidateSet) add(u, t float32) bool {
	if cs.count == maxCandidates {
		return false
	}
	cs.set(cs.count, u, t)
	return true
}

func (cs *candidateSet) empty() bool {
	return cs.valid == 0
}

func (cs *candidateSet) invalidate(i int) {
	cs.valid &^= 1 << uint(i)
}

// Select the valid candidate with the smallest t. Ties resolve to the lowest
// index.
func (cs *candidateSet) selectMin() (int, bool) {
	if cs.valid == 0 {
		return -1, false
	}

	best := -1
	for mask := cs.valid; mask != 0; mask &= mask - 1 {
		i := bits.TrailingZeros32(mask)
		if best < 0 || cs.items[i].t < cs.items[best].t {
			best = i
		}
	}
	return best, true
}

// Pick the nearest candidate that survives the degeneracy check and the
// geometry filter (if any). Candidates are tried nearest first; each rejected
// candidate is removed from the set so the loop runs at most once per
// candidate.
func (cs *candidateSet) resolve(q Query, ray *Ray, prim *Primitive, geoms GeometryLookup, stats *Stats) (Hit, bool) {
	geom := filterFor(geoms, q, prim.GeomID)

	for !cs.empty() {
		i, _ := cs.selectMin()
		c := cs.items[i]

		// Re-evaluate the tangent on the untransformed curve. A zero
		// tangent means the curve collapses to a point here.
		_, tangent := prim.Eval(c.u)
		if tangent.IsZero() {
			stats.degenerateReject()
			cs.invalidate(i)
			continue
		}

		hit := Hit{
			U:      c.u,
			V:      0,
			T:      c.t,
			Ng:     tangent,
			GeomID: prim.GeomID,
			PrimID: prim.PrimID,
		}

		if geom != nil && !geom.RunFilter(q, ray, &hit) {
			stats.filterReject()
			cs.invalidate(i)
			continue
		}

		return hit, true
	}

	return Hit{}, false
}

// Number of candidates still selectable.
func (cs *candidateSet) len() int {
	return bits.OnesCount32(cs.valid)
}
