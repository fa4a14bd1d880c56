package bezier

import (
	"testing"

	"github.com/achilleasa/strands/types"
)

type funcGeometry struct {
	q      Query
	filter FilterFunc
}

func (g *funcGeometry) HasFilter(q Query) bool {
	return g.filter != nil && q == g.q
}

func (g *funcGeometry) RunFilter(q Query, ray *Ray, hit *Hit) bool {
	return g.filter(ray, hit)
}

type singleLookup struct {
	geom Geometry
}

func (l singleLookup) Geometry(uint32) Geometry {
	return l.geom
}

func straightPrimitive() Primitive {
	return NewPrimitive(
		types.XYZW(-1, 0, 5, 0.1),
		types.XYZW(-1.0/3.0, 0, 5, 0.1),
		types.XYZW(1.0/3.0, 0, 5, 0.1),
		types.XYZW(1, 0, 5, 0.1),
		3, 7,
	)
}

func TestSelectMin(t *testing.T) {
	var cs candidateSet
	if _, ok := cs.selectMin(); ok {
		t.Fatal("expected empty set to have no minimum")
	}

	cs.set(2, 0.2, 5)
	cs.set(5, 0.5, 3)
	cs.set(6, 0.6, 3)
	cs.set(7, 0.7, 9)

	if cs.len() != 4 {
		t.Fatalf("expected 4 candidates; got %d", cs.len())
	}

	expOrder := []int{5, 6, 2, 7}
	for index, exp := range expOrder {
		i, ok := cs.selectMin()
		if !ok || i != exp {
			t.Fatalf("[step %d] expected candidate %d; got %d (ok: %t)", index, exp, i, ok)
		}
		cs.invalidate(i)
	}

	if !cs.empty() {
		t.Fatal("expected set to be empty")
	}
}

func TestAddStopsAtCapacity(t *testing.T) {
	var cs candidateSet
	for i := 0; i < maxCandidates; i++ {
		if !cs.add(float32(i), float32(i)) {
			t.Fatalf("expected add %d to succeed", i)
		}
	}
	if cs.add(0, 0) {
		t.Fatal("expected add to fail on a full set")
	}
	if cs.len() != maxCandidates {
		t.Fatalf("expected %d candidates; got %d", maxCandidates, cs.len())
	}
}

func TestResolveSkipsDegenerateTangent(t *testing.T) {
	// The curve starts with a cusp (p0 == p1 == p2) so its tangent is zero
	// at u = 0 only.
	prim := NewPrimitive(
		types.XYZW(0, 0, 5, 0.1),
		types.XYZW(0, 0, 5, 0.1),
		types.XYZW(0, 0, 5, 0.1),
		types.XYZW(1, 0, 5, 0.1),
		1, 2,
	)
	ray := NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, 1))
	stats := &Stats{}

	var cs candidateSet
	cs.set(0, 0, 4)
	cs.set(1, 0.5, 6)

	hit, ok := cs.resolve(IntersectQuery, &ray, &prim, nil, stats)
	if !ok {
		t.Fatal("expected the second candidate to be accepted")
	}
	if hit.U != 0.5 || hit.T != 6 || hit.GeomID != 1 || hit.PrimID != 2 || hit.V != 0 {
		t.Fatalf("unexpected hit %+v", hit)
	}
	if hit.Ng.IsZero() {
		t.Fatal("expected non-zero tangent")
	}
	if got := stats.Snapshot().DegenerateRejects; got != 1 {
		t.Fatalf("expected 1 degenerate reject; got %d", got)
	}
}

func TestResolveFilterRetries(t *testing.T) {
	prim := straightPrimitive()
	ray := NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, 1))
	stats := &Stats{}

	var calls []float32
	geom := &funcGeometry{
		q: OcclusionQuery,
		filter: func(_ *Ray, hit *Hit) bool {
			calls = append(calls, hit.T)
			return hit.T > 2
		},
	}

	var cs candidateSet
	cs.set(0, 0.1, 1)
	cs.set(1, 0.2, 2)
	cs.set(2, 0.3, 3)

	// Filters registered for other query types are ignored.
	hit, ok := cs.resolve(IntersectQuery, &ray, &prim, singleLookup{geom}, stats)
	if !ok || hit.T != 1 || len(calls) != 0 {
		t.Fatalf("expected unfiltered nearest hit; got %+v (ok: %t, calls: %v)", hit, ok, calls)
	}

	hit, ok = cs.resolve(OcclusionQuery, &ray, &prim, singleLookup{geom}, stats)
	if !ok || hit.T != 3 {
		t.Fatalf("expected filter to accept t=3; got %+v (ok: %t)", hit, ok)
	}
	if len(calls) != 3 || calls[0] != 1 || calls[1] != 2 || calls[2] != 3 {
		t.Fatalf("expected filter to see candidates nearest first; got %v", calls)
	}
	if got := stats.Snapshot().FilterRejects; got != 2 {
		t.Fatalf("expected 2 filter rejects; got %d", got)
	}

	// Everything rejected.
	geom.filter = func(*Ray, *Hit) bool { return false }
	if _, ok = cs.resolve(OcclusionQuery, &ray, &prim, singleLookup{geom}, nil); ok {
		t.Fatal("expected no hit when the filter rejects all candidates")
	}
}
