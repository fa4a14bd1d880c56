package scene

import (
	"math"
	"sort"

	"github.com/achilleasa/strands/tracer/bezier"
)

// A geometry groups curve primitives that share the same set of
// intersection filters.
type Geometry struct {
	Name string

	// Fraction of shadow rays blocked by the geometry; 1 for opaque
	// geometries. Filters are not serialized so readers rebuild the
	// occlusion filter from this value.
	Opacity float32

	// Id of the first primitive of each strand in ascending order. The
	// spans of a strand have consecutive primitive ids.
	StrandFirstPrim []uint32

	// Optional filters invoked for each hit candidate. A filter returning
	// false rejects the candidate and the kernel moves on to the next
	// closest one.
	IntersectionFilter bezier.FilterFunc
	OcclusionFilter    bezier.FilterFunc
}

// Set the geometry opacity and install a matching occlusion filter. Opaque
// geometries do not need one.
func (g *Geometry) SetOpacity(opacity float32) {
	g.Opacity = opacity
	g.OcclusionFilter = nil
	if opacity < 1 {
		g.OcclusionFilter = OpacityFilter(opacity)
	}
}

// Check whether two primitives of this geometry belong to the same strand.
// Without strand information every primitive is treated as its own strand.
func (g *Geometry) SameStrand(a, b uint32) bool {
	if a == b {
		return true
	}
	if len(g.StrandFirstPrim) == 0 {
		return false
	}
	return g.strandIndex(a) == g.strandIndex(b)
}

// Index of the strand that contains primID or -1 if primID precedes the
// first strand.
func (g *Geometry) strandIndex(primID uint32) int {
	return sort.Search(len(g.StrandFirstPrim), func(i int) bool {
		return g.StrandFirstPrim[i] > primID
	}) - 1
}

// Check whether a filter is registered for the given query type.
func (g *Geometry) HasFilter(q bezier.Query) bool {
	return g.filter(q) != nil
}

// Run the filter registered for the given query type.
func (g *Geometry) RunFilter(q bezier.Query, ray *bezier.Ray, hit *bezier.Hit) bool {
	f := g.filter(q)
	if f == nil {
		return true
	}
	return f(ray, hit)
}

func (g *Geometry) filter(q bezier.Query) bezier.FilterFunc {
	switch q {
	case bezier.IntersectQuery:
		return g.IntersectionFilter
	case bezier.OcclusionQuery:
		return g.OcclusionFilter
	}
	return nil
}

// Number of buckets along the curve parameter used by the opacity filter.
const opacityBuckets = 64

// Create a filter that stochastically accepts a fraction of hits equal to
// opacity. The decision is a deterministic function of the primitive id and
// the curve parameter so that repeated queries agree.
//
// Opacity values <= 0 reject every hit and values >= 1 accept every hit.
func OpacityFilter(opacity float32) bezier.FilterFunc {
	return func(_ *bezier.Ray, hit *bezier.Hit) bool {
		if opacity >= 1 {
			return true
		} else if opacity <= 0 {
			return false
		}

		bucket := uint32(math.Min(float64(hit.U)*opacityBuckets, opacityBuckets-1))
		return hashToUnit(hit.GeomID, hit.PrimID, bucket) < opacity
	}
}

// Hash a triplet of ids into [0, 1).
func hashToUnit(a, b, c uint32) float32 {
	h := a*0x9e3779b1 ^ b*0x85ebca77 ^ c*0xc2b2ae3d
	h ^= h >> 16
	h *= 0x7feb352d
	h ^= h >> 15
	h *= 0x846ca68b
	h ^= h >> 16
	return float32(h>>8) / float32(1<<24)
}
