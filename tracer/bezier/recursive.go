package bezier

import "fmt"

const (
	// Deepest supported subdivision; a traversal yields at most
	// 1<<MaxRecursionDepth leaf segments.
	MaxRecursionDepth = 5

	DefaultRecursionDepth = 4
)

// A bounded stack of pending segments. Every subdivision level defers at most
// one sibling, so depth+1 slots always suffice.
type segmentStack struct {
	items [MaxRecursionDepth + 1]Segment
	n     int
}

func (s *segmentStack) push(seg Segment) {
	if s.n == len(s.items) {
		panic(fmt.Sprintf("bezier: segment stack overflow while pushing %v", seg))
	}
	s.items[s.n] = seg
	s.n++
}

func (s *segmentStack) pop() (Segment, bool) {
	if s.n == 0 {
		return Segment{}, false
	}
	s.n--
	return s.items[s.n], true
}

// The recursive strategy subdivides the curve in ray space, following only
// the halves whose 2D bounds contain the ray axis, and runs the cone test on
// the leaf segments.
type Recursive struct {
	// Subdivision depth; the curve is split into at most 1<<depth leaves.
	depth int

	stats *Stats
}

// Create a recursive intersector. Depth must be in [1, MaxRecursionDepth].
func NewRecursive(depth int, stats *Stats) (*Recursive, error) {
	if depth < 1 || depth > MaxRecursionDepth {
		return nil, fmt.Errorf("%w: %d (expected 1 to %d)", ErrInvalidDepth, depth, MaxRecursionDepth)
	}
	return &Recursive{depth: depth, stats: stats}, nil
}

func (r *Recursive) Name() string {
	return "recursive"
}

// Get the subdivision depth.
func (r *Recursive) Depth() int {
	return r.depth
}

// Traverse the subdivision tree and collect the leaf segments hit by the ray.
func (r *Recursive) candidates(pre *Precalculations, ray *Ray, prim *Primitive) candidateSet {
	r.stats.prim()

	var (
		cs    candidateSet
		stack segmentStack
	)
	stack.push(pre.ToRaySpace(ray, prim, r.depth))

	for {
		curve, ok := stack.pop()
		if !ok {
			break
		}

		for curve.Depth > 0 {
			left, right := curve.Subdivide()
			hitLeft := left.overlapsRayAxis(ray)
			hitRight := right.overlapsRayAxis(ray)

			if !hitLeft && !hitRight {
				break
			}
			if hitLeft && hitRight {
				stack.push(right)
				curve = left
			} else if hitLeft {
				curve = left
			} else {
				curve = right
			}
		}
		if curve.Depth > 0 {
			continue
		}

		u, t, ok := coneTest(curve.V[0], curve.V[3], ray, ray.TFar)
		if !ok {
			continue
		}
		cs.add(curve.T0+u*(curve.T1-curve.T0), t)
	}

	r.stats.candidates(cs.len())
	return cs
}

func (r *Recursive) Intersect(pre *Precalculations, ray *Ray, prim *Primitive, geoms GeometryLookup) {
	cs := r.candidates(pre, ray, prim)
	if cs.empty() {
		return
	}

	if hit, ok := cs.resolve(IntersectQuery, ray, prim, geoms, r.stats); ok {
		ray.commit(&hit)
		r.stats.hit()
	}
}

func (r *Recursive) Occluded(pre *Precalculations, ray *Ray, prim *Primitive, geoms GeometryLookup) bool {
	cs := r.candidates(pre, ray, prim)
	if cs.empty() {
		return false
	}

	if _, ok := cs.resolve(OcclusionQuery, ray, prim, geoms, r.stats); ok {
		r.stats.occlusion()
		return true
	}
	return false
}
