package bezier

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownStrategy = errors.New("bezier: unknown intersection strategy")
	ErrInvalidDepth    = errors.New("bezier: recursion depth out of range")
)

// The Intersector interface is implemented by the curve traversal strategies.
//
// Two strategies are provided:
//
//   - "batched" flattens the curve into BatchWidth linear segments in a single
//     pass (3 levels of uniform subdivision). It is the fastest option and its
//     error is bounded by the flattening of each eighth of the curve.
//   - "recursive" subdivides adaptively, discarding halves whose bounds miss
//     the ray, down to a configurable depth (16 leaf segments by default).
//     It is slower but more accurate on strongly curved strands.
//
// Both strategies share the cone test and candidate selection so that they
// agree within the flattening error.
type Intersector interface {
	// Strategy name.
	Name() string

	// Intersect the ray with a curve primitive and commit the closest
	// accepted hit to the ray hit record.
	Intersect(pre *Precalculations, ray *Ray, prim *Primitive, geoms GeometryLookup)

	// Check whether the curve primitive occludes the ray within its
	// current t interval.
	Occluded(pre *Precalculations, ray *Ray, prim *Primitive, geoms GeometryLookup) bool
}

// Intersect the ray with every primitive in a leaf. All primitives must be
// tested to find the closest hit.
func IntersectAll(isect Intersector, pre *Precalculations, ray *Ray, prims []Primitive, geoms GeometryLookup) {
	for i := range prims {
		isect.Intersect(pre, ray, &prims[i], geoms)
	}
}

// Check whether any primitive in a leaf occludes the ray. Stops at the first
// occluder.
func OccludedAny(isect Intersector, pre *Precalculations, ray *Ray, prims []Primitive, geoms GeometryLookup) bool {
	for i := range prims {
		if isect.Occluded(pre, ray, &prims[i], geoms) {
			return true
		}
	}
	return false
}

type factory func(stats *Stats) Intersector

var strategies = map[string]factory{
	"batched": func(stats *Stats) Intersector {
		return NewBatched(stats)
	},
	"recursive": func(stats *Stats) Intersector {
		return &Recursive{depth: DefaultRecursionDepth, stats: stats}
	},
}

// Get the list of supported strategy names.
func Strategies() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create an intersector by strategy name. The stats argument may be nil.
func New(name string, stats *Stats) (Intersector, error) {
	f, ok := strategies[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownStrategy, name, strings.Join(Strategies(), ", "))
	}
	return f(stats), nil
}

// Create an intersector by strategy name and subdivision depth. The depth only
// applies to the recursive strategy; a zero depth selects the default.
func NewWithDepth(name string, depth int, stats *Stats) (Intersector, error) {
	if depth == 0 || !strings.EqualFold(name, "recursive") {
		return New(name, stats)
	}

	r, err := NewRecursive(depth, stats)
	if err != nil {
		return nil, err
	}
	return r, nil
}
