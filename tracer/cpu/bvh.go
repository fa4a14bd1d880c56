package cpu

import (
	"math"

	"github.com/achilleasa/strands/asset/scene"
	"github.com/achilleasa/strands/tracer/bezier"
	"github.com/achilleasa/strands/types"
)

// Initial capacity of the traversal stack. The stack grows if a deeper tree
// is encountered.
const traversalStackSize = 64

type rayRecips struct {
	inv types.Vec3

	// parallel flags (|D| < eps)
	par [3]bool
}

func computeRayRecips(d types.Vec3) rayRecips {
	const eps = 1e-12
	rr := rayRecips{}
	for axis := 0; axis < 3; axis++ {
		if v := d[axis]; v > eps || v < -eps {
			rr.inv[axis] = 1 / v
		} else {
			rr.par[axis] = true
		}
	}
	return rr
}

// Slab test against a box enlarged by pad. Returns the entry distance
// clamped to the (tnear, tfar) interval.
func rayAABB(org types.Vec3, box types.BBox, pad float32, rr rayRecips, tnear, tfar float32) (bool, float32) {
	tmin, tmax := tnear, tfar

	for axis := 0; axis < 3; axis++ {
		min, max := box[0][axis]-pad, box[1][axis]+pad
		if rr.par[axis] {
			if org[axis] < min || org[axis] > max {
				return false, 0
			}
			continue
		}

		t1 := (min - org[axis]) * rr.inv[axis]
		t2 := (max - org[axis]) * rr.inv[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if tmin > tmax {
		return false, 0
	}
	return true, tmin
}

// Get a conservative bound for the ray footprint inside a box. Any curve
// point p inside the box projects onto the ray at t <= |p - org| / |dir| so
// the footprint at the farthest box corner bounds the cone test radius
// widening for all curves in the box.
func footprintPad(ray *bezier.Ray, box types.BBox, invDirLen float32) float32 {
	if ray.Spread <= 0 {
		return float32(math.Max(0, float64(ray.OrgRadius)))
	}

	var far types.Vec3
	for axis := 0; axis < 3; axis++ {
		far[axis] = float32(math.Max(
			math.Abs(float64(box[0][axis]-ray.Org[axis])),
			math.Abs(float64(box[1][axis]-ray.Org[axis])),
		))
	}
	return ray.OrgRadius + ray.Spread*far.Len()*invDirLen
}

type traversal struct {
	sc    *scene.Scene
	isect bezier.Intersector
	stack []uint32

	// Number of visited nodes since the last reset.
	visited uint64
}

func newTraversal(sc *scene.Scene, isect bezier.Intersector) *traversal {
	return &traversal{
		sc:    sc,
		isect: isect,
		stack: make([]uint32, 0, traversalStackSize),
	}
}

// Visit all BVH leafs whose bounds overlap the ray. The visitor returns true
// to stop the traversal.
func (tr *traversal) walk(ray *bezier.Ray, visit func(prims []bezier.Primitive) bool) {
	if len(tr.sc.BvhNodeList) == 0 {
		return
	}

	rr := computeRayRecips(ray.Dir)
	dirLen := ray.Dir.Len()
	if dirLen == 0 {
		return
	}
	invDirLen := 1 / dirLen

	tr.stack = append(tr.stack[:0], 0)
	for len(tr.stack) > 0 {
		nodeIndex := tr.stack[len(tr.stack)-1]
		tr.stack = tr.stack[:len(tr.stack)-1]
		tr.visited++

		node := &tr.sc.BvhNodeList[nodeIndex]
		box := node.BBox()
		if ok, _ := rayAABB(ray.Org, box, footprintPad(ray, box, invDirLen), rr, ray.TNear, ray.TFar); !ok {
			continue
		}

		if node.IsLeaf() {
			first, count := node.GetPrimitives()
			if visit(tr.sc.CurveList[first : first+count]) {
				return
			}
			continue
		}

		// order children near to far (push far first so near is processed next)
		left, right := node.GetChildNodes()
		lBox, rBox := tr.sc.BvhNodeList[left].BBox(), tr.sc.BvhNodeList[right].BBox()
		lOK, lT := rayAABB(ray.Org, lBox, footprintPad(ray, lBox, invDirLen), rr, ray.TNear, ray.TFar)
		rOK, rT := rayAABB(ray.Org, rBox, footprintPad(ray, rBox, invDirLen), rr, ray.TNear, ray.TFar)
		if lOK && rOK {
			if lT < rT {
				tr.stack = append(tr.stack, right, left)
			} else {
				tr.stack = append(tr.stack, left, right)
			}
		} else if lOK {
			tr.stack = append(tr.stack, left)
		} else if rOK {
			tr.stack = append(tr.stack, right)
		}
	}
}

// Find the closest curve hit and commit it to the ray hit record.
func (tr *traversal) intersect(ray *bezier.Ray) bool {
	pre := bezier.NewPrecalculations(ray)
	tr.walk(ray, func(prims []bezier.Primitive) bool {
		bezier.IntersectAll(tr.isect, &pre, ray, prims, tr.sc)
		return false
	})
	return ray.HasHit()
}

// Check whether any curve occludes the ray within its t interval. Filters
// are resolved through geoms.
func (tr *traversal) occluded(ray *bezier.Ray, geoms bezier.GeometryLookup) bool {
	pre := bezier.NewPrecalculations(ray)
	occluded := false
	tr.walk(ray, func(prims []bezier.Primitive) bool {
		occluded = bezier.OccludedAny(tr.isect, &pre, ray, prims, geoms)
		return occluded
	})
	return occluded
}

// A geometry lookup for shadow rays that ignores the strand span that spawned
// the ray and its neighbours on the same strand and defers to the scene
// filters otherwise.
type selfShadowFilter struct {
	sc *scene.Scene

	geomID uint32
	primID uint32

	// Geometry of the span that spawned the ray.
	origin *scene.Geometry

	inner bezier.Geometry
}

// Point the filter to the span that spawns the next shadow ray.
func (f *selfShadowFilter) reset(geomID, primID uint32) {
	f.geomID, f.primID = geomID, primID
	f.origin = nil
	if int(geomID) < len(f.sc.Geometries) {
		f.origin = f.sc.Geometries[geomID]
	}
}

func (f *selfShadowFilter) Geometry(geomID uint32) bezier.Geometry {
	f.inner = f.sc.Geometry(geomID)
	return f
}

// Check whether the hit belongs to the spawning span or an adjacent span of
// the same strand.
func (f *selfShadowFilter) isSelf(hit *bezier.Hit) bool {
	if hit.GeomID != f.geomID {
		return false
	}
	if hit.PrimID == f.primID {
		return true
	}
	if hit.PrimID+1 != f.primID && hit.PrimID != f.primID+1 {
		return false
	}
	return f.origin != nil && f.origin.SameStrand(hit.PrimID, f.primID)
}

func (f *selfShadowFilter) HasFilter(bezier.Query) bool {
	return true
}

func (f *selfShadowFilter) RunFilter(q bezier.Query, ray *bezier.Ray, hit *bezier.Hit) bool {
	if f.isSelf(hit) {
		return false
	}
	if f.inner == nil || !f.inner.HasFilter(q) {
		return true
	}
	return f.inner.RunFilter(q, ray, hit)
}
