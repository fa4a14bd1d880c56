// Package reference implements a slow double-precision curve intersector used
// to measure the accuracy of the bezier strategies.
//
// The curve is flattened into a large number of chords which are tested in
// world space (no ray-space transform). A chord is inside the tube when its
// point closest to the ray line lies within the larger of the interpolated
// curve radius and the ray footprint. Each run of consecutive inside chords is
// one crossing of the tube and is reported at its point of closest approach,
// which is the hit the kernel cone test converges to.
package reference

import (
	"math"

	"github.com/achilleasa/strands/tracer/bezier"
	"github.com/achilleasa/strands/types"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultChords is the flattening resolution used by the crosscheck tool.
const DefaultChords = 1024

type sample struct {
	p r3.Vec
	r float64
}

func toVec(v types.Vec3) r3.Vec {
	return r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}

func toVec3(v r3.Vec) types.Vec3 {
	return types.XYZ(float32(v.X), float32(v.Y), float32(v.Z))
}

// Evaluate the curve position, radius and tangent (p21-p20) at t.
func eval(prim *bezier.Primitive, t float64) (sample, r3.Vec) {
	var p [4]r3.Vec
	var r [4]float64
	for i := 0; i < 4; i++ {
		p[i] = toVec(prim.P[i].Vec3())
		r[i] = float64(prim.P[i][3])
	}

	s := 1 - t
	lerp := func(a, b r3.Vec) r3.Vec {
		return r3.Add(r3.Scale(s, a), r3.Scale(t, b))
	}
	p10, p11, p12 := lerp(p[0], p[1]), lerp(p[1], p[2]), lerp(p[2], p[3])
	p20, p21 := lerp(p10, p11), lerp(p11, p12)

	radius := s*s*s*r[0] + 3*t*s*s*r[1] + 3*t*t*s*r[2] + t*t*t*r[3]
	return sample{p: lerp(p20, p21), r: radius}, r3.Sub(p21, p20)
}

// A crossing of the ray through the curve tube.
type Crossing struct {
	// The point of closest approach between the ray and the curve axis
	// within the crossing.
	Hit bezier.Hit

	// The t interval over which the ray axis stays inside the tube.
	TEnter float32
	TExit  float32
}

// Per-chord closest approach.
type chordHit struct {
	u, t, distSq float64
}

// Find the closest hit of the ray with the curve within (ray.TNear,
// ray.TFar). The ray is not modified.
func Intersect(ray *bezier.Ray, prim *bezier.Primitive, chords int) (bezier.Hit, bool) {
	c, ok := IntersectCrossing(ray, prim, chords)
	return c.Hit, ok
}

// Find the nearest crossing of the ray through the curve tube. Consecutive
// chords whose closest approach lies inside the radius form a single
// crossing; the crossing reports the chord point closest to the ray axis.
func IntersectCrossing(ray *bezier.Ray, prim *bezier.Primitive, chords int) (Crossing, bool) {
	if chords < 1 {
		chords = DefaultChords
	}

	org, dir := toVec(ray.Org), toVec(ray.Dir)
	dirLenSq := r3.Dot(dir, dir)
	if dirLenSq == 0 {
		return Crossing{}, false
	}
	unitDir := r3.Scale(1/math.Sqrt(dirLenSq), dir)

	perp := func(v r3.Vec) r3.Vec {
		return r3.Sub(v, r3.Scale(r3.Dot(v, unitDir), unitDir))
	}

	var (
		best     Crossing
		bestT    = math.Inf(1)
		found    bool
		inRun    bool
		runBest  chordHit
		runEnter float64
		runExit  float64
	)

	// Close the current run of inside chords and keep it if it is the
	// nearest valid crossing so far.
	closeRun := func() {
		if !inRun {
			return
		}
		inRun = false

		t := runBest.t
		if !(float64(ray.TNear) < t && t < float64(ray.TFar)) || t >= bestT {
			return
		}
		_, tangent := eval(prim, runBest.u)
		if r3.Norm2(tangent) == 0 {
			return
		}

		bestT, found = t, true
		best = Crossing{
			Hit: bezier.Hit{
				U:      float32(runBest.u),
				T:      float32(t),
				Ng:     toVec3(tangent),
				GeomID: prim.GeomID,
				PrimID: prim.PrimID,
			},
			TEnter: float32(runEnter),
			TExit:  float32(runExit),
		}
	}

	prev, _ := eval(prim, 0)
	for k := 0; k < chords; k++ {
		next, _ := eval(prim, float64(k+1)/float64(chords))

		w := r3.Sub(prev.p, org)
		e := r3.Sub(next.p, prev.p)
		wPerp, ePerp := perp(w), perp(e)

		var u float64
		if den := r3.Dot(ePerp, ePerp); den > 0 {
			u = math.Max(0, math.Min(1, -r3.Dot(wPerp, ePerp)/den))
		}

		closest := r3.Add(w, r3.Scale(u, e))
		t := r3.Dot(closest, dir) / dirLenSq
		distSq := r3.Norm2(perp(closest))

		radius := prev.r + u*(next.r-prev.r)
		if fp := float64(ray.OrgRadius) + float64(ray.Spread)*t; fp > radius {
			radius = fp
		}

		if distSq <= radius*radius {
			ch := chordHit{u: (float64(k) + u) / float64(chords), t: t, distSq: distSq}
			if !inRun {
				inRun = true
				runBest = ch
				runEnter, runExit = t, t
			} else if distSq < runBest.distSq {
				runBest = ch
			}
			runEnter = math.Min(runEnter, t)
			runExit = math.Max(runExit, t)
		} else {
			closeRun()
		}

		prev = next
	}
	closeRun()

	return best, found
}
