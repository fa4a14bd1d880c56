package bezier

import "github.com/achilleasa/strands/types"

// Per-ray data shared by all curve tests of that ray.
type Precalculations struct {
	// Maps world-space offsets from the ray origin into a space where the
	// ray runs along +z through the origin and z equals the ray parameter.
	RaySpace types.Mat3
}

// Prepare the ray-space transform for a ray. The result only depends on the
// ray direction.
func NewPrecalculations(ray *Ray) Precalculations {
	return Precalculations{
		RaySpace: types.Frame(ray.Dir).Inv(),
	}
}

// Transform a world-space point into ray space. The radius in w is copied.
func (pre *Precalculations) xfm(ray *Ray, p types.Vec4) types.Vec4 {
	return pre.RaySpace.Mul3x1(p.Vec3().Sub(ray.Org)).Vec4(p[3])
}

// Transform the curve control points into ray space and wrap them in a
// segment spanning the whole curve.
func (pre *Precalculations) ToRaySpace(ray *Ray, prim *Primitive, depth int) Segment {
	return Segment{
		V: [4]types.Vec4{
			pre.xfm(ray, prim.P[0]),
			pre.xfm(ray, prim.P[1]),
			pre.xfm(ray, prim.P[2]),
			pre.xfm(ray, prim.P[3]),
		},
		T0:    0,
		T1:    1,
		Depth: depth,
	}
}
