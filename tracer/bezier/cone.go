package bezier

import "github.com/achilleasa/strands/types"

// Get the ray footprint radius at parameter t.
func footprint(ray *Ray, t float32) float32 {
	return ray.OrgRadius + ray.Spread*t
}

// Approximate intersection of the ray axis with the cone frustum spanned by
// the ray-space points p0 and p1 (radii in w).
//
// The origin is projected onto the segment in the xy plane; the projection
// parameter u is clamped to the segment and the z of the resulting point is
// the candidate hit distance t. The hit is valid if the point lies within the
// larger of the interpolated curve radius and the ray footprint and t lies
// inside (ray.TNear, tfar).
func coneTest(p0, p1 types.Vec4, ray *Ray, tfar float32) (u, t float32, ok bool) {
	v := p1.Sub(p0)
	d0 := -p0[0]*v[0] - p0[1]*v[1]
	d1 := v[0]*v[0] + v[1]*v[1]

	if d1 > 0 {
		u = d0 / d1
		if u < 0 {
			u = 0
		} else if u > 1 {
			u = 1
		}
	}

	p := p0.Add(v.Mul(u))
	t = p[2]
	d2 := p[0]*p[0] + p[1]*p[1]

	r := p[3]
	if fp := footprint(ray, t); fp > r {
		r = fp
	}

	ok = d2 <= r*r && ray.TNear < t && t < tfar
	return u, t, ok
}
