package bezier

import (
	"fmt"

	"github.com/achilleasa/strands/types"
)

// A span of a cubic bezier curve. The span covers the [T0, T1] sub-interval of
// the original curve and can be subdivided Depth more times.
type Segment struct {
	V [4]types.Vec4

	T0, T1 float32
	Depth  int
}

// Split the segment at its parametric midpoint using one de Casteljau step.
// The children reproduce the parent curve exactly.
func (s *Segment) Subdivide() (left, right Segment) {
	p10 := s.V[0].Mid(s.V[1])
	p11 := s.V[1].Mid(s.V[2])
	p12 := s.V[2].Mid(s.V[3])
	p20 := p10.Mid(p11)
	p21 := p11.Mid(p12)
	p30 := p20.Mid(p21)

	tMid := (s.T0 + s.T1) * 0.5

	left = Segment{
		V:     [4]types.Vec4{s.V[0], p10, p20, p30},
		T0:    s.T0,
		T1:    tMid,
		Depth: s.Depth - 1,
	}
	right = Segment{
		V:     [4]types.Vec4{p30, p21, p12, s.V[3]},
		T0:    tMid,
		T1:    s.T1,
		Depth: s.Depth - 1,
	}
	return left, right
}

// Evaluate the segment position and unnormalized tangent at local parameter t.
func (s *Segment) Eval(t float32) (point, tangent types.Vec3) {
	p00, p01, p02, p03 := s.V[0].Vec3(), s.V[1].Vec3(), s.V[2].Vec3(), s.V[3].Vec3()
	t0, t1 := 1-t, t

	p10 := p00.Mul(t0).Add(p01.Mul(t1))
	p11 := p01.Mul(t0).Add(p02.Mul(t1))
	p12 := p02.Mul(t0).Add(p03.Mul(t1))
	p20 := p10.Mul(t0).Add(p11.Mul(t1))
	p21 := p11.Mul(t0).Add(p12.Mul(t1))

	return p20.Mul(t0).Add(p21.Mul(t1)), p21.Sub(p20)
}

// Evaluate the segment (position and radius) at every parameter sampled by
// the basis.
func (s *Segment) EvalBatch(b *Basis) [BatchWidth]types.Vec4 {
	var out [BatchWidth]types.Vec4
	for i := 0; i < BatchWidth; i++ {
		out[i] = s.V[0].Mul(b[0][i]).
			Add(s.V[1].Mul(b[1][i])).
			Add(s.V[2].Mul(b[2][i])).
			Add(s.V[3].Mul(b[3][i]))
	}
	return out
}

// Get the maximum control point radius.
func (s *Segment) maxRadius() float32 {
	r := s.V[0][3]
	for i := 1; i < 4; i++ {
		if s.V[i][3] > r {
			r = s.V[i][3]
		}
	}
	return r
}

// Get the union of the control point bounds enlarged by the maximum control
// point radius. By the convex hull property the box contains the swept curve.
func (s *Segment) Bounds() types.BBox {
	b := types.EmptyBBox()
	for i := 0; i < 4; i++ {
		b = b.Extend(s.V[i].Vec3())
	}
	return b.Enlarge(s.maxRadius())
}

// Check whether the xy footprint of a ray-space segment, enlarged by the
// curve radius or the ray footprint (whichever is larger), contains the
// origin; i.e. whether the ray axis may pass within the swept curve.
func (s *Segment) overlapsRayAxis(ray *Ray) bool {
	b := types.EmptyBBox()
	for i := 0; i < 4; i++ {
		b = b.Extend(s.V[i].Vec3())
	}

	r := s.maxRadius()
	if fp := footprint(ray, b[0][2]); fp > r {
		r = fp
	}
	if fp := footprint(ray, b[1][2]); fp > r {
		r = fp
	}

	return b[0][0]-r <= 0 && b[0][1]-r <= 0 && 0 <= b[1][0]+r && 0 <= b[1][1]+r
}

func (s Segment) String() string {
	return fmt.Sprintf("{ v0 = %v, v1 = %v, v2 = %v, v3 = %v, t = [%g, %g], depth = %d }", s.V[0], s.V[1], s.V[2], s.V[3], s.T0, s.T1, s.Depth)
}
