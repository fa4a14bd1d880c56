package bezier

import "github.com/achilleasa/strands/types"

// A cubic bezier curve primitive. Each control point stores its position in
// the xyz components and the curve radius at that point in w.
type Primitive struct {
	P [4]types.Vec4

	GeomID uint32
	PrimID uint32
}

// Create a curve primitive from 4 control points with per-point radii.
func NewPrimitive(p0, p1, p2, p3 types.Vec4, geomID, primID uint32) Primitive {
	return Primitive{
		P:      [4]types.Vec4{p0, p1, p2, p3},
		GeomID: geomID,
		PrimID: primID,
	}
}

// Get the world-space segment covering the whole curve at the given
// subdivision depth.
func (p *Primitive) Segment(depth int) Segment {
	return Segment{V: p.P, T0: 0, T1: 1, Depth: depth}
}

// Evaluate curve position and unnormalized tangent at t.
func (p *Primitive) Eval(t float32) (point, tangent types.Vec3) {
	seg := p.Segment(0)
	return seg.Eval(t)
}

// Get a conservative bounding box for the swept curve.
func (p *Primitive) BBox() [2]types.Vec3 {
	seg := p.Segment(0)
	return seg.Bounds()
}

// Get the curve bounding box center.
func (p *Primitive) Center() types.Vec3 {
	return types.BBox(p.BBox()).Center()
}
