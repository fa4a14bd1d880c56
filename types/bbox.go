package types

import "math"

// An axis-aligned bounding box. The zero value is not empty; use EmptyBBox
// to obtain a box that can be grown with Extend.
type BBox [2]Vec3

// Create an inverted box that contains nothing.
func EmptyBBox() BBox {
	return BBox{
		{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
}

// Grow the box so that it contains point p.
func (b BBox) Extend(p Vec3) BBox {
	return BBox{MinVec3(b[0], p), MaxVec3(b[1], p)}
}

// Merge two boxes.
func (b BBox) Union(b2 BBox) BBox {
	return BBox{MinVec3(b[0], b2[0]), MaxVec3(b[1], b2[1])}
}

// Enlarge the box by d along every axis.
func (b BBox) Enlarge(d float32) BBox {
	return BBox{b[0].Sub(XYZ(d, d, d)), b[1].Add(XYZ(d, d, d))}
}

// Get box center.
func (b BBox) Center() Vec3 {
	return b[0].Add(b[1]).Mul(0.5)
}

// Check whether the box contains p (boundary inclusive).
func (b BBox) Contains(p Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b[0][i] || p[i] > b[1][i] {
			return false
		}
	}
	return true
}
