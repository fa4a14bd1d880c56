package input

import (
	"errors"
	"fmt"

	"github.com/achilleasa/strands/types"
)

var (
	ErrInvalidStrand = errors.New("input: strand control point count must be 3k+1 with k >= 1")
	ErrInvalidRadius = errors.New("input: strand radius must be non-negative")
)

// A strand is a piecewise cubic bezier curve. Consecutive spans share their
// end points so a strand with k spans stores 3k+1 control points. The w
// component of each control point holds the strand radius at that point.
type Strand struct {
	Points []types.Vec4
}

// Get the number of cubic spans in the strand.
func (s *Strand) Spans() int {
	if len(s.Points) < 4 {
		return 0
	}
	return (len(s.Points) - 1) / 3
}

// Get the control points for a span.
func (s *Strand) Span(index int) [4]types.Vec4 {
	return [4]types.Vec4{
		s.Points[3*index],
		s.Points[3*index+1],
		s.Points[3*index+2],
		s.Points[3*index+3],
	}
}

// Validate strand layout.
func (s *Strand) Validate() error {
	if len(s.Points) < 4 || (len(s.Points)-1)%3 != 0 {
		return fmt.Errorf("%w (got %d points)", ErrInvalidStrand, len(s.Points))
	}
	for index, p := range s.Points {
		if p[3] < 0 {
			return fmt.Errorf("%w (point %d: %f)", ErrInvalidRadius, index, p[3])
		}
	}
	return nil
}

// A geometry is a named group of strands.
type Geometry struct {
	Name    string
	Strands []*Strand

	// The fraction of shadow rays blocked by this geometry. A value of 1
	// makes the strands fully opaque.
	Opacity float32

	bbox            [2]types.Vec3
	bboxNeedsUpdate bool
}

// Create a new geometry.
func NewGeometry(name string) *Geometry {
	return &Geometry{
		Name:            name,
		Strands:         make([]*Strand, 0),
		Opacity:         1,
		bboxNeedsUpdate: true,
	}
}

// Append a strand to the geometry.
func (g *Geometry) AddStrand(points ...types.Vec4) *Strand {
	s := &Strand{Points: points}
	g.Strands = append(g.Strands, s)
	g.bboxNeedsUpdate = true
	return s
}

// Get the number of cubic spans in all geometry strands.
func (g *Geometry) Spans() int {
	total := 0
	for _, s := range g.Strands {
		total += s.Spans()
	}
	return total
}

// Get the geometry AABB. The box is enlarged by the control point radii.
func (g *Geometry) BBox() [2]types.Vec3 {
	if !g.bboxNeedsUpdate {
		return g.bbox
	}

	bbox := types.EmptyBBox()
	for _, s := range g.Strands {
		for _, p := range s.Points {
			r := types.XYZ(p[3], p[3], p[3])
			bbox = bbox.Extend(p.Vec3().Sub(r)).Extend(p.Vec3().Add(r))
		}
	}
	g.bbox = bbox
	g.bboxNeedsUpdate = false
	return g.bbox
}

// Camera settings.
type Camera struct {
	FOV  float32
	Eye  types.Vec3
	Look types.Vec3
	Up   types.Vec3
}

// The scene contains all elements that are processed and optimized by the scene compiler.
type Scene struct {
	Geometries []*Geometry
	Camera     *Camera
}

// Create a new scene.
func NewScene() *Scene {
	return &Scene{
		Geometries: make([]*Geometry, 0),
		Camera: &Camera{
			FOV:  45.0,
			Eye:  types.Vec3{0, 0, 0},
			Look: types.Vec3{0, 0, -1},
			Up:   types.Vec3{0, 1, 0},
		},
	}
}
