package reference

import (
	"math"
	"testing"

	"github.com/achilleasa/strands/tracer/bezier"
	"github.com/achilleasa/strands/types"
)

func TestStraightCurve(t *testing.T) {
	prim := bezier.NewPrimitive(
		types.XYZW(-1, 0, 5, 0.1),
		types.XYZW(-1.0/3.0, 0, 5, 0.1),
		types.XYZW(1.0/3.0, 0, 5, 0.1),
		types.XYZW(1, 0, 5, 0.1),
		0, 0,
	)

	type spec struct {
		org, dir types.Vec3
		expHit   bool
		expT     float32
		expU     float32
	}
	specs := []spec{
		{types.XYZ(0, 0, 0), types.XYZ(0, 0, 1), true, 5, 0.5},
		{types.XYZ(0.5, 0, 0), types.XYZ(0, 0, 2), true, 2.5, 0.75},
		{types.XYZ(0, 0.05, 0), types.XYZ(0, 0, 1), true, 5, 0.5},
		{types.XYZ(0, 0.5, 0), types.XYZ(0, 0, 1), false, 0, 0},
		{types.XYZ(0, 0, 0), types.XYZ(0, 0, -1), false, 0, 0},
	}

	for index, s := range specs {
		ray := bezier.NewRay(s.org, s.dir)
		hit, ok := Intersect(&ray, &prim, 0)
		if ok != s.expHit {
			t.Fatalf("[spec %d] expected hit: %t; got %t", index, s.expHit, ok)
		}
		if !ok {
			continue
		}
		if math.Abs(float64(hit.T-s.expT)) > 1e-4 || math.Abs(float64(hit.U-s.expU)) > 1e-4 {
			t.Fatalf("[spec %d] expected t=%f, u=%f; got t=%f, u=%f", index, s.expT, s.expU, hit.T, hit.U)
		}
	}
}

func TestDegenerateCurve(t *testing.T) {
	p := types.XYZW(0, 0, 5, 0.5)
	prim := bezier.NewPrimitive(p, p, p, p, 0, 0)
	ray := bezier.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, 1))

	if _, ok := Intersect(&ray, &prim, 64); ok {
		t.Fatal("expected degenerate curve not to produce a hit")
	}
}

func TestObliqueCrossing(t *testing.T) {
	prim := bezier.NewPrimitive(
		types.XYZW(-1, 0, 5, 0.1),
		types.XYZW(-1.0/3.0, 0, 5, 0.1),
		types.XYZW(1.0/3.0, 0, 5, 0.1),
		types.XYZW(1, 0, 5, 0.1),
		0, 0,
	)

	// The ray crosses the axis at 45 degrees through (0, 0, 5) and stays
	// inside the tube for x in [-0.1414, 0.1414].
	ray := bezier.NewRay(types.XYZ(-5, 0, 0), types.XYZ(1, 0, 1))
	c, ok := IntersectCrossing(&ray, &prim, 1024)
	if !ok {
		t.Fatal("expected oblique ray to cross the curve")
	}
	if math.Abs(float64(c.Hit.T-5)) > 1e-3 || math.Abs(float64(c.Hit.U-0.5)) > 1e-3 {
		t.Fatalf("expected closest approach at t=5, u=0.5; got t=%f, u=%f", c.Hit.T, c.Hit.U)
	}
	if math.Abs(float64(c.TEnter-4.929)) > 2e-3 || math.Abs(float64(c.TExit-5.071)) > 2e-3 {
		t.Fatalf("expected crossing interval [4.929, 5.071]; got [%f, %f]", c.TEnter, c.TExit)
	}

	hit, _ := Intersect(&ray, &prim, 1024)
	if hit != c.Hit {
		t.Fatalf("expected Intersect to report the crossing hit %+v; got %+v", c.Hit, hit)
	}
}

func TestNearestCrossingWins(t *testing.T) {
	// Crosses the z axis near t=0.13 (z~2.2) and t=0.87 (z~5.8).
	prim := bezier.NewPrimitive(
		types.XYZW(-1, 0, 2, 0.1),
		types.XYZW(2, 0, 2, 0.1),
		types.XYZW(2, 0, 6, 0.1),
		types.XYZW(-1, 0, 6, 0.1),
		0, 0,
	)

	type spec struct {
		tnear      float32
		expT, expU float32
	}
	specs := []spec{
		{0, 2.2, 0.13},
		{4, 5.8, 0.87},
	}

	for index, s := range specs {
		ray := bezier.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, 1))
		ray.TNear = s.tnear
		c, ok := IntersectCrossing(&ray, &prim, 1024)
		if !ok {
			t.Fatalf("[spec %d] expected a crossing", index)
		}
		if math.Abs(float64(c.Hit.T-s.expT)) > 0.1 || math.Abs(float64(c.Hit.U-s.expU)) > 0.02 {
			t.Fatalf("[spec %d] expected crossing near t=%f, u=%f; got t=%f, u=%f", index, s.expT, s.expU, c.Hit.T, c.Hit.U)
		}
		if c.TEnter > c.Hit.T || c.TExit < c.Hit.T {
			t.Fatalf("[spec %d] expected t=%f inside crossing interval [%f, %f]", index, c.Hit.T, c.TEnter, c.TExit)
		}
	}
}
