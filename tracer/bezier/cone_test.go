package bezier

import (
	"math"
	"testing"

	"github.com/achilleasa/strands/types"
)

func TestConeTest(t *testing.T) {
	type spec struct {
		p0, p1     types.Vec4
		orgRadius  float32
		spread     float32
		tnear      float32
		tfar       float32
		expOk      bool
		expU, expT float32
	}
	inf := float32(math.Inf(1))
	specs := []spec{
		// ray axis crosses the segment center
		{types.XYZW(-1, 0, 5, 0.1), types.XYZW(1, 0, 5, 0.1), 0, 0, 0, inf, true, 0.5, 5},
		// within radius
		{types.XYZW(-1, 0.05, 5, 0.1), types.XYZW(1, 0.05, 5, 0.1), 0, 0, 0, inf, true, 0.5, 5},
		// outside radius
		{types.XYZW(-1, 0.2, 5, 0.1), types.XYZW(1, 0.2, 5, 0.1), 0, 0, 0, inf, false, 0.5, 5},
		// outside radius but inside the ray footprint (0.1 + 0.05*5)
		{types.XYZW(-1, 0.2, 5, 0.1), types.XYZW(1, 0.2, 5, 0.1), 0.1, 0.05, 0, inf, true, 0.5, 5},
		// tapered radius interpolated at the closest point
		{types.XYZW(-1, 0.15, 4, 0.0), types.XYZW(1, 0.15, 6, 0.4), 0, 0, 0, inf, true, 0.5, 5},
		{types.XYZW(-1, 0.25, 4, 0.0), types.XYZW(1, 0.25, 6, 0.4), 0, 0, 0, inf, false, 0.5, 5},
		// t interval is open on both ends
		{types.XYZW(-1, 0, 5, 0.1), types.XYZW(1, 0, 5, 0.1), 0, 0, 5, inf, false, 0.5, 5},
		{types.XYZW(-1, 0, 5, 0.1), types.XYZW(1, 0, 5, 0.1), 0, 0, 0, 5, false, 0.5, 5},
		// behind the ray origin
		{types.XYZW(-1, 0, -5, 0.1), types.XYZW(1, 0, -5, 0.1), 0, 0, 0, inf, false, 0.5, -5},
		// projection clamped to the segment start
		{types.XYZW(1, 0, 3, 1.5), types.XYZW(2, 0, 4, 1.5), 0, 0, 0, inf, true, 0, 3},
		{types.XYZW(1, 0, 3, 0.5), types.XYZW(2, 0, 4, 0.5), 0, 0, 0, inf, false, 0, 3},
		// projection clamped to the segment end
		{types.XYZW(-2, 0, 3, 1.5), types.XYZW(-1, 0, 4, 1.5), 0, 0, 0, inf, true, 1, 4},
		// zero-length footprint
		{types.XYZW(0, 0, 5, 0.1), types.XYZW(0, 0, 7, 0.1), 0, 0, 0, inf, true, 0, 5},
	}

	for index, s := range specs {
		ray := NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, 1))
		ray.OrgRadius, ray.Spread = s.orgRadius, s.spread
		ray.TNear, ray.TFar = s.tnear, s.tfar

		u, tt, ok := coneTest(s.p0, s.p1, &ray, ray.TFar)
		if ok != s.expOk {
			t.Fatalf("[spec %d] expected ok to be %t; got %t", index, s.expOk, ok)
		}
		if math.Abs(float64(u-s.expU)) > 1e-5 || math.Abs(float64(tt-s.expT)) > 1e-5 {
			t.Fatalf("[spec %d] expected u=%f, t=%f; got u=%f, t=%f", index, s.expU, s.expT, u, tt)
		}
	}
}
