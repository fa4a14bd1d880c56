package bezier

import (
	"math"

	"github.com/achilleasa/strands/types"
)

// InvalidID marks an unset geometry or primitive id in a ray hit record.
const InvalidID = ^uint32(0)

// A ray together with its hit record. The hit record (U, V, TFar, Ng, GeomID,
// PrimID) is only ever written when a closer accepted hit is found, so TFar
// never increases across intersection calls for the same ray.
type Ray struct {
	Org types.Vec3
	Dir types.Vec3

	// The ray footprint: its radius at the origin and its growth per unit
	// of t. Curves thinner than the footprint are widened to it.
	OrgRadius float32
	Spread    float32

	// The valid t interval is (TNear, TFar).
	TNear float32
	TFar  float32

	// Hit record.
	U      float32
	V      float32
	Ng     types.Vec3
	GeomID uint32
	PrimID uint32
}

// Create a new ray with an unbounded t interval and an empty hit record.
func NewRay(org, dir types.Vec3) Ray {
	return Ray{
		Org:    org,
		Dir:    dir,
		TFar:   float32(math.Inf(1)),
		GeomID: InvalidID,
		PrimID: InvalidID,
	}
}

// Point along the ray at parameter t.
func (r *Ray) At(t float32) types.Vec3 {
	return r.Org.Add(r.Dir.Mul(t))
}

// Check whether the hit record has been populated.
func (r *Ray) HasHit() bool {
	return r.GeomID != InvalidID
}

// A candidate hit as presented to filter callbacks and committed to a ray.
type Hit struct {
	// Curve parameter in [0, 1].
	U float32

	// Secondary hit coordinate. Curves do not define one so it is always 0.
	V float32

	// Ray parameter of the hit.
	T float32

	// Unnormalized curve tangent at U; used as the geometric normal.
	Ng types.Vec3

	GeomID uint32
	PrimID uint32
}

// Copy a hit into the ray hit record.
func (r *Ray) commit(hit *Hit) {
	r.U = hit.U
	r.V = hit.V
	r.TFar = hit.T
	r.Ng = hit.Ng
	r.GeomID = hit.GeomID
	r.PrimID = hit.PrimID
}
