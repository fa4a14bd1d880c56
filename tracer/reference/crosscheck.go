package reference

import (
	"math"
	"math/rand"

	"github.com/achilleasa/strands/tracer/bezier"
	"github.com/achilleasa/strands/types"
)

type CrossCheckOptions struct {
	// Number of rays to fire.
	Rays int

	// Seed for the ray generator.
	Seed int64

	// Reference flattening resolution.
	Chords int

	// Rays pass the curve axis at a random distance of up to Spread times
	// the curve radius.
	Spread float32

	// Relative slack applied to the reference crossing interval when
	// checking strategy hit distances.
	Tolerance float32
}

// Get the default cross-check options.
func DefaultCrossCheckOptions() CrossCheckOptions {
	return CrossCheckOptions{
		Rays:      10000,
		Seed:      1,
		Chords:    DefaultChords,
		Spread:    2,
		Tolerance: 1e-2,
	}
}

// Agreement between a strategy and the reference intersector.
type Report struct {
	Strategy string

	Rays    int
	RefHits int
	Hits    int

	// Rays where only the strategy or only the reference reported a hit.
	FalseHits   int
	FalseMisses int

	// Rays where both hit but the strategy hit distance lies outside the
	// reference crossing interval.
	TMismatches int

	// Largest relative t error and absolute u error against the reference
	// point of closest approach over rays that both hit.
	MaxTErr float32
	MaxUErr float32
}

// Fraction of rays that disagree with the reference.
func (r Report) MismatchRatio() float32 {
	if r.Rays == 0 {
		return 0
	}
	return float32(r.FalseHits+r.FalseMisses+r.TMismatches) / float32(r.Rays)
}

type shot struct {
	ray  bezier.Ray
	prim *bezier.Primitive
}

// Fire random rays that pass close to random points of random primitives and
// compare each intersector with the reference. One report is returned per
// intersector in the same order.
func CrossCheck(prims []bezier.Primitive, isects []bezier.Intersector, opts CrossCheckOptions) []Report {
	if opts.Chords <= 0 {
		opts.Chords = DefaultChords
	}

	reports := make([]Report, len(isects))
	for i, isect := range isects {
		reports[i].Strategy = isect.Name()
	}
	if len(prims) == 0 {
		return reports
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	for n := 0; n < opts.Rays; n++ {
		p := randomShot(rng, prims, opts.Spread)
		ref, refOK := IntersectCrossing(&p.ray, p.prim, opts.Chords)
		refHit := ref.Hit

		for i, isect := range isects {
			rep := &reports[i]
			rep.Rays++
			if refOK {
				rep.RefHits++
			}

			ray := p.ray
			pre := bezier.NewPrecalculations(&ray)
			isect.Intersect(&pre, &ray, p.prim, nil)

			ok := ray.HasHit()
			if ok {
				rep.Hits++
			}

			switch {
			case ok && !refOK:
				rep.FalseHits++
			case !ok && refOK:
				rep.FalseMisses++
			case ok && refOK:
				tErr := float32(math.Abs(float64(ray.TFar-refHit.T))) / float32(math.Max(float64(refHit.T), 1e-6))
				uErr := float32(math.Abs(float64(ray.U - refHit.U)))
				if tErr > rep.MaxTErr {
					rep.MaxTErr = tErr
				}
				if uErr > rep.MaxUErr {
					rep.MaxUErr = uErr
				}
				slack := opts.Tolerance * refHit.T
				if ray.TFar < ref.TEnter-slack || ray.TFar > ref.TExit+slack {
					rep.TMismatches++
				}
			}
		}
	}

	return reports
}

func randomShot(rng *rand.Rand, prims []bezier.Primitive, spread float32) shot {
	prim := &prims[rng.Intn(len(prims))]

	u := 0.05 + 0.9*rng.Float32()
	target, _ := prim.Eval(u)
	radius := prim.P[0][3] + u*(prim.P[3][3]-prim.P[0][3])

	dir := randomUnit(rng)
	side := dir.Cross(randomUnit(rng))
	if side.Len() > 0 {
		target = target.Add(side.Normalize().Mul(spread * radius * rng.Float32()))
	}

	dist := 1 + 9*rng.Float32()
	return shot{
		ray:  bezier.NewRay(target.Sub(dir.Mul(dist)), dir),
		prim: prim,
	}
}

func randomUnit(rng *rand.Rand) types.Vec3 {
	for {
		v := types.XYZ(2*rng.Float32()-1, 2*rng.Float32()-1, 2*rng.Float32()-1)
		if l := v.Len(); l > 1e-3 && l <= 1 {
			return v.Mul(1 / l)
		}
	}
}
