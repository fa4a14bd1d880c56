package input

import (
	"errors"
	"math"
	"math/rand"

	"github.com/achilleasa/strands/types"
)

var ErrInvalidHairOptions = errors.New("input: invalid hair options")

// Options for the procedural hair generator.
type HairOptions struct {
	// Seed for the random number generator. The same seed always yields
	// the same scene.
	Seed int64

	// Number of strands and cubic spans per strand.
	Strands int
	Spans   int

	// Strand length and radius at the root and the tip.
	Length     float32
	RootRadius float32
	TipRadius  float32

	// Radius of the spherical scalp the strands grow from.
	ScalpRadius float32

	// Amount of downward bending applied per unit of strand length.
	Gravity float32

	// Amount of random direction jitter per control point.
	Curl float32

	// Fraction of shadow rays blocked by the strands.
	Opacity float32

	// Vertical camera field of view in degrees.
	FOV float32
}

// Get a set of options that generate a small head of hair.
func DefaultHairOptions() HairOptions {
	return HairOptions{
		Seed:        1,
		Strands:     2000,
		Spans:       4,
		Length:      1.6,
		RootRadius:  0.008,
		TipRadius:   0.002,
		ScalpRadius: 1,
		Gravity:     1.2,
		Curl:        0.15,
		Opacity:     0.6,
		FOV:         40,
	}
}

// Validate hair options.
func (o *HairOptions) Validate() error {
	switch {
	case o.Strands <= 0:
		return errors.Join(ErrInvalidHairOptions, errors.New("strand count must be positive"))
	case o.Spans <= 0:
		return errors.Join(ErrInvalidHairOptions, errors.New("span count must be positive"))
	case o.Length <= 0 || o.ScalpRadius <= 0:
		return errors.Join(ErrInvalidHairOptions, errors.New("length and scalp radius must be positive"))
	case o.RootRadius < 0 || o.TipRadius < 0:
		return errors.Join(ErrInvalidHairOptions, errors.New("radii must be non-negative"))
	case o.FOV <= 0 || o.FOV >= 180:
		return errors.Join(ErrInvalidHairOptions, errors.New("fov must be in (0, 180)"))
	}
	return nil
}

// Generate a scene containing a single hair geometry. Strand roots are
// scattered over the upper part of a sphere centered at the origin and grow
// outwards while bending towards -y. The camera looks at the sphere from +z.
func GenerateHair(opts HairOptions) (*Scene, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	geom := NewGeometry("hair")
	geom.Opacity = opts.Opacity

	numPoints := 3*opts.Spans + 1
	step := opts.Length / float32(numPoints-1)
	down := types.XYZ(0, -1, 0)

	for i := 0; i < opts.Strands; i++ {
		normal := scalpDirection(rng)
		pos := normal.Mul(opts.ScalpRadius)
		dir := normal

		points := make([]types.Vec4, numPoints)
		for p := 0; p < numPoints; p++ {
			frac := float32(p) / float32(numPoints-1)
			radius := opts.RootRadius + (opts.TipRadius-opts.RootRadius)*frac
			points[p] = pos.Vec4(radius)

			jitter := types.XYZ(
				float32(rng.NormFloat64()),
				float32(rng.NormFloat64()),
				float32(rng.NormFloat64()),
			).Mul(opts.Curl)
			dir = dir.Add(down.Mul(opts.Gravity * step)).Add(jitter).Normalize()

			// Keep strands from growing back into the scalp
			if next := pos.Add(dir.Mul(step)); next.Len() < opts.ScalpRadius {
				dir = dir.Add(next.Normalize()).Normalize()
			}
			pos = pos.Add(dir.Mul(step))
		}
		geom.AddStrand(points...)
	}

	sc := NewScene()
	sc.Geometries = append(sc.Geometries, geom)

	// Frame the whole geometry
	bbox := types.BBox(geom.BBox())
	center := bbox.Center()
	extent := bbox[1].Sub(bbox[0]).Len() * 0.5
	dist := extent / float32(math.Tan(float64(opts.FOV)*math.Pi/360.0))
	sc.Camera = &Camera{
		FOV:  opts.FOV,
		Eye:  center.Add(types.XYZ(0, 0, dist)),
		Look: center,
		Up:   types.XYZ(0, 1, 0),
	}

	return sc, nil
}

// Pick a uniformly distributed direction on the sphere cap above y = -0.2.
func scalpDirection(rng *rand.Rand) types.Vec3 {
	y := -0.2 + 1.2*rng.Float64()
	phi := 2 * math.Pi * rng.Float64()
	r := math.Sqrt(1 - y*y)
	sin, cos := math.Sincos(phi)
	return types.XYZ(float32(r*cos), float32(y), float32(r*sin))
}
