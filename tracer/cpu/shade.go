package cpu

import (
	"math"

	"github.com/achilleasa/strands/tracer/bezier"
	"github.com/achilleasa/strands/types"
)

// Offset applied to shadow ray origins (relative to the hit distance) to
// avoid self-intersection with the strand that spawned them.
const shadowBias = 1e-3

// Shading options.
type ShadingOptions struct {
	// Direction towards the light. It does not need to be normalized.
	LightDir types.Vec3

	// Trace shadow rays towards the light.
	Shadows bool

	// Strand and background colors (linear RGB in [0, 1]).
	HairColor  types.Vec3
	Background types.Vec3

	// Ambient, diffuse and specular weights.
	Ambient  float32
	Diffuse  float32
	Specular float32

	// Specular lobe exponent.
	Shininess float32
}

// Get the default shading options.
func DefaultShadingOptions() ShadingOptions {
	return ShadingOptions{
		LightDir:   types.XYZ(0.4, 0.8, 0.6),
		Shadows:    true,
		HairColor:  types.XYZ(0.55, 0.35, 0.2),
		Background: types.XYZ(0.08, 0.08, 0.1),
		Ambient:    0.15,
		Diffuse:    0.75,
		Specular:   0.35,
		Shininess:  40,
	}
}

type shadeResult struct {
	color types.Vec3

	// Distance to the hit point or +Inf for a miss.
	depth float32

	shadowRays uint64
}

// Shade a primary ray using the Kajiya-Kay hair model.
func (tr *cpuTracer) shade(trav *traversal, ray *bezier.Ray) shadeResult {
	opts := &tr.opts.Shading
	if !trav.intersect(ray) {
		return shadeResult{color: opts.Background, depth: float32(math.Inf(1))}
	}

	res := shadeResult{depth: ray.TFar * ray.Dir.Len()}

	tangent := ray.Ng.Normalize()
	light := opts.LightDir.Normalize()
	view := ray.Dir.Mul(-1).Normalize()

	// Light visibility
	var visibility float32 = 1
	if opts.Shadows {
		res.shadowRays++
		hitPoint := ray.At(ray.TFar)
		shadowRay := bezier.NewRay(hitPoint, light)
		shadowRay.TNear = shadowBias * (1 + res.depth)
		tr.shadowFilter.reset(ray.GeomID, ray.PrimID)
		if trav.occluded(&shadowRay, &tr.shadowFilter) {
			visibility = 0
		}
	}

	tl := tangent.Dot(light)
	tv := tangent.Dot(view)
	sinTL := sinFromCos(tl)
	sinTV := sinFromCos(tv)

	diffuse := opts.Diffuse * sinTL
	specular := opts.Specular * float32(math.Pow(math.Max(0, float64(tl*tv+sinTL*sinTV)), float64(opts.Shininess)))

	intensity := opts.Ambient + visibility*diffuse
	res.color = opts.HairColor.Mul(intensity).Add(types.XYZ(1, 1, 1).Mul(visibility * specular))
	return res
}

func sinFromCos(c float32) float32 {
	return float32(math.Sqrt(math.Max(0, 1-float64(c*c))))
}

// Convert a linear color component to an 8-bit sRGB value.
func toSRGB8(v float32) uint8 {
	if v <= 0 {
		return 0
	} else if v >= 1 {
		return 255
	}

	var s float64
	if v <= 0.0031308 {
		s = 12.92 * float64(v)
	} else {
		s = 1.055*math.Pow(float64(v), 1/2.4) - 0.055
	}
	return uint8(math.Round(s * 255))
}
