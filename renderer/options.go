package renderer

import "github.com/achilleasa/strands/tracer/cpu"

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of cpu tracers. A value of 0 starts one tracer per cpu.
	NumTracers int

	// Curve intersection strategy and recursion depth.
	Strategy string
	Depth    int

	// Disable ray footprint widening for primary rays.
	NoFootprint bool

	// Shading options passed to each tracer.
	Shading cpu.ShadingOptions
}
