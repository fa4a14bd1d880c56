package renderer

import (
	"time"

	"github.com/achilleasa/strands/tracer/bezier"
)

type TracerStat struct {
	// The tracer id.
	Id string

	// The block height and the percentage of total frame area it represents.
	BlockH       uint32
	FramePercent float32

	// Render time for assigned block
	RenderTime time.Duration

	// Traced rays for assigned block.
	PrimaryRays uint64
	ShadowRays  uint64
}

type FrameStats struct {
	// Individual tracer stats.
	Tracers []TracerStat

	// Curve kernel counters summed over all tracers.
	Kernel bezier.StatsSnapshot

	// Number of pixels whose primary ray hit a curve.
	CoveredPixels int

	// Total render time for entire frame.
	RenderTime time.Duration
}
