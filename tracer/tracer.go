package tracer

import (
	"time"

	"github.com/achilleasa/strands/tracer/bezier"
)

type ChangeType uint8

const (
	SetScene ChangeType = iota
	UpdateCamera
)

func (ct ChangeType) String() string {
	switch ct {
	case SetScene:
		return "set scene"
	case UpdateCamera:
		return "update camera"
	}
	return "unknown"
}

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics.
type Stats struct {
	// The rendered block height
	BlockH uint32

	// The time for rendering the last block.
	RenderTime time.Duration

	// The time for applying pending changes before the last block.
	UpdateTime time.Duration

	// Traced ray counts for the last block.
	PrimaryRays uint64
	ShadowRays  uint64

	// Curve kernel counters for the last block.
	Kernel bezier.StatsSnapshot
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Shutdown and cleanup tracer.
	Close()

	// Get the tracers computation speed estimate compared to a
	// baseline implementation.
	SpeedEstimate() float32

	// Setup the tracer. The frame buffer stores RGBA8 pixels and the depth
	// buffer stores the hit distance for each pixel. Both buffers are
	// shared between tracers which only ever write to their assigned rows.
	Setup(frameW, frameH uint32, frameBuffer []uint8, depthBuffer []float32) error

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Append a change to the tracer's update buffer.
	AppendChange(ChangeType, interface{})

	// Apply all pending changes from the update buffer.
	ApplyPendingChanges() error

	// Retrieve last frame statistics.
	Stats() *Stats
}
