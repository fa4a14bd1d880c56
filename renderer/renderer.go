package renderer

import (
	"fmt"
	"image"
	"math"
	"runtime"
	"time"

	"github.com/achilleasa/strands/asset/scene"
	"github.com/achilleasa/strands/log"
	"github.com/achilleasa/strands/tracer"
	"github.com/achilleasa/strands/tracer/cpu"
)

type Renderer interface {
	// Render frame.
	Render() error

	// Get the last rendered frame.
	Frame() *image.RGBA

	// Get the per-pixel hit distance of the last rendered frame. Pixels
	// that did not hit any curve are set to +Inf.
	Depth() []float32

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats
}

// The default renderer splits each frame into blocks that are rendered in
// parallel by a pool of cpu tracers.
type defaultRenderer struct {
	logger log.Logger

	scene     *scene.Scene
	tracers   []tracer.Tracer
	scheduler tracer.BlockScheduler
	options   Options

	frame *image.RGBA
	depth []float32

	stats FrameStats

	// Channels for receiving tracer block completion and errors.
	doneChan chan uint32
	errChan  chan error
}

// Create a new default renderer using the specified block scheduler.
func NewDefault(sc *scene.Scene, scheduler tracer.BlockScheduler, opts Options) (Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return nil, ErrInvalidFrameSize
	}

	numTracers := opts.NumTracers
	if numTracers <= 0 {
		numTracers = runtime.NumCPU()
	}

	r := &defaultRenderer{
		logger:    log.New("renderer"),
		scene:     sc,
		scheduler: scheduler,
		options:   opts,
		frame:     image.NewRGBA(image.Rect(0, 0, int(opts.FrameW), int(opts.FrameH))),
		depth:     make([]float32, opts.FrameW*opts.FrameH),
		doneChan:  make(chan uint32, numTracers),
		errChan:   make(chan error, numTracers),
	}

	// Setup projection for the frame aspect ratio
	sc.Camera.SetupProjection(float32(opts.FrameW) / float32(opts.FrameH))

	for i := 0; i < numTracers; i++ {
		tr, err := cpu.NewTracer(
			fmt.Sprintf("cpu-%d", i),
			cpu.Options{
				Strategy:    opts.Strategy,
				Depth:       opts.Depth,
				NoFootprint: opts.NoFootprint,
				Shading:     opts.Shading,
			},
		)
		if err != nil {
			r.Close()
			return nil, err
		}

		err = tr.Setup(opts.FrameW, opts.FrameH, r.frame.Pix, r.depth)
		if err != nil {
			tr.Close()
			r.Close()
			return nil, err
		}

		tr.AppendChange(tracer.SetScene, sc)
		tr.AppendChange(tracer.UpdateCamera, sc.Camera)
		r.tracers = append(r.tracers, tr)
	}

	r.logger.Infof("attached %d cpu tracers (strategy: %s)", len(r.tracers), opts.Strategy)
	return r, nil
}

// Render frame.
func (r *defaultRenderer) Render() error {
	if len(r.tracers) == 0 {
		return ErrNoTracers
	}

	start := time.Now()
	blockAssignments := r.scheduler.Schedule(r.tracers, r.options.FrameH)

	var blockY uint32 = 0
	pending := 0
	for idx, tr := range r.tracers {
		if blockAssignments[idx] == 0 {
			continue
		}

		tr.Enqueue(tracer.BlockRequest{
			BlockY:   blockY,
			BlockH:   blockAssignments[idx],
			DoneChan: r.doneChan,
			ErrChan:  r.errChan,
		})
		blockY += blockAssignments[idx]
		pending++
	}

	// Wait for all tracers to report back even if one of them fails
	var err error
	for ; pending > 0; pending-- {
		select {
		case <-r.doneChan:
		case blockErr := <-r.errChan:
			if err == nil {
				err = blockErr
			}
		}
	}
	if err != nil {
		return err
	}

	r.updateStats(blockAssignments, time.Since(start))
	return nil
}

// Get the last rendered frame.
func (r *defaultRenderer) Frame() *image.RGBA {
	return r.frame
}

// Get the depth buffer for the last rendered frame.
func (r *defaultRenderer) Depth() []float32 {
	return r.depth
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}

// Get render statistics.
func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}

func (r *defaultRenderer) updateStats(blockAssignments []uint32, renderTime time.Duration) {
	r.stats = FrameStats{
		Tracers:    make([]TracerStat, 0, len(r.tracers)),
		RenderTime: renderTime,
	}

	for idx, tr := range r.tracers {
		if blockAssignments[idx] == 0 {
			continue
		}
		trStats := tr.Stats()
		r.stats.Tracers = append(r.stats.Tracers, TracerStat{
			Id:           tr.Id(),
			BlockH:       trStats.BlockH,
			FramePercent: 100.0 * float32(trStats.BlockH) / float32(r.options.FrameH),
			RenderTime:   trStats.RenderTime,
			PrimaryRays:  trStats.PrimaryRays,
			ShadowRays:   trStats.ShadowRays,
		})
		r.stats.Kernel = r.stats.Kernel.Add(trStats.Kernel)
	}

	for _, d := range r.depth {
		if !math.IsInf(float64(d), 1) {
			r.stats.CoveredPixels++
		}
	}
}
