package cpu

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/achilleasa/strands/asset/scene"
	"github.com/achilleasa/strands/log"
	"github.com/achilleasa/strands/tracer"
	"github.com/achilleasa/strands/tracer/bezier"
)

var (
	ErrNoSceneData      = errors.New("cpu tracer: no scene data")
	ErrNoCamera         = errors.New("cpu tracer: no camera defined")
	ErrAlreadySetup     = errors.New("cpu tracer: tracer already set up")
	ErrInvalidBuffers   = errors.New("cpu tracer: frame buffer size does not match frame dimensions")
	ErrBlockOutOfBounds = errors.New("cpu tracer: block exceeds frame bounds")
)

// Tracer options.
type Options struct {
	// Curve intersection strategy name and subdivision depth (recursive
	// strategy only; 0 selects the default).
	Strategy string
	Depth    int

	// Trace infinitely thin primary rays instead of widening thin curves
	// to the pixel footprint.
	NoFootprint bool

	Shading ShadingOptions
}

type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	opts Options

	// The curve intersector and its counters.
	isect       bezier.Intersector
	kernelStats *bezier.Stats

	// A buffer for queuing updates. Updates are grouped by type and
	// latest updates always overwrite the previous ones.
	updateBuffer map[tracer.ChangeType]interface{}

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last rendered block.
	stats *tracer.Stats

	// Scene data.
	sc           *scene.Scene
	camera       *scene.Camera
	trav         *traversal
	shadowFilter selfShadowFilter

	// Render targets.
	frameW      uint32
	frameH      uint32
	frameBuffer []uint8
	depthBuffer []float32
}

// Create a new cpu tracer.
func NewTracer(id string, opts Options) (tracer.Tracer, error) {
	kernelStats := &bezier.Stats{}
	isect, err := bezier.NewWithDepth(opts.Strategy, opts.Depth, kernelStats)
	if err != nil {
		return nil, err
	}

	tr := &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		opts:         opts,
		isect:        isect,
		kernelStats:  kernelStats,
		updateBuffer: make(map[tracer.ChangeType]interface{}, 0),
		blockReqChan: make(chan tracer.BlockRequest, 1),
		stats:        &tracer.Stats{},
	}

	return tr, nil
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// Get the computation speed estimate. All cpu tracers run at the baseline speed.
func (tr *cpuTracer) SpeedEstimate() float32 {
	return 1.0
}

// Attach the tracer to its render targets and start processing block requests.
func (tr *cpuTracer) Setup(frameW, frameH uint32, frameBuffer []uint8, depthBuffer []float32) error {
	tr.Lock()
	defer tr.Unlock()

	if tr.closeChan != nil {
		return ErrAlreadySetup
	}

	pixels := int(frameW) * int(frameH)
	if len(frameBuffer) != 4*pixels || len(depthBuffer) != pixels {
		return ErrInvalidBuffers
	}

	tr.frameW, tr.frameH = frameW, frameH
	tr.frameBuffer = frameBuffer
	tr.depthBuffer = depthBuffer

	tr.logger.Debugf("attached to %dx%d frame (strategy: %s)", frameW, frameH, tr.isect.Name())
	tr.startWorker()
	return nil
}

// Shutdown and cleanup tracer.
func (tr *cpuTracer) Close() {
	tr.Lock()
	closeChan := tr.closeChan
	tr.closeChan = nil
	tr.Unlock()

	// If the worker is running shut it down
	if closeChan != nil {
		closeChan <- struct{}{}

		// wait for worker to ack close and shutdown channel
		<-closeChan
		close(closeChan)
		tr.wg.Wait()
	}

	tr.Lock()
	tr.sc = nil
	tr.trav = nil
	tr.Unlock()
}

// Enqueue block request.
func (tr *cpuTracer) Enqueue(blockReq tracer.BlockRequest) {
	select {
	case tr.blockReqChan <- blockReq:
	default:
		// drop the request if worker is busy
		tr.logger.Error("request processor did not receive block request")
	}
}

// Append a change to the tracer's update buffer.
func (tr *cpuTracer) AppendChange(changeType tracer.ChangeType, data interface{}) {
	tr.Lock()
	defer tr.Unlock()
	tr.updateBuffer[changeType] = data
}

// Apply all pending changes.
func (tr *cpuTracer) ApplyPendingChanges() error {
	tr.Lock()
	defer tr.Unlock()

	var err error
	for changeType, data := range tr.updateBuffer {
		switch changeType {
		case tracer.SetScene:
			err = tr.setScene(data.(*scene.Scene))
		case tracer.UpdateCamera:
			tr.camera = data.(*scene.Camera)
		default:
			err = fmt.Errorf("cpu tracer: unsupported change type %d", changeType)
		}

		if err != nil {
			return err
		}
	}

	tr.updateBuffer = make(map[tracer.ChangeType]interface{}, 0)
	return nil
}

// Retrieve last frame statistics.
func (tr *cpuTracer) Stats() *tracer.Stats {
	return tr.stats
}

func (tr *cpuTracer) setScene(sc *scene.Scene) error {
	if sc == nil {
		return ErrNoSceneData
	}

	tr.sc = sc
	tr.trav = newTraversal(sc, tr.isect)
	tr.shadowFilter = selfShadowFilter{sc: sc}
	if tr.camera == nil {
		tr.camera = sc.Camera
	}
	return nil
}

// Spawn a go-routine to process block render requests.
func (tr *cpuTracer) startWorker() {
	// Worker already running
	if tr.closeChan != nil {
		return
	}

	closeChan := make(chan struct{}, 0)
	tr.closeChan = closeChan
	readyChan := make(chan struct{}, 0)
	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		var blockReq tracer.BlockRequest
		var startTime time.Time
		var err error
		close(readyChan)
		for {
			select {
			case blockReq = <-tr.blockReqChan:
				startTime = time.Now()

				// Apply any pending changes
				err = tr.ApplyPendingChanges()
				if err != nil {
					blockReq.ErrChan <- err
					continue
				}
				tr.stats.UpdateTime = time.Since(startTime)

				// Render block and reply with our completion status
				err = tr.renderBlock(&blockReq)
				if err != nil {
					blockReq.ErrChan <- err
					continue
				}

				// Update stats
				tr.stats.BlockH = blockReq.BlockH
				tr.stats.RenderTime = time.Since(startTime)

				blockReq.DoneChan <- blockReq.BlockH
			case <-closeChan:
				// Ack close
				closeChan <- struct{}{}
				return
			}
		}
	}()

	// Wait for go-routine to start
	<-readyChan
}

// Render block.
func (tr *cpuTracer) renderBlock(blockReq *tracer.BlockRequest) error {
	if tr.sc == nil || tr.trav == nil {
		return ErrNoSceneData
	}
	if tr.camera == nil {
		return ErrNoCamera
	}
	if blockReq.BlockY+blockReq.BlockH > tr.frameH {
		return ErrBlockOutOfBounds
	}

	kernelBefore := tr.kernelStats.Snapshot()
	tr.stats.PrimaryRays = 0
	tr.stats.ShadowRays = 0

	for y := blockReq.BlockY; y < blockReq.BlockY+blockReq.BlockH; y++ {
		for x := uint32(0); x < tr.frameW; x++ {
			ray := tr.camera.Ray(x, y, tr.frameW, tr.frameH)
			if tr.opts.NoFootprint {
				ray.OrgRadius, ray.Spread = 0, 0
			}
			res := tr.shade(tr.trav, &ray)
			tr.stats.PrimaryRays++
			tr.stats.ShadowRays += res.shadowRays

			pixel := y*tr.frameW + x
			tr.depthBuffer[pixel] = res.depth
			offset := 4 * pixel
			tr.frameBuffer[offset+0] = toSRGB8(res.color[0])
			tr.frameBuffer[offset+1] = toSRGB8(res.color[1])
			tr.frameBuffer[offset+2] = toSRGB8(res.color[2])
			tr.frameBuffer[offset+3] = 255
		}
	}

	tr.stats.Kernel = tr.kernelStats.Snapshot().Sub(kernelBefore)
	return nil
}
