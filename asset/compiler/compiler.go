package compiler

import (
	"errors"
	"fmt"
	"time"

	"github.com/achilleasa/strands/asset/compiler/bvh"
	"github.com/achilleasa/strands/asset/compiler/input"
	"github.com/achilleasa/strands/asset/scene"
	"github.com/achilleasa/strands/log"
	"github.com/achilleasa/strands/tracer/bezier"
)

const (
	minPrimitivesPerLeaf = 4
)

var (
	ErrNoGeometry = errors.New("compiler: scene contains no curve primitives")
	ErrNoCamera   = errors.New("compiler: scene does not define a camera")
)

type sceneCompiler struct {
	parsedScene    *input.Scene
	optimizedScene *scene.Scene
	logger         log.Logger

	// Curve primitives in strand order before partitioning.
	primitives []bezier.Primitive
}

// Compile a raw strand scene into an optimized scene with a BVH over all
// curve primitives.
func Compile(parsedScene *input.Scene) (*scene.Scene, error) {
	compiler := &sceneCompiler{
		parsedScene:    parsedScene,
		optimizedScene: &scene.Scene{},
		logger:         log.New("scene compiler"),
	}

	start := time.Now()
	compiler.logger.Noticef("compiling scene")

	var err error
	err = compiler.splitStrands()
	if err != nil {
		return nil, err
	}

	err = compiler.partitionGeometry()
	if err != nil {
		return nil, err
	}

	err = compiler.setupCamera()
	if err != nil {
		return nil, err
	}

	compiler.logger.Noticef("compiled scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return compiler.optimizedScene, nil
}

// Split each strand into cubic curve primitives and set up the geometry
// records. The geometry id of a primitive is the index of its geometry and
// its primitive id is the running index of the span across all geometries.
func (sc *sceneCompiler) splitStrands() error {
	totalSpans := 0
	for gIndex, geom := range sc.parsedScene.Geometries {
		for sIndex, strand := range geom.Strands {
			if err := strand.Validate(); err != nil {
				return fmt.Errorf("compiler: geometry %q strand %d: %w", geom.Name, sIndex, err)
			}
		}
		totalSpans += geom.Spans()
		sc.logger.Infof(`geometry %d "%s": %d strands, %d spans`, gIndex, geom.Name, len(geom.Strands), geom.Spans())
	}

	if totalSpans == 0 {
		return ErrNoGeometry
	}

	sc.primitives = make([]bezier.Primitive, 0, totalSpans)
	sc.optimizedScene.Geometries = make([]*scene.Geometry, len(sc.parsedScene.Geometries))
	for gIndex, geom := range sc.parsedScene.Geometries {
		sceneGeom := &scene.Geometry{Name: geom.Name}
		sceneGeom.SetOpacity(geom.Opacity)
		sc.optimizedScene.Geometries[gIndex] = sceneGeom

		sceneGeom.StrandFirstPrim = make([]uint32, 0, len(geom.Strands))
		for _, strand := range geom.Strands {
			sceneGeom.StrandFirstPrim = append(sceneGeom.StrandFirstPrim, uint32(len(sc.primitives)))
			for span := 0; span < strand.Spans(); span++ {
				p := strand.Span(span)
				sc.primitives = append(
					sc.primitives,
					bezier.NewPrimitive(p[0], p[1], p[2], p[3], uint32(gIndex), uint32(len(sc.primitives))),
				)
			}
		}
	}

	return nil
}

// Generate a BVH tree over all curve primitives. Primitives are copied to the
// optimized scene so that each leaf references a contiguous range.
func (sc *sceneCompiler) partitionGeometry() error {
	start := time.Now()
	sc.logger.Notice("partitioning geometry")

	volList := make([]bvh.BoundedVolume, len(sc.primitives))
	for index := range sc.primitives {
		volList[index] = &sc.primitives[index]
	}

	sc.logger.Infof("building BVH tree (%d primitives)", len(volList))
	curveList := make([]bezier.Primitive, 0, len(sc.primitives))
	bvhNodes, stats := bvh.Build(volList, minPrimitivesPerLeaf, func(node *scene.BvhNode, workList []bvh.BoundedVolume) {
		node.SetPrimitives(uint32(len(curveList)), uint32(len(workList)))
		for _, workItem := range workList {
			curveList = append(curveList, *workItem.(*bezier.Primitive))
		}
	}, bvh.SurfaceAreaHeuristic)

	if stats.PartitionedItems != len(sc.primitives) {
		return fmt.Errorf("compiler: BVH partitioned %d of %d primitives", stats.PartitionedItems, len(sc.primitives))
	}

	sc.optimizedScene.BvhNodeList = bvhNodes
	sc.optimizedScene.CurveList = curveList
	sc.logger.Infof(
		"BVH tree: %d nodes, %d leafs, max depth %d, max leaf size %d",
		len(bvhNodes), stats.Leafs, stats.MaxDepth, stats.MaxLeafItems,
	)
	sc.logger.Noticef("partitioned geometry in %d ms", time.Since(start).Nanoseconds()/1e6)
	return nil
}

func (sc *sceneCompiler) setupCamera() error {
	if sc.parsedScene.Camera == nil {
		return ErrNoCamera
	}

	sc.optimizedScene.Camera = scene.NewCamera(sc.parsedScene.Camera.FOV)
	sc.optimizedScene.Camera.Position = sc.parsedScene.Camera.Eye
	sc.optimizedScene.Camera.LookAt = sc.parsedScene.Camera.Look
	sc.optimizedScene.Camera.Up = sc.parsedScene.Camera.Up
	sc.optimizedScene.Camera.Update()

	return nil
}
