package renderer

import (
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/achilleasa/strands/asset/compiler"
	"github.com/achilleasa/strands/asset/compiler/input"
	"github.com/achilleasa/strands/asset/scene"
	"github.com/achilleasa/strands/tracer"
	"github.com/achilleasa/strands/tracer/bezier"
	"github.com/achilleasa/strands/tracer/cpu"
)

func hairScene(t *testing.T) *scene.Scene {
	opts := input.DefaultHairOptions()
	opts.Strands = 200
	raw, err := input.GenerateHair(opts)
	if err != nil {
		t.Fatal(err)
	}
	sc, err := compiler.Compile(raw)
	if err != nil {
		t.Fatal(err)
	}
	return sc
}

func TestRendererErrors(t *testing.T) {
	sched := tracer.NaiveScheduler()
	if _, err := NewDefault(nil, sched, Options{FrameW: 8, FrameH: 8}); err != ErrSceneNotDefined {
		t.Fatalf("expected ErrSceneNotDefined; got %v", err)
	}
	if _, err := NewDefault(&scene.Scene{}, sched, Options{FrameW: 8, FrameH: 8}); err != ErrCameraNotDefined {
		t.Fatalf("expected ErrCameraNotDefined; got %v", err)
	}
	sc := &scene.Scene{Camera: scene.NewCamera(45)}
	if _, err := NewDefault(sc, sched, Options{FrameW: 0, FrameH: 8}); err != ErrInvalidFrameSize {
		t.Fatalf("expected ErrInvalidFrameSize; got %v", err)
	}
	if _, err := NewDefault(sc, sched, Options{FrameW: 8, FrameH: 8, Strategy: "bogus"}); err == nil {
		t.Fatal("expected unknown strategy error")
	}
}

func TestRenderStrategiesAgree(t *testing.T) {
	sc := hairScene(t)

	var frameW, frameH uint32 = 48, 32
	depths := make(map[string][]float32)
	for _, strategy := range bezier.Strategies() {
		r, err := NewDefault(sc, tracer.PerfectScheduler(), Options{
			FrameW:     frameW,
			FrameH:     frameH,
			NumTracers: 3,
			Strategy:   strategy,
			Shading:    cpu.DefaultShadingOptions(),
		})
		if err != nil {
			t.Fatal(err)
		}

		// Render twice so the perfect scheduler gets to use tracer timings
		for pass := 0; pass < 2; pass++ {
			if err = r.Render(); err != nil {
				r.Close()
				t.Fatalf("[%s pass %d] render failed: %v", strategy, pass, err)
			}
		}

		stats := r.Stats()
		var rows uint32
		var primary uint64
		for _, trStat := range stats.Tracers {
			rows += trStat.BlockH
			primary += trStat.PrimaryRays
		}
		if rows != frameH {
			t.Fatalf("[%s] expected tracers to cover %d rows; got %d", strategy, frameH, rows)
		}
		if primary != uint64(frameW*frameH) {
			t.Fatalf("[%s] expected %d primary rays; got %d", strategy, frameW*frameH, primary)
		}
		if stats.CoveredPixels == 0 {
			t.Fatalf("[%s] expected some pixels to hit the hair", strategy)
		}
		if stats.Kernel.Hits == 0 {
			t.Fatalf("[%s] expected kernel hit counter to be non-zero", strategy)
		}

		depths[strategy] = append([]float32(nil), r.Depth()...)
		r.Close()
	}

	// Both strategies approximate the same curves so their coverage should
	// mostly agree.
	batched, recursive := depths["batched"], depths["recursive"]
	mismatches := 0
	for i := range batched {
		if math.IsInf(float64(batched[i]), 1) != math.IsInf(float64(recursive[i]), 1) {
			mismatches++
		}
	}
	if ratio := float32(mismatches) / float32(len(batched)); ratio > 0.05 {
		t.Fatalf("expected strategy coverage to agree; got %d mismatching pixels", mismatches)
	}
}

func TestWritePNG(t *testing.T) {
	depth := []float32{1, 2, float32(math.Inf(1)), 3}
	im := DepthImage(depth, 2, 2)
	if im.GrayAt(0, 0).Y != 255 {
		t.Fatalf("expected nearest hit to be white; got %d", im.GrayAt(0, 0).Y)
	}
	if im.GrayAt(0, 1).Y != 0 {
		t.Fatalf("expected miss to be black; got %d", im.GrayAt(0, 1).Y)
	}
	if im.GrayAt(1, 1).Y >= im.GrayAt(1, 0).Y {
		t.Fatalf("expected far hits to be darker than near hits")
	}

	imgFile := filepath.Join(t.TempDir(), "depth.png")
	if err := WritePNG(imgFile, im); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(imgFile)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := decoded.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("expected 2x2 image; got %v", b)
	}
}
