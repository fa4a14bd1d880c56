package reader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/achilleasa/strands/asset"
	"github.com/achilleasa/strands/asset/scene/writer"
	"github.com/achilleasa/strands/tracer/bezier"
	"github.com/achilleasa/strands/types"
	"github.com/google/go-cmp/cmp"
)

const mainStrands = `
# camera setup
camera_fov 60
camera_eye 0 0 5
camera_look 0 0 0
camera_up 0 1 0

g scalp
opacity 0.5
v -1 0 0 0.05
v -0.5 0.2 0 0.05
v 0.5 0.2 0 0.04
v 1 0 0 0.03
v 1.5 -0.2 0 0.02
v 2 -0.4 0 0.02
v 2.5 -0.6 0 0.01
s 1 2 3 4 5 6 7

g empty

call inc/fringe.strands
`

const fringeStrands = `
g fringe
v 0 1 0 0.02
v 0 1 0.3 0.02
v 0 1 0.6 0.02
v 0 1 1 0.02
s -4 -3 -2 -1
`

func writeFile(t *testing.T, path, contents string) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestReadStrands(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.strands"), mainStrands)
	writeFile(t, filepath.Join(dir, "inc", "fringe.strands"), fringeStrands)

	sc, err := ReadScene(filepath.Join(dir, "main.strands"))
	if err != nil {
		t.Fatal(err)
	}

	if len(sc.Geometries) != 2 {
		t.Fatalf("expected 2 geometries (empty geometry dropped); got %d", len(sc.Geometries))
	}
	if sc.Geometries[0].Name != "scalp" || sc.Geometries[1].Name != "fringe" {
		t.Fatalf("unexpected geometry names %q, %q", sc.Geometries[0].Name, sc.Geometries[1].Name)
	}
	if !sc.Geometries[0].HasFilter(bezier.OcclusionQuery) || sc.Geometries[1].HasFilter(bezier.OcclusionQuery) {
		t.Fatal("expected only the translucent geometry to define an occlusion filter")
	}
	if len(sc.CurveList) != 3 {
		t.Fatalf("expected 3 curve spans; got %d", len(sc.CurveList))
	}

	// The included strand uses relative indices
	var fringe *bezier.Primitive
	for i := range sc.CurveList {
		if sc.CurveList[i].GeomID == 1 {
			fringe = &sc.CurveList[i]
		}
	}
	if fringe == nil {
		t.Fatal("expected to find the fringe curve")
	}
	expFringe := [4]types.Vec4{
		types.XYZW(0, 1, 0, 0.02),
		types.XYZW(0, 1, 0.3, 0.02),
		types.XYZW(0, 1, 0.6, 0.02),
		types.XYZW(0, 1, 1, 0.02),
	}
	if !cmp.Equal(fringe.P, expFringe) {
		t.Fatalf("unexpected fringe control points: %s", cmp.Diff(expFringe, fringe.P))
	}

	if sc.Camera == nil || sc.Camera.FOV != 60 || sc.Camera.Position != types.XYZ(0, 0, 5) {
		t.Fatalf("unexpected camera %+v", sc.Camera)
	}
}

func TestReadStrandErrors(t *testing.T) {
	type spec struct {
		input  string
		expErr string
	}
	specs := []spec{
		{"v 0 0 0", `expected 4 arguments; got 3`},
		{"v 0 0 0 -1", `radius must not be negative`},
		{"opacity 2", `opacity must be in [0, 1]`},
		{"v 0 0 0 1\ns 1 1 1", `expected 3k+1 control points`},
		{"v 0 0 0 1\ns 1 1 1 5", `index 5 out of bounds`},
		{"v 0 0 0 1\ns 1 0 1 1", `must not be zero`},
		{"g", `expected 1 argument for geometry name`},
		{"call", `expected 1 argument`},
	}

	for index, s := range specs {
		r := newStrandReader()
		_, err := r.Read(asset.NewResourceFromStream("test.strands", strings.NewReader(s.input)))
		if err == nil || !strings.Contains(err.Error(), s.expErr) {
			t.Fatalf("[spec %d] expected error containing %q; got %v", index, s.expErr, err)
		}
		if !strings.Contains(err.Error(), "[test.strands: ") {
			t.Fatalf("[spec %d] expected error to reference the file and line; got %v", index, err)
		}
	}
}

func TestCompiledSceneRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.strands"), mainStrands)
	writeFile(t, filepath.Join(dir, "inc", "fringe.strands"), fringeStrands)

	sc, err := ReadScene(filepath.Join(dir, "main.strands"))
	if err != nil {
		t.Fatal(err)
	}

	zipFile := filepath.Join(dir, "scene.zip")
	if err = writer.WriteScene(sc, zipFile); err != nil {
		t.Fatal(err)
	}

	loaded, err := ReadScene(zipFile)
	if err != nil {
		t.Fatal(err)
	}

	if !cmp.Equal(sc.BvhNodeList, loaded.BvhNodeList) {
		t.Fatalf("BVH differs after reload: %s", cmp.Diff(sc.BvhNodeList, loaded.BvhNodeList))
	}
	if !cmp.Equal(sc.CurveList, loaded.CurveList) {
		t.Fatalf("curves differ after reload: %s", cmp.Diff(sc.CurveList, loaded.CurveList))
	}
	if !cmp.Equal(*sc.Camera, *loaded.Camera) {
		t.Fatalf("camera differs after reload: %s", cmp.Diff(*sc.Camera, *loaded.Camera))
	}
	for index, geom := range loaded.Geometries {
		orig := sc.Geometries[index]
		if geom.Name != orig.Name || geom.Opacity != orig.Opacity {
			t.Fatalf("[geometry %d] expected %s (opacity %f); got %s (opacity %f)", index, orig.Name, orig.Opacity, geom.Name, geom.Opacity)
		}
		if geom.HasFilter(bezier.OcclusionQuery) != orig.HasFilter(bezier.OcclusionQuery) {
			t.Fatalf("[geometry %d] expected occlusion filter to be restored", index)
		}
	}
}

func TestUnsupportedSceneFormat(t *testing.T) {
	if _, err := ReadScene("scene.obj"); err == nil {
		t.Fatal("expected unsupported format error")
	}
}
