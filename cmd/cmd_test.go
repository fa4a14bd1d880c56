package cmd

import (
	"flag"
	"testing"

	"github.com/achilleasa/strands/types"
	"github.com/urfave/cli"
)

func TestParseVec3(t *testing.T) {
	type spec struct {
		input  string
		exp    types.Vec3
		expErr bool
	}
	specs := []spec{
		{"0.4,0.8,0.6", types.XYZ(0.4, 0.8, 0.6), false},
		{" 1, 0 , -1", types.XYZ(1, 0, -1), false},
		{"1,0", types.Vec3{}, true},
		{"a,b,c", types.Vec3{}, true},
		{"0,0,0", types.Vec3{}, true},
	}

	for index, s := range specs {
		v, err := parseVec3(s.input)
		if s.expErr {
			if err == nil {
				t.Fatalf("[spec %d] expected an error", index)
			}
			continue
		}
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		if v != s.exp {
			t.Fatalf("[spec %d] expected %v; got %v", index, s.exp, v)
		}
	}
}

func TestLoadGeneratedScene(t *testing.T) {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range HairFlags() {
		f.Apply(set)
	}
	if err := set.Parse([]string{"-strands", "25", "-spans", "2", "-opacity", "0.5"}); err != nil {
		t.Fatal(err)
	}
	ctx := cli.NewContext(cli.NewApp(), set, nil)

	sc, err := loadScene(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if exp := 25 * 2; len(sc.CurveList) != exp {
		t.Fatalf("expected %d curves; got %d", exp, len(sc.CurveList))
	}
	if len(sc.Geometries) != 1 || sc.Geometries[0].Opacity != 0.5 {
		t.Fatalf("expected a single geometry with opacity 0.5; got %+v", sc.Geometries)
	}
}
