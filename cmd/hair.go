package cmd

import (
	"errors"
	"time"

	"github.com/achilleasa/strands/asset/compiler"
	"github.com/achilleasa/strands/asset/compiler/input"
	"github.com/achilleasa/strands/asset/scene"
	"github.com/achilleasa/strands/asset/scene/reader"
	"github.com/urfave/cli"
)

// Flags for the procedural hair generator shared by all commands.
func HairFlags() []cli.Flag {
	defaults := input.DefaultHairOptions()
	return []cli.Flag{
		cli.Int64Flag{
			Name:   "seed",
			Value:  defaults.Seed,
			Usage:  "random seed for the hair generator",
			EnvVar: "STRANDS_SEED",
		},
		cli.IntFlag{
			Name:   "strands",
			Value:  defaults.Strands,
			Usage:  "number of generated strands",
			EnvVar: "STRANDS_COUNT",
		},
		cli.IntFlag{
			Name:   "spans",
			Value:  defaults.Spans,
			Usage:  "number of cubic spans per strand",
			EnvVar: "STRANDS_SPANS",
		},
		cli.Float64Flag{
			Name:  "length",
			Value: float64(defaults.Length),
			Usage: "strand length",
		},
		cli.Float64Flag{
			Name:  "root-radius",
			Value: float64(defaults.RootRadius),
			Usage: "strand radius at the root",
		},
		cli.Float64Flag{
			Name:  "tip-radius",
			Value: float64(defaults.TipRadius),
			Usage: "strand radius at the tip",
		},
		cli.Float64Flag{
			Name:  "gravity",
			Value: float64(defaults.Gravity),
			Usage: "downward bending per unit of strand length",
		},
		cli.Float64Flag{
			Name:  "curl",
			Value: float64(defaults.Curl),
			Usage: "random direction jitter per control point",
		},
		cli.Float64Flag{
			Name:  "opacity",
			Value: float64(defaults.Opacity),
			Usage: "fraction of shadow rays blocked by the strands",
		},
		cli.Float64Flag{
			Name:  "fov",
			Value: float64(defaults.FOV),
			Usage: "vertical camera field of view in degrees",
		},
	}
}

func hairOptions(ctx *cli.Context) input.HairOptions {
	opts := input.DefaultHairOptions()
	opts.Seed = ctx.Int64("seed")
	opts.Strands = ctx.Int("strands")
	opts.Spans = ctx.Int("spans")
	opts.Length = float32(ctx.Float64("length"))
	opts.RootRadius = float32(ctx.Float64("root-radius"))
	opts.TipRadius = float32(ctx.Float64("tip-radius"))
	opts.Gravity = float32(ctx.Float64("gravity"))
	opts.Curl = float32(ctx.Float64("curl"))
	opts.Opacity = float32(ctx.Float64("opacity"))
	opts.FOV = float32(ctx.Float64("fov"))
	return opts
}

// Load the scene file passed as an argument or generate and compile a hair
// scene using the generator flags if no argument is given.
func loadScene(ctx *cli.Context) (*scene.Scene, error) {
	if ctx.NArg() > 1 {
		return nil, errors.New("too many scene file arguments")
	} else if ctx.NArg() == 1 {
		return reader.ReadScene(ctx.Args().First())
	}

	start := time.Now()
	raw, err := input.GenerateHair(hairOptions(ctx))
	if err != nil {
		return nil, err
	}

	sc, err := compiler.Compile(raw)
	if err != nil {
		return nil, err
	}

	logger.Infof("generated and compiled %d curves in %d ms", len(sc.CurveList), time.Since(start).Nanoseconds()/1000000)
	return sc, nil
}
