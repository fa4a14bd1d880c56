package main

import (
	"fmt"
	"os"

	"github.com/achilleasa/strands/cmd"
	"github.com/achilleasa/strands/tracer/bezier"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	strategyFlags := []cli.Flag{
		cli.IntFlag{
			Name:   "depth",
			Value:  0,
			Usage:  fmt.Sprintf("subdivision depth for the recursive strategy (0 selects %d)", bezier.DefaultRecursionDepth),
			EnvVar: "STRANDS_DEPTH",
		},
	}

	app := cli.NewApp()
	app.Name = "strands"
	app.Usage = "ray trace procedurally generated hair"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "compile",
			Usage: "compile a strand file or generated hair into a binary compressed format",
			Description: `
Parse a text strand file (or generate hair if no file is given), build a BVH
tree to optimize ray intersection tests and write the compiled scene to a zip
archive which can be supplied as an argument to the other commands.`,
			ArgsUsage: "[scene.strands]",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "out, o",
					Value: "scene.zip",
					Usage: "filename for the compiled scene",
				},
			}, cmd.HairFlags()...),
			Action: cmd.CompileScene,
		},
		{
			Name:      "render",
			ArgsUsage: "[scene.strands | scene.zip]",
			Usage:     "render a single frame of generated hair",
			Description: `
Load a scene file or grow a head of hair using the procedural generator, build
a BVH over the curve spans and ray trace a single frame using the CPU tracers.

The frame is written as a png image and per-tracer statistics are displayed
once rendering completes.`,
			Flags: append(append([]cli.Flag{
				cli.IntFlag{
					Name:   "width",
					Value:  512,
					Usage:  "frame width",
					EnvVar: "STRANDS_WIDTH",
				},
				cli.IntFlag{
					Name:   "height",
					Value:  512,
					Usage:  "frame height",
					EnvVar: "STRANDS_HEIGHT",
				},
				cli.IntFlag{
					Name:   "tracers",
					Value:  0,
					Usage:  "number of cpu tracers (0 uses one tracer per cpu)",
					EnvVar: "STRANDS_TRACERS",
				},
				cli.StringFlag{
					Name:   "strategy, s",
					Value:  "batched",
					Usage:  fmt.Sprintf("curve intersection strategy (%v)", bezier.Strategies()),
					EnvVar: "STRANDS_STRATEGY",
				},
				cli.StringFlag{
					Name:   "scheduler",
					Value:  "perfect",
					Usage:  "block scheduler (naive or perfect)",
					EnvVar: "STRANDS_SCHEDULER",
				},
				cli.BoolFlag{
					Name:   "no-shadows",
					Usage:  "disable shadow rays",
					EnvVar: "STRANDS_NO_SHADOWS",
				},
				cli.BoolFlag{
					Name:   "no-footprint",
					Usage:  "do not widen thin curves to the pixel footprint",
					EnvVar: "STRANDS_NO_FOOTPRINT",
				},
				cli.StringFlag{
					Name:   "light",
					Value:  "0.4,0.8,0.6",
					Usage:  "direction towards the light as x,y,z",
					EnvVar: "STRANDS_LIGHT",
				},
				cli.StringFlag{
					Name:   "out, o",
					Value:  "frame.png",
					Usage:  "image filename for the rendered frame",
					EnvVar: "STRANDS_OUT",
				},
				cli.StringFlag{
					Name:  "depth-out",
					Usage: "optional image filename for the depth buffer",
				},
			}, strategyFlags...), cmd.HairFlags()...),
			Action: cmd.RenderFrame,
		},
		{
			Name:      "crosscheck",
			ArgsUsage: "[scene.strands | scene.zip]",
			Usage:     "compare the intersection strategies against a reference intersector",
			Description: `
Fire random rays that pass close to random points of the generated strands and
compare the hits reported by each intersection strategy with a slow double
precision reference. Exits with an error if any strategy disagrees with the
reference for more than the allowed fraction of rays.`,
			Flags: append(append([]cli.Flag{
				cli.IntFlag{
					Name:  "rays",
					Value: 10000,
					Usage: "number of rays to fire",
				},
				cli.Int64Flag{
					Name:  "ray-seed",
					Value: 1,
					Usage: "random seed for ray generation",
				},
				cli.IntFlag{
					Name:  "chords",
					Value: 1024,
					Usage: "reference flattening resolution",
				},
				cli.Float64Flag{
					Name:  "tolerance",
					Value: 1e-2,
					Usage: "relative hit distance tolerance",
				},
				cli.Float64Flag{
					Name:  "max-mismatch",
					Value: 0.05,
					Usage: "maximum allowed fraction of mismatching rays",
				},
			}, strategyFlags...), cmd.HairFlags()...),
			Action: cmd.CrossCheck,
		},
		{
			Name:      "stats",
			ArgsUsage: "[scene.strands | scene.zip]",
			Usage:     "display statistics for the compiled hair scene",
			Flags:     cmd.HairFlags(),
			Action:    cmd.SceneStats,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
