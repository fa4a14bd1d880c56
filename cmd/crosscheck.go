package cmd

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/strands/tracer/bezier"
	"github.com/achilleasa/strands/tracer/reference"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Compare the curve intersection strategies against the reference intersector
// using random rays aimed at the generated strands.
func CrossCheck(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	isects := make([]bezier.Intersector, 0)
	for _, name := range bezier.Strategies() {
		isect, err := bezier.NewWithDepth(name, ctx.Int("depth"), nil)
		if err != nil {
			return err
		}
		isects = append(isects, isect)
	}

	opts := reference.DefaultCrossCheckOptions()
	opts.Rays = ctx.Int("rays")
	opts.Seed = ctx.Int64("ray-seed")
	opts.Chords = ctx.Int("chords")
	opts.Tolerance = float32(ctx.Float64("tolerance"))

	logger.Noticef("firing %d rays at %d curves", opts.Rays, len(sc.CurveList))
	reports := reference.CrossCheck(sc.CurveList, isects, opts)
	displayCrossCheck(reports)

	maxMismatch := float32(ctx.Float64("max-mismatch"))
	for _, rep := range reports {
		if ratio := rep.MismatchRatio(); ratio > maxMismatch {
			return fmt.Errorf("strategy %q disagrees with the reference for %.2f%% of rays (max %.2f%%)", rep.Strategy, 100*ratio, 100*maxMismatch)
		}
	}
	return nil
}

func displayCrossCheck(reports []reference.Report) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Strategy", "Rays", "Ref hits", "Hits", "False hits", "False misses", "T mismatches", "Max t err", "Max u err", "Mismatch"})
	for _, rep := range reports {
		table.Append([]string{
			rep.Strategy,
			fmt.Sprintf("%d", rep.Rays),
			fmt.Sprintf("%d", rep.RefHits),
			fmt.Sprintf("%d", rep.Hits),
			fmt.Sprintf("%d", rep.FalseHits),
			fmt.Sprintf("%d", rep.FalseMisses),
			fmt.Sprintf("%d", rep.TMismatches),
			fmt.Sprintf("%.2e", rep.MaxTErr),
			fmt.Sprintf("%.2e", rep.MaxUErr),
			fmt.Sprintf("%.2f %%", 100*rep.MismatchRatio()),
		})
	}
	table.Render()
	logger.Noticef("crosscheck results\n%s", buf.String())
}
