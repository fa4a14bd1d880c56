package cmd

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/achilleasa/strands/renderer"
	"github.com/achilleasa/strands/tracer"
	"github.com/achilleasa/strands/tracer/cpu"
	"github.com/achilleasa/strands/types"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a still frame of a generated hair scene.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	shading := cpu.DefaultShadingOptions()
	shading.Shadows = !ctx.Bool("no-shadows")
	if light := ctx.String("light"); light != "" {
		dir, err := parseVec3(light)
		if err != nil {
			return fmt.Errorf("invalid light direction %q: %v", light, err)
		}
		shading.LightDir = dir
	}

	opts := renderer.Options{
		FrameW:      uint32(ctx.Int("width")),
		FrameH:      uint32(ctx.Int("height")),
		NumTracers:  ctx.Int("tracers"),
		Strategy:    ctx.String("strategy"),
		Depth:       ctx.Int("depth"),
		NoFootprint: ctx.Bool("no-footprint"),
		Shading:     shading,
	}

	var scheduler tracer.BlockScheduler
	switch strings.ToLower(ctx.String("scheduler")) {
	case "naive":
		scheduler = tracer.NaiveScheduler()
	case "perfect":
		scheduler = tracer.PerfectScheduler()
	default:
		return fmt.Errorf("unknown block scheduler %q", ctx.String("scheduler"))
	}

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	r, err := renderer.NewDefault(sc, scheduler, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	logger.Notice("rendering frame")
	err = r.Render()
	if err != nil {
		return err
	}

	imgFile := ctx.String("out")
	if err = renderer.WritePNG(imgFile, r.Frame()); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", imgFile)

	if depthFile := ctx.String("depth-out"); depthFile != "" {
		if err = renderer.WritePNG(depthFile, renderer.DepthImage(r.Depth(), opts.FrameW, opts.FrameH)); err != nil {
			return err
		}
		logger.Noticef("wrote depth buffer to %s", depthFile)
	}

	// Display stats
	displayFrameStats(r.Stats())

	return nil
}

// Parse a comma separated vector.
func parseVec3(val string) (types.Vec3, error) {
	tokens := strings.Split(val, ",")
	if len(tokens) != 3 {
		return types.Vec3{}, fmt.Errorf("expected 3 comma separated components; got %d", len(tokens))
	}

	var v types.Vec3
	for i, token := range tokens {
		f, err := strconv.ParseFloat(strings.TrimSpace(token), 32)
		if err != nil {
			return v, err
		}
		v[i] = float32(f)
	}
	if v.IsZero() {
		return v, fmt.Errorf("vector must not be zero")
	}
	return v, nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Block height", "% of frame", "Primary rays", "Shadow rays", "Render time"})
	var primary, shadow uint64
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			fmt.Sprintf("%d", stat.PrimaryRays),
			fmt.Sprintf("%d", stat.ShadowRays),
			fmt.Sprintf("%s", stat.RenderTime),
		})
		primary += stat.PrimaryRays
		shadow += stat.ShadowRays
	}
	table.SetFooter([]string{"", "", "TOTAL", fmt.Sprintf("%d", primary), fmt.Sprintf("%d", shadow), fmt.Sprintf("%s", stats.RenderTime)})
	table.Render()

	kernel := stats.Kernel
	kernelTable := tablewriter.NewWriter(&buf)
	kernelTable.SetAutoFormatHeaders(false)
	kernelTable.SetHeader([]string{"Curve kernel", "Count"})
	kernelTable.AppendBulk([][]string{
		{"Primitive tests", fmt.Sprintf("%d", kernel.Prims)},
		{"Candidates", fmt.Sprintf("%d", kernel.Candidates)},
		{"Degenerate rejects", fmt.Sprintf("%d", kernel.DegenerateRejects)},
		{"Filter rejects", fmt.Sprintf("%d", kernel.FilterRejects)},
		{"Hits", fmt.Sprintf("%d", kernel.Hits)},
		{"Occlusions", fmt.Sprintf("%d", kernel.Occlusions)},
		{"Covered pixels", fmt.Sprintf("%d", stats.CoveredPixels)},
	})
	kernelTable.Render()

	logger.Noticef("frame statistics\n%s", buf.String())
}
