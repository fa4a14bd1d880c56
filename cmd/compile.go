package cmd

import (
	"github.com/achilleasa/strands/asset/scene/writer"
	"github.com/urfave/cli"
)

// Compile a strand file or a generated hair scene into a zip archive that can
// be passed to the other commands.
func CompileScene(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	return writer.WriteScene(sc, ctx.String("out"))
}
