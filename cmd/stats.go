package cmd

import "github.com/urfave/cli"

// Display statistics for a compiled hair scene.
func SceneStats(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	logger.Noticef("scene statistics\n%s", sc.Stats())
	return nil
}
