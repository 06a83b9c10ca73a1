// Command costmapd runs the layered costmap update loop as a standalone
// process: load the costmap/inflation configuration files, build the
// layered costmap, and drive it at map_update_frequency Hz until
// interrupted. Grounded on cli/app.go's urfave/cli/v2 command style.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"go.viam.com/costmap/costmap"
	"go.viam.com/costmap/costmap/layers/inflation"
	"go.viam.com/costmap/costmap/layers/static"
	"go.viam.com/costmap/costmaploop"
	"go.viam.com/costmap/footprint"
	"go.viam.com/costmap/logging"
	"go.viam.com/costmap/paramstore"
	"go.viam.com/costmap/snapshot"
	"go.viam.com/costmap/transform"
)

func main() {
	app := &cli.App{
		Name:  "costmapd",
		Usage: "run the layered occupancy costmap update loop",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "costmap-config",
				Value: "costmap.xml",
				Usage: "path to costmap.xml",
			},
			&cli.StringFlag{
				Name:  "inflation-config",
				Value: "inflation_layer.xml",
				Usage: "path to inflation_layer.xml",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	var logger logging.Logger
	if c.Bool("debug") {
		logger = logging.NewDebugLogger("costmapd")
	} else {
		logger = logging.NewLogger("costmapd")
	}
	logging.ReplaceGlobal(logger)

	costmapParams, err := paramstore.LoadFile(c.String("costmap-config"))
	if err != nil {
		return fmt.Errorf("loading costmap config: %w", err)
	}
	inflationParams, err := paramstore.LoadFile(c.String("inflation-config"))
	if err != nil {
		return fmt.Errorf("loading inflation config: %w", err)
	}

	trackUnknown := costmapParams.GetBool("track_unknown_space", false)
	mapWidth := costmapParams.GetFloat64("map_width", 6.0)
	mapHeight := costmapParams.GetFloat64("map_height", 6.0)
	resolution := costmapParams.GetFloat64("resolution", 0.01)
	updateFrequency := costmapParams.GetFloat64("map_update_frequency", 1.0)
	footprintStr := costmapParams.GetString("footprint", "[[0.16,0.16],[0.16,-0.16],[-0.16,-0.16],[-0.16,0.16]]")

	points, err := footprint.FromString(footprintStr)
	if err != nil {
		return fmt.Errorf("parsing footprint: %w", err)
	}

	lc := costmap.New(trackUnknown, false, logger.Named("costmap"))

	lc.AddLayer(static.New(trackUnknown, logger.Named("static")))

	inflationRadius := inflationParams.GetFloat64("inflation_radius", 0.55)
	costScalingFactor := inflationParams.GetFloat64("cost_scaling_factor", 10.0)
	lc.AddLayer(inflation.New(inflationRadius, costScalingFactor, logger.Named("inflation")))

	// Resize after every layer is registered: it is what drives each
	// layer's MatchSize, and AddLayer itself does not.
	sizeX := int(mapWidth / resolution)
	sizeY := int(mapHeight / resolution)
	lc.Resize(sizeX, sizeY, resolution, -mapWidth/2, -mapHeight/2)

	if err := lc.SetFootprint(points); err != nil {
		return fmt.Errorf("setting footprint: %w", err)
	}

	baseOdomTF, odomMapTF := identityPoseSources()
	loop := costmaploop.New(lc, baseOdomTF, odomMapTF, &snapshot.Recorder{}, nil, updateFrequency, logger.Named("loop"))
	loop.Start()

	logger.Infow("costmapd running", "size_x", sizeX, "size_y", sizeY, "update_frequency", updateFrequency)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down")
	loop.Stop()
	return nil
}

// identityPoseSources returns a pair of always-succeeding PoseSources at
// the world origin. A real deployment replaces these with RPC clients
// against the robot's transform service; costmapd itself has no opinion
// on transport, treating pose/transform as an external collaborator
// specified only at its Go interface boundary.
func identityPoseSources() (transform.PoseSource, transform.PoseSource) {
	identity := func(ctx context.Context) (transform.Pose, bool, error) {
		return transform.Pose{}, true, nil
	}
	return identity, identity
}
