package cmd

import (
	"fmt"

	"github.com/richardsabow/airports-backend/di"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the airports fixture into the redis backend",
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	if container.AirportsLoader == nil {
		return fmt.Errorf("backend %q cannot be seeded", cfg.Backend)
	}

	n, err := container.AirportsLoader.LoadAirports(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d airports into %s\n", n, cfg.Backend)
	return nil
}
