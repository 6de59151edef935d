package cmd

import (
	"encoding/json"
	"log/slog"

	"github.com/richardsabow/airports-backend/di"
	"github.com/richardsabow/airports-backend/geo"
	"github.com/richardsabow/airports-backend/util"
	"github.com/spf13/cobra"
)

var (
	searchLat    float64
	searchLon    float64
	searchRadius float64
	searchLimit  int
	plotFile     string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run one radius search and print the airports as JSON",
	Long:  `Search the configured backend for airports within --radius meters of (--lat, --lon).`,
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().Float64Var(&searchLat, "lat", 0, "Latitude of the search center")
	searchCmd.Flags().Float64Var(&searchLon, "lon", 0, "Longitude of the search center")
	searchCmd.Flags().Float64VarP(&searchRadius, "radius", "r", 0, "Search radius in meters")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 0, "Maximum number of airports (default from DEFAULT_LIMIT)")
	searchCmd.Flags().StringVar(&plotFile, "plot", "", "Write an HTML map of the search to this file")

	searchCmd.MarkFlagRequired("lat")
	searchCmd.MarkFlagRequired("lon")
	searchCmd.MarkFlagRequired("radius")
}

func runSearch(cmd *cobra.Command, args []string) error {
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

	limit := searchLimit
	if limit == 0 {
		limit = cfg.DefaultLimit
	}

	center := geo.Point{Latitude: searchLat, Longitude: searchLon}
	airports, err := container.AirportService.GetAirports(ctx, center, searchRadius, limit)
	if err != nil {
		return err
	}

	if plotFile != "" {
		box := geo.ComputeBoundingBox(center, searchRadius)
		if err := util.WriteSearchPlot(plotFile, center, box, airports); err != nil {
			return err
		}
		slog.Info("search plot written", "file", plotFile)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(airports)
}
