package util

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/richardsabow/airports-backend/geo"
	"github.com/richardsabow/airports-backend/models/airport"
)

// PlotSearch renders the search center, its bounding box corners and the
// returned airports as a scatter over a world map.
func PlotSearch(w io.Writer, center geo.Point, box geo.BoundingBox, airports []airport.Airport) error {
	corners := box.Corners()
	names := [4]string{"SW", "NW", "NE", "SE"}

	// go-echarts geo coordinates are [lon, lat].
	boxPoints := make([]opts.GeoData, 0, len(corners)+1)
	for i, c := range corners {
		boxPoints = append(boxPoints, opts.GeoData{Name: names[i], Value: []float64{c.Longitude, c.Latitude}})
	}

	airportPoints := make([]opts.GeoData, 0, len(airports))
	for _, a := range airports {
		name := a.Name
		if name == "" {
			name = a.ID
		}
		airportPoints = append(airportPoints, opts.GeoData{Name: name, Value: []float64{a.Lon, a.Lat}})
	}

	chart := charts.NewGeo()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Airport Search",
			Width:     "1000px",
			Height:    "700px",
		}),
		charts.WithGeoComponentOpts(opts.GeoComponent{
			Map:    "world",
			Silent: opts.Bool(true),
		}),
	)

	label := charts.WithLabelOpts(opts.Label{
		Show:      opts.Bool(true),
		Formatter: "{b}",
	})
	chart.AddSeries("Center", types.ChartScatter, []opts.GeoData{
		{Name: center.String(), Value: []float64{center.Longitude, center.Latitude}},
	}, label)
	chart.AddSeries("BoundingBox", types.ChartScatter, boxPoints, label)
	chart.AddSeries("Airports", types.ChartScatter, airportPoints, label)

	return chart.Render(w)
}

// WriteSearchPlot renders PlotSearch into an HTML file at path.
func WriteSearchPlot(path string, center geo.Point, box geo.BoundingBox, airports []airport.Airport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create HTML file: %w", err)
	}
	defer f.Close()

	if err := PlotSearch(f, center, box, airports); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
