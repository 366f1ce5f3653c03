// Command build places nodes over the sea, contracts the resulting graph,
// and writes both to disk for the route command to load.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"seaways/pkg/config"
	"seaways/pkg/navigator"
	"seaways/pkg/polygon"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cfg.MaxTestMode && cfg.NumberOfNodes > 1000 {
		cfg.NumberOfNodes = 1000
	}

	start := time.Now()

	log.Printf("Loading coastlines from %s...", cfg.CoastlinesFile)
	rings, err := loadCoastlineRings(cfg.CoastlinesFile)
	if err != nil {
		log.Fatalf("Failed to load coastlines: %v", err)
	}
	log.Printf("Loaded %d land rings", len(rings))

	if cfg.GeoJSONExportPath != "" {
		if err := exportRingsAsGeoJSON(cfg.GeoJSONExportPath, rings); err != nil {
			log.Printf("Failed to export land polygons: %v", err)
		} else {
			log.Printf("Exported land polygons to %s", cfg.GeoJSONExportPath)
		}
	}

	land := polygon.Build(rings)

	log.Printf("Placing up to %d nodes over the sphere...", cfg.NumberOfNodes)
	nav := navigator.NewGridNavigator(cfg, land)
	uc := navigator.NewUseCase(nav, nil, "")
	uc.BuildGraph()
	for uc.IsBuildRunning() {
		time.Sleep(50 * time.Millisecond)
	}
	if err := uc.LastBuildError(); err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}

	log.Printf("Graph ready: %d nodes", uc.NumberOfNodes())
	log.Printf("Done in %s", time.Since(start).Round(time.Millisecond))
}

// loadCoastlineRings reads every Polygon and MultiPolygon ring (exterior and
// interior alike) out of a GeoJSON feature collection of land coastlines.
func loadCoastlineRings(path string) ([]orb.Ring, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, err
	}
	var rings []orb.Ring
	for _, f := range fc.Features {
		switch geom := f.Geometry.(type) {
		case orb.Polygon:
			rings = append(rings, geom...)
		case orb.MultiPolygon:
			for _, poly := range geom {
				rings = append(rings, poly...)
			}
		}
	}
	return rings, nil
}

func exportRingsAsGeoJSON(path string, rings []orb.Ring) error {
	fc := geojson.NewFeatureCollection()
	for _, r := range rings {
		fc.Append(geojson.NewFeature(orb.Polygon{r}))
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
