// Package config defines the runtime configuration read by the build
// command-line entry point.
package config

import (
	"flag"
	"fmt"
)

// Config holds the settings a ship-routing graph build needs.
type Config struct {
	// CoastlinesFile is the path to the land polygon source used to
	// generate the node grid.
	CoastlinesFile string
	// NumberOfNodes is the upper bound on nodes equally distributed over
	// the sphere; each one outside of a land polygon becomes a graph node.
	NumberOfNodes uint32
	// ForceRebuildGraph, when set, regenerates the graph and CH metadata
	// even if cached files matching CoastlinesFile and NumberOfNodes exist.
	ForceRebuildGraph bool
	// GeoJSONExportPath, if non-empty, writes the generated land polygons
	// to this path as GeoJSON for inspection.
	GeoJSONExportPath string
	// BuildGraphOnStartup triggers graph generation immediately rather
	// than waiting for an explicit build request.
	BuildGraphOnStartup bool
	// MaxTestMode caps node counts during tests so CI runs stay fast.
	MaxTestMode bool
}

// DefaultNumberOfNodes matches the upstream default of evenly spacing ten
// thousand candidate nodes over the sphere.
const DefaultNumberOfNodes = 10000

// Parse builds a Config from command-line arguments, as the build command
// passes them.
func Parse(args []string) (*Config, error) {
	fs := flag.NewFlagSet("seaways", flag.ContinueOnError)
	coastlines := fs.String("coastlines", "", "path to the coastlines GeoJSON file used to generate land polygons")
	nodes := fs.Uint("nodes", DefaultNumberOfNodes, "upper bound on nodes equally distributed over the sphere")
	force := fs.Bool("force-rebuild-graph", false, "regenerate the graph and CH metadata even if cached files exist")
	geojsonExport := fs.String("geojson-export-path", "", "optional path to export the generated land polygons as GeoJSON")
	buildOnStartup := fs.Bool("build-graph-on-startup", false, "build the graph immediately rather than on first request")
	maxTest := fs.Bool("max-test", false, "cap node counts for fast test runs")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *coastlines == "" {
		return nil, fmt.Errorf("config: -coastlines is required")
	}

	return &Config{
		CoastlinesFile:      *coastlines,
		NumberOfNodes:       uint32(*nodes),
		ForceRebuildGraph:   *force,
		GeoJSONExportPath:   *geojsonExport,
		BuildGraphOnStartup: *buildOnStartup,
		MaxTestMode:         *maxTest,
	}, nil
}
