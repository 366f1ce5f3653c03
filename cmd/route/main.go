// Command route loads a prebuilt graph and its contraction hierarchy
// metadata, snaps two coordinates to the nearest graph nodes, and prints
// the shortest route between them. With -benchmark it instead cross-checks
// the path engines against each other over random queries.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"

	"seaways/pkg/bench"
	"seaways/pkg/ch"
	"seaways/pkg/nearest"
)

func main() {
	chPath := flag.String("ch", "", "Path to the CH metadata file written by the build command")
	startLat := flag.Float64("start-lat", 0, "Start latitude")
	startLon := flag.Float64("start-lon", 0, "Start longitude")
	endLat := flag.Float64("end-lat", 0, "End latitude")
	endLon := flag.Float64("end-lon", 0, "End longitude")
	benchmarkQueries := flag.Int("benchmark", 0, "Run this many random cross-engine benchmark queries instead of a single route")
	flag.Parse()

	if *chPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: route -ch <file> [-start-lat .. -start-lon .. -end-lat .. -end-lon ..] [-benchmark N]")
		os.Exit(1)
	}

	log.Printf("Loading CH metadata from %s...", *chPath)
	meta, err := ch.ReadMetadata(*chPath)
	if err != nil {
		log.Fatalf("Failed to load CH metadata: %v", err)
	}
	log.Printf("Loaded: %d nodes, %d augmented edges", meta.Graph.NumNodes, meta.Graph.NumEdges)

	if *benchmarkQueries > 0 {
		runBenchmark(meta, *benchmarkQueries)
		return
	}

	runSingleRoute(meta, *startLat, *startLon, *endLat, *endLon)
}

func runSingleRoute(meta *ch.Metadata, startLat, startLon, endLat, endLon float64) {
	idx := nearest.Build(meta.Graph.NodeLat, meta.Graph.NodeLon)
	startNode, err := idx.Find(startLon, startLat)
	if err != nil {
		log.Fatalf("Failed to find start node: %v", err)
	}
	endNode, err := idx.Find(endLon, endLat)
	if err != nil {
		log.Fatalf("Failed to find end node: %v", err)
	}

	q := ch.NewQuery(meta)
	path, dist, nodesPopped, err := q.Route(startNode, endNode)
	if err != nil {
		log.Fatalf("No route found: %v", err)
	}

	fmt.Printf("Route: %d waypoints, %d meters, %d nodes popped\n", len(path), dist, nodesPopped)
	for _, n := range path {
		fmt.Printf("%.6f,%.6f\n", meta.Graph.NodeLat[n], meta.Graph.NodeLon[n])
	}
}

func runBenchmark(meta *ch.Metadata, numQueries int) {
	rng := rand.New(rand.NewPCG(uint64(numQueries), uint64(meta.Graph.NumNodes)))
	results := bench.Run(meta.Graph, meta, numQueries, rng)

	report := func(name string, r bench.AlgoResults, baseline int) {
		log.Printf("%s: %d/%d queries agreed with the Dijkstra baseline", name, len(r.Results), baseline)
	}
	baseline := len(results.Dijkstra.Results)
	log.Printf("Dijkstra: %d/%d queries reachable", baseline, numQueries)
	report("A*", results.AStar, baseline)
	report("Bidirectional Dijkstra", results.BidiDijkstra, baseline)
	report("Contraction Hierarchies", results.CH, baseline)
}
