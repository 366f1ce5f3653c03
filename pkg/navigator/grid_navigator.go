package navigator

import (
	"context"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"seaways/pkg/bench"
	"seaways/pkg/ch"
	"seaways/pkg/config"
	"seaways/pkg/graph"
	"seaways/pkg/gridbuild"
	"seaways/pkg/nearest"
	"seaways/pkg/polygon"
)

// GridNavigator is the concrete Navigator that places nodes over a land
// mask, contracts the resulting graph, and answers queries against it. It
// is grounded on the original in-memory navigator's read-or-create cache
// behavior: a build first looks for a graph/CH file matching the
// configured node count and only recomputes when one is missing (a
// mismatched node count simply names a different cache file, so no
// separate mismatch check is needed).
type GridNavigator struct {
	cfg  *config.Config
	land *polygon.Index

	mu     sync.RWMutex
	graph  *graph.Graph
	chMeta *ch.Metadata
	query  *ch.Query
	index  *nearest.Index
}

// NewGridNavigator returns a GridNavigator that will place cfg.NumberOfNodes
// nodes over land's complement on the next BuildGraph call.
func NewGridNavigator(cfg *config.Config, land *polygon.Index) *GridNavigator {
	return &GridNavigator{cfg: cfg, land: land}
}

// NumNodes returns the current graph's node count, or 0 if none has been
// built yet.
func (g *GridNavigator) NumNodes() uint32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.graph == nil {
		return 0
	}
	return g.graph.NumNodes
}

// Graph exposes the current graph for the export seam; nil until a build
// completes.
func (g *GridNavigator) Graph() *graph.Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.graph
}

// BuildGraph loads a cached graph and CH metadata file matching the
// configured coastlines file and node count, or places and contracts a
// fresh one when the cache is absent or ForceRebuildGraph is set.
func (g *GridNavigator) BuildGraph(ctx context.Context) error {
	graphPath := graph.GraphFileName(g.cfg.CoastlinesFile, g.cfg.NumberOfNodes)
	chPath := graph.CHFileName(g.cfg.CoastlinesFile, g.cfg.NumberOfNodes)

	if !g.cfg.ForceRebuildGraph {
		if gr, meta, ok := loadCached(graphPath, chPath); ok {
			g.swapState(gr, meta)
			return nil
		}
	}

	gr := gridbuild.Build(g.land, int(g.cfg.NumberOfNodes))
	component := graph.LargestComponent(gr)
	gr = graph.FilterToComponent(gr, component)

	rng := rand.New(rand.NewPCG(uint64(g.cfg.NumberOfNodes), uint64(gr.NumEdges)))
	meta := ch.Build(gr, rng)

	if err := graph.WriteBinary(graphPath, gr); err != nil {
		return err
	}
	if err := ch.WriteMetadata(chPath, meta); err != nil {
		return err
	}

	g.swapState(gr, meta)
	return nil
}

func loadCached(graphPath, chPath string) (*graph.Graph, *ch.Metadata, bool) {
	if _, err := os.Stat(graphPath); err != nil {
		return nil, nil, false
	}
	meta, err := ch.ReadMetadata(chPath)
	if err != nil {
		return nil, nil, false
	}
	return meta.Graph, meta, true
}

func (g *GridNavigator) swapState(gr *graph.Graph, meta *ch.Metadata) {
	idx := nearest.Build(gr.NodeLat, gr.NodeLon)
	query := ch.NewQuery(meta)

	g.mu.Lock()
	g.graph, g.chMeta, g.query, g.index = gr, meta, query, idx
	g.mu.Unlock()
}

// Route snaps req's endpoints to the nearest graph nodes and returns the
// shortest path between them.
func (g *GridNavigator) Route(ctx context.Context, req RouteRequest) (*ShipRoute, error) {
	g.mu.RLock()
	gr, query, idx := g.graph, g.query, g.index
	g.mu.RUnlock()
	if gr == nil {
		return nil, ErrGraphNotBuilt
	}

	startNode, err := idx.Find(req.StartLon, req.StartLat)
	if err != nil {
		return nil, err
	}
	endNode, err := idx.Find(req.EndLon, req.EndLat)
	if err != nil {
		return nil, err
	}
	path, dist, _, err := query.Route(startNode, endNode)
	if err != nil {
		return nil, err
	}

	nodes := make([]Node, len(path))
	for i, id := range path {
		nodes[i] = Node{Lat: gr.NodeLat[id], Lon: gr.NodeLon[id]}
	}
	return &ShipRoute{Nodes: nodes, DistMeters: dist}, nil
}

// Benchmark cross-checks the path engines against each other over
// numQueries random node pairs drawn from the current graph.
func (g *GridNavigator) Benchmark(ctx context.Context, numQueries int) (*bench.Collected, error) {
	g.mu.RLock()
	gr, meta := g.graph, g.chMeta
	g.mu.RUnlock()
	if gr == nil {
		return nil, ErrGraphNotBuilt
	}

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(numQueries)))
	result := bench.Run(gr, meta, numQueries, rng)
	return &result, nil
}
