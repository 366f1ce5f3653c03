// Package navigator orchestrates graph builds, route calculations, and
// benchmark runs as background jobs over a shared, swappable graph
// implementation. Long-running work runs in its own goroutine; callers get
// a job id back immediately and poll for the result.
package navigator

import (
	"context"
	"errors"
	"sync"

	"seaways/pkg/bench"
	"seaways/pkg/graph"
)

// ErrGraphNotBuilt is returned when a route or benchmark is requested before
// a graph has finished building.
var ErrGraphNotBuilt = errors.New("navigator: graph not built yet")

// Node is a routed waypoint.
type Node struct {
	Lat, Lon float64
}

// RouteRequest names the two endpoints of a requested route by coordinate;
// the navigator snaps each to its nearest graph node.
type RouteRequest struct {
	StartLat, StartLon float64
	EndLat, EndLon     float64
}

// ShipRoute is a computed route's waypoints and total distance.
type ShipRoute struct {
	Nodes      []Node
	DistMeters uint32
}

// Navigator is the graph-owning collaborator a UseCase drives. Exactly one
// implementation backs a given UseCase at a time; BuildGraph/Route swap
// state behind their own locking so a rebuild never blocks a query against
// the graph it is replacing.
type Navigator interface {
	BuildGraph(ctx context.Context) error
	Route(ctx context.Context, req RouteRequest) (*ShipRoute, error)
	Benchmark(ctx context.Context, numQueries int) (*bench.Collected, error)
	NumNodes() uint32
}

// GraphExporter writes a built graph out for external visualization. A
// UseCase calls it after a successful build only if one was supplied;
// with none configured, export is silently skipped.
type GraphExporter interface {
	Export(path string, g *graph.Graph) error
}

// UseCase wraps a Navigator with the async job bookkeeping a caller needs:
// route and benchmark requests return immediately with a handle to poll.
type UseCase struct {
	nav          Navigator
	exporter     GraphExporter
	exportPath   string
	buildRunning atomic32
	buildMu      sync.Mutex
	buildErr     error

	routesMu  sync.Mutex
	routes    map[int]ShipRoute
	nextJobID int

	benchMu      sync.Mutex
	benchRunning bool
	benchResult  *bench.Collected
}

// atomic32 is a tiny bool-like flag guarded by its own mutex; kept as a
// distinct type so its zero value ("not building") needs no constructor.
type atomic32 struct {
	mu      sync.Mutex
	running bool
}

func (a *atomic32) set(v bool) {
	a.mu.Lock()
	a.running = v
	a.mu.Unlock()
}

func (a *atomic32) get() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// NewUseCase wraps nav. exporter may be nil, matching "no export if absent".
func NewUseCase(nav Navigator, exporter GraphExporter, exportPath string) *UseCase {
	return &UseCase{nav: nav, exporter: exporter, exportPath: exportPath, routes: make(map[int]ShipRoute)}
}

// NumberOfNodes returns the current graph's node count, or 0 if none has
// been built.
func (u *UseCase) NumberOfNodes() uint32 {
	return u.nav.NumNodes()
}

// BuildGraph asks the wrapped Navigator to (re)build its graph in the
// background, then exports it if a GraphExporter was configured.
func (u *UseCase) BuildGraph() {
	u.buildRunning.set(true)
	u.buildMu.Lock()
	u.buildErr = nil
	u.buildMu.Unlock()

	go func() {
		defer u.buildRunning.set(false)
		ctx := context.Background()
		if err := u.nav.BuildGraph(ctx); err != nil {
			u.buildMu.Lock()
			u.buildErr = err
			u.buildMu.Unlock()
			return
		}
		if u.exporter != nil && u.exportPath != "" {
			if g, ok := u.nav.(interface{ Graph() *graph.Graph }); ok {
				u.exporter.Export(u.exportPath, g.Graph())
			}
		}
	}()
}

// IsBuildRunning reports whether a BuildGraph call is still in flight.
func (u *UseCase) IsBuildRunning() bool {
	return u.buildRunning.get()
}

// LastBuildError returns the error from the most recently finished
// BuildGraph call, or nil if it succeeded or is still running.
func (u *UseCase) LastBuildError() error {
	u.buildMu.Lock()
	defer u.buildMu.Unlock()
	return u.buildErr
}

// CalculateRoute computes a route in the background, returning a job id to
// poll with GetRoute. Returns ErrGraphNotBuilt if no graph is ready yet.
func (u *UseCase) CalculateRoute(req RouteRequest) (jobID int, err error) {
	if u.nav.NumNodes() == 0 {
		return 0, ErrGraphNotBuilt
	}

	u.routesMu.Lock()
	jobID = u.nextJobID
	u.nextJobID++
	u.routesMu.Unlock()

	go func() {
		route, err := u.nav.Route(context.Background(), req)
		if err != nil {
			return
		}
		u.routesMu.Lock()
		u.routes[jobID] = *route
		u.routesMu.Unlock()
	}()

	return jobID, nil
}

// GetRoute returns the route computed for jobID, if it has finished.
func (u *UseCase) GetRoute(jobID int) (ShipRoute, bool) {
	if u.nav.NumNodes() == 0 {
		return ShipRoute{}, false
	}
	u.routesMu.Lock()
	defer u.routesMu.Unlock()
	r, ok := u.routes[jobID]
	return r, ok
}

// Benchmark runs numQueries cross-engine comparison queries in the
// background. Returns ErrGraphNotBuilt if no graph is ready.
func (u *UseCase) Benchmark(numQueries int) error {
	if u.nav.NumNodes() == 0 {
		return ErrGraphNotBuilt
	}

	u.benchMu.Lock()
	u.benchRunning = true
	u.benchMu.Unlock()

	go func() {
		result, err := u.nav.Benchmark(context.Background(), numQueries)
		u.benchMu.Lock()
		defer u.benchMu.Unlock()
		u.benchRunning = false
		if err == nil {
			u.benchResult = result
		}
	}()
	return nil
}

// IsBenchmarkFinished reports whether the most recently started benchmark
// run has completed.
func (u *UseCase) IsBenchmarkFinished() bool {
	u.benchMu.Lock()
	defer u.benchMu.Unlock()
	return !u.benchRunning && u.benchResult != nil
}

// BenchmarkResults returns the most recently completed benchmark's results.
func (u *UseCase) BenchmarkResults() (bench.Collected, bool) {
	u.benchMu.Lock()
	defer u.benchMu.Unlock()
	if u.benchResult == nil {
		return bench.Collected{}, false
	}
	return *u.benchResult, true
}
