package navigator

import (
	"testing"
	"time"

	"seaways/pkg/config"
	"seaways/pkg/polygon"
)

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func newTestUseCase(t *testing.T, numberOfNodes uint32) *UseCase {
	t.Helper()
	cfg := &config.Config{
		CoastlinesFile:    t.TempDir() + "/coastlines.geojson",
		NumberOfNodes:     numberOfNodes,
		ForceRebuildGraph: true,
	}
	land := polygon.Build(nil)
	return NewUseCase(NewGridNavigator(cfg, land), nil, "")
}

func TestBuildGraphAndCalculateRoute(t *testing.T) {
	u := newTestUseCase(t, 200)
	u.BuildGraph()

	waitUntil(t, 5*time.Second, func() bool { return u.NumberOfNodes() > 0 })

	jobID, err := u.CalculateRoute(RouteRequest{StartLat: 0, StartLon: 0, EndLat: 10, EndLon: 10})
	if err != nil {
		t.Fatalf("CalculateRoute: %v", err)
	}

	var route ShipRoute
	waitUntil(t, 5*time.Second, func() bool {
		r, ok := u.GetRoute(jobID)
		if ok {
			route = r
		}
		return ok
	})

	if len(route.Nodes) == 0 {
		t.Error("expected a non-empty route")
	}
}

func TestCalculateRouteBeforeBuildErrors(t *testing.T) {
	u := newTestUseCase(t, 200)
	if _, err := u.CalculateRoute(RouteRequest{}); err != ErrGraphNotBuilt {
		t.Errorf("CalculateRoute before build = %v, want ErrGraphNotBuilt", err)
	}
}

func TestBenchmarkBeforeBuildErrors(t *testing.T) {
	u := newTestUseCase(t, 200)
	if err := u.Benchmark(5); err != ErrGraphNotBuilt {
		t.Errorf("Benchmark before build = %v, want ErrGraphNotBuilt", err)
	}
}

func TestBenchmarkRuns(t *testing.T) {
	u := newTestUseCase(t, 200)
	u.BuildGraph()
	waitUntil(t, 5*time.Second, func() bool { return u.NumberOfNodes() > 0 })

	if err := u.Benchmark(5); err != nil {
		t.Fatalf("Benchmark: %v", err)
	}
	waitUntil(t, 5*time.Second, u.IsBenchmarkFinished)

	results, ok := u.BenchmarkResults()
	if !ok {
		t.Fatal("expected benchmark results to be available")
	}
	if len(results.Dijkstra.Results) == 0 {
		t.Error("expected at least one benchmark query to succeed")
	}
}
