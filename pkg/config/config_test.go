package config

import "testing"

func TestParseRequiresCoastlinesFile(t *testing.T) {
	if _, err := Parse([]string{"-nodes", "500"}); err == nil {
		t.Fatal("expected an error when -coastlines is missing")
	}
}

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]string{"-coastlines", "land.geojson"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.NumberOfNodes != DefaultNumberOfNodes {
		t.Errorf("NumberOfNodes = %d, want %d", cfg.NumberOfNodes, DefaultNumberOfNodes)
	}
	if cfg.ForceRebuildGraph || cfg.BuildGraphOnStartup || cfg.MaxTestMode {
		t.Error("boolean flags should default to false")
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]string{
		"-coastlines", "land.geojson",
		"-nodes", "5000",
		"-force-rebuild-graph",
		"-geojson-export-path", "out.geojson",
		"-build-graph-on-startup",
		"-max-test",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.NumberOfNodes != 5000 {
		t.Errorf("NumberOfNodes = %d, want 5000", cfg.NumberOfNodes)
	}
	if !cfg.ForceRebuildGraph || !cfg.BuildGraphOnStartup || !cfg.MaxTestMode {
		t.Error("boolean flags should be true when set")
	}
	if cfg.GeoJSONExportPath != "out.geojson" {
		t.Errorf("GeoJSONExportPath = %q, want out.geojson", cfg.GeoJSONExportPath)
	}
}
