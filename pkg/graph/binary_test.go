package graph

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteReadBinaryRoundTrip(t *testing.T) {
	g := buildDirected(4, [][3]uint32{
		{0, 1, 10}, {1, 0, 10},
		{1, 2, 20}, {2, 1, 20},
		{2, 3, 30}, {3, 2, 30},
	})
	g.NodeLat = []float64{1.0, 1.1, 1.2, 1.3}
	g.NodeLon = []float64{103.0, 103.1, 103.2, 103.3}

	path := filepath.Join(t.TempDir(), GraphFileName("test", g.NumNodes))
	if err := WriteBinary(path, g); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}

	got, err := ReadBinary(path)
	if err != nil {
		t.Fatalf("ReadBinary: %v", err)
	}

	if got.NumNodes != g.NumNodes || got.NumEdges != g.NumEdges {
		t.Fatalf("dims mismatch: got (%d,%d) want (%d,%d)", got.NumNodes, got.NumEdges, g.NumNodes, g.NumEdges)
	}
	for i := range g.Head {
		if got.Head[i] != g.Head[i] || got.Weight[i] != g.Weight[i] {
			t.Errorf("edge %d mismatch: got (%d,%d) want (%d,%d)", i, got.Head[i], got.Weight[i], g.Head[i], g.Weight[i])
		}
	}
	for i := range g.NodeLat {
		if got.NodeLat[i] != g.NodeLat[i] || got.NodeLon[i] != g.NodeLon[i] {
			t.Errorf("node %d coord mismatch", i)
		}
	}
}

func TestReadBinaryRejectsCorruption(t *testing.T) {
	g := buildDirected(2, [][3]uint32{{0, 1, 5}, {1, 0, 5}})
	path := filepath.Join(t.TempDir(), "corrupt.bin_new")
	if err := WriteBinary(path, g); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data[len(data)-1] ^= 0xFF // flip a byte in the CRC trailer
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadBinary(path); err == nil {
		t.Fatal("expected CRC mismatch error, got nil")
	}
}

func TestGraphFileNames(t *testing.T) {
	if got := GraphFileName("atlantic", 1000); got != "atlantic.1000.bin_new" {
		t.Errorf("GraphFileName = %q", got)
	}
	if got := CHFileName("atlantic", 1000); got != "atlantic.1000.cn_meta" {
		t.Errorf("CHFileName = %q", got)
	}
}
