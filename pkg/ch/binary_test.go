package ch

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadMetadataRoundTrip(t *testing.T) {
	g := buildTrivialGraph(t)
	rng := rand.New(rand.NewPCG(5, 6))
	meta := Build(g, rng)

	path := filepath.Join(t.TempDir(), "test.0.cn_meta")
	require.NoError(t, WriteMetadata(path, meta))

	got, err := ReadMetadata(path)
	require.NoError(t, err)

	assert.Equal(t, meta.Graph.NumNodes, got.Graph.NumNodes)
	assert.Equal(t, meta.Graph.NumEdges, got.Graph.NumEdges)
	require.Equal(t, len(meta.ShortcutsBySource), len(got.ShortcutsBySource))
	for source, scs := range meta.ShortcutsBySource {
		gotScs, ok := got.ShortcutsBySource[source]
		require.Truef(t, ok, "source %d missing after round trip", source)
		assert.Lenf(t, gotScs, len(scs), "source %d: shortcuts mismatch", source)
	}
}

func TestReadMetadataRejectsCorruption(t *testing.T) {
	g := buildTrivialGraph(t)
	rng := rand.New(rand.NewPCG(1, 1))
	meta := Build(g, rng)

	path := filepath.Join(t.TempDir(), "test.0.cn_meta")
	require.NoError(t, WriteMetadata(path, meta))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0644))

	_, err = ReadMetadata(path)
	assert.Error(t, err, "expected ReadMetadata to reject corrupted data")
}
