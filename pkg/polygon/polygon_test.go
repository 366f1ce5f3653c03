package polygon

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// square is the axis-aligned square with vertices (0,0),(10,0),(10,10),(0,10).
var square = orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}

func TestContainsSquare(t *testing.T) {
	idx := Build([]orb.Ring{square})
	require.NotNil(t, idx)

	tests := []struct {
		name     string
		lon, lat float64
		want     bool
	}{
		{"interior", 5, 5, true},
		{"west of square", -1, 5, false},
		{"top edge vertex rule", 5, 10, true},
		{"just east of the square", 10.0001, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, idx.Contains(tt.lon, tt.lat))
		})
	}
}

func TestContainsEmptyPolygonList(t *testing.T) {
	idx := Build(nil)
	assert.False(t, idx.Contains(5, 5), "empty polygon list should never report land")
}

func TestContainsPoleGuard(t *testing.T) {
	idx := Build(nil)
	assert.True(t, idx.Contains(0, -85.06), "latitude <= -85.05 should always be land (Antarctic extension)")
	assert.True(t, idx.Contains(180, -77.8), "polygon seam at |lon|==180, lat<=-77.75 should be land")
	assert.False(t, idx.Contains(90, -77.8), "seam heuristic should not trigger away from |lon|==180")
}
