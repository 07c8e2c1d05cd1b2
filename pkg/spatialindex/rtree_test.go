package spatialindex

import (
	"testing"

	"github.com/lintang-b-s/simpleroute/pkg/geo"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

func TestRtreeSearchWithinRadius(t *testing.T) {
	rd := rand.New(rand.NewSource(3))
	coords := randomCoords(rd, 800, -7.8, 110.3, 0.2)
	rt := NewRtree()
	rt.Build(pointGraph(coords), zap.NewNop())
	assert.Equal(t, len(coords), rt.Len())

	qLat, qLon := -7.7, 110.4
	radius := 2.0 // km

	got := rt.SearchWithinRadius(qLat, qLon, radius, 0)
	want := 0
	for _, c := range coords {
		if geo.CalculateHaversineDistanceMeter(qLat, qLon, c[0], c[1]) <= radius*1000 {
			want++
		}
	}
	assert.Equal(t, want, len(got))
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Distance, got[i].Distance)
	}

	limited := rt.SearchWithinRadius(qLat, qLon, radius, 3)
	assert.LessOrEqual(t, len(limited), 3)
	if len(got) >= 3 {
		assert.Equal(t, got[:3], limited)
	}

	grid, err := NewGrid(pointGraph(coords), 10, 10)
	assert.NoError(t, err)
	if len(got) > 0 {
		assert.Equal(t, grid.Closest(qLat, qLon), got[0].Node)
	}
}
