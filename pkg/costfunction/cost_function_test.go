package costfunction

import (
	"errors"
	"testing"

	"github.com/lintang-b-s/simpleroute/pkg"
	da "github.com/lintang-b-s/simpleroute/pkg/datastructure"
	"github.com/lintang-b-s/simpleroute/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessFilter(t *testing.T) {
	footBike := da.NewEdge(0, 1, false, pkg.PATH, pkg.ACCESS_FOOT|pkg.ACCESS_BIKE, 0, 10)

	testCases := []struct {
		name string
		mask pkg.AccessType
		want bool
	}{
		{name: "foot", mask: pkg.ACCESS_FOOT, want: true},
		{name: "car", mask: pkg.ACCESS_CAR, want: false},
		{name: "car or bike", mask: pkg.ACCESS_CAR | pkg.ACCESS_BIKE, want: true},
		{name: "empty mask", mask: pkg.ACCESS_NONE, want: false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			af, err := NewAccessFilter(tt.mask)
			require.NoError(t, err)
			assert.Equal(t, tt.want, af.IsAllowed(&footBike))
		})
	}

	_, err := NewAccessFilter(pkg.AccessType(8))
	assert.True(t, errors.Is(err, util.ErrInvalidConfiguration))
}

func TestDistanceAndUnitCost(t *testing.T) {
	e := da.NewEdge(0, 1, false, pkg.PRIMARY, pkg.ACCESS_ALL, 60, 250)

	df, err := NewDistanceCostFunction(pkg.ACCESS_CAR)
	require.NoError(t, err)
	assert.Equal(t, 250.0, df.GetWeight(&e))
	assert.Equal(t, 42.0, df.LowerBound(42))

	uf, err := NewUnitCostFunction(pkg.ACCESS_CAR)
	require.NoError(t, err)
	assert.Equal(t, 1.0, uf.GetWeight(&e))
}

func TestTimeCost(t *testing.T) {
	fast := da.NewEdge(0, 1, false, pkg.PRIMARY, pkg.ACCESS_ALL, 100, 1000)
	slow := da.NewEdge(0, 1, false, pkg.RESIDENTIAL, pkg.ACCESS_ALL, 0, 1000)

	tf, err := NewTimeCostFunction(pkg.ACCESS_CAR, 36)
	require.NoError(t, err)

	// capped by the vehicle: 36 km/h = 10 m/s
	assert.InDelta(t, 100.0, tf.GetWeight(&fast), 1e-9)
	// residential default speed 30 km/h
	assert.InDelta(t, 120.0, tf.GetWeight(&slow), 1e-9)
	assert.InDelta(t, 100.0, tf.LowerBound(1000), 1e-9)
	assert.LessOrEqual(t, tf.LowerBound(1000), tf.GetWeight(&slow))

	_, err = NewTimeCostFunction(pkg.ACCESS_CAR, 0)
	assert.True(t, errors.Is(err, util.ErrInvalidConfiguration))
}
