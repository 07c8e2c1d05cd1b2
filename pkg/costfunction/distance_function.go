package costfunction

import (
	"github.com/lintang-b-s/simpleroute/pkg"
)

// DistanceFunction. weight = edge length in meter
type DistanceFunction struct {
	AccessFilter
}

func NewDistanceCostFunction(mask pkg.AccessType) (*DistanceFunction, error) {
	af, err := NewAccessFilter(mask)
	if err != nil {
		return nil, err
	}
	return &DistanceFunction{AccessFilter: af}, nil
}

func (df *DistanceFunction) GetWeight(e EdgeAttributes) float64 {
	return e.GetLength()
}

// LowerBound. edge length is never shorter than the great-circle distance between its endpoints
func (df *DistanceFunction) LowerBound(distMeter float64) float64 {
	return distMeter
}

// UnitFunction. weight = 1 per edge, a weighted router with it minimizes hop count
type UnitFunction struct {
	AccessFilter
}

func NewUnitCostFunction(mask pkg.AccessType) (*UnitFunction, error) {
	af, err := NewAccessFilter(mask)
	if err != nil {
		return nil, err
	}
	return &UnitFunction{AccessFilter: af}, nil
}

func (uf *UnitFunction) GetWeight(e EdgeAttributes) float64 {
	return 1
}
