package costfunction

import (
	"github.com/lintang-b-s/simpleroute/pkg"
	"github.com/lintang-b-s/simpleroute/pkg/util"
)

// TimeFunction. weight = travel time in second at min(edge speed, vehicle max speed)
type TimeFunction struct {
	AccessFilter
	vehicleMaxSpeed float64 // km/h
}

func NewTimeCostFunction(mask pkg.AccessType, vehicleMaxSpeed float64) (*TimeFunction, error) {
	af, err := NewAccessFilter(mask)
	if err != nil {
		return nil, err
	}
	if vehicleMaxSpeed <= 0 {
		return nil, util.WrapErrorf(nil, util.ErrInvalidConfiguration, "vehicle max speed must be positive, got %f", vehicleMaxSpeed)
	}
	return &TimeFunction{AccessFilter: af, vehicleMaxSpeed: vehicleMaxSpeed}, nil
}

func (tf *TimeFunction) GetWeight(e EdgeAttributes) float64 {
	speed := min(e.GetEdgeSpeed(), tf.vehicleMaxSpeed)
	if speed <= 0 {
		return pkg.INF_WEIGHT
	}
	return e.GetLength() / (speed / 3.6)
}

// LowerBound. no edge is traversed faster than the vehicle max speed
func (tf *TimeFunction) LowerBound(distMeter float64) float64 {
	return distMeter / (tf.vehicleMaxSpeed / 3.6)
}

func (tf *TimeFunction) GetVehicleMaxSpeed() float64 {
	return tf.vehicleMaxSpeed
}
