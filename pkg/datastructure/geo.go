package datastructure

// BoundingBox. lat/lon rectangle in degree
type BoundingBox struct {
	minLat, minLon float64
	maxLat, maxLon float64
}

func NewBoundingBox(minLat, minLon, maxLat, maxLon float64) *BoundingBox {
	return &BoundingBox{minLat: minLat,
		minLon: minLon,
		maxLat: maxLat,
		maxLon: maxLon}
}

func (b *BoundingBox) GetMinLat() float64 {
	return b.minLat
}

func (b *BoundingBox) GetMinLon() float64 {
	return b.minLon
}

func (b *BoundingBox) GetMaxLat() float64 {
	return b.maxLat
}

func (b *BoundingBox) GetMaxLon() float64 {
	return b.maxLon
}

func (b *BoundingBox) LatSpan() float64 {
	return b.maxLat - b.minLat
}

func (b *BoundingBox) LonSpan() float64 {
	return b.maxLon - b.minLon
}

// Pad. new box grown by padding degree on every side
func (b *BoundingBox) Pad(padding float64) *BoundingBox {
	return NewBoundingBox(b.minLat-padding, b.minLon-padding, b.maxLat+padding, b.maxLon+padding)
}

func (b *BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.minLat && lat <= b.maxLat && lon >= b.minLon && lon <= b.maxLon
}
