// Package geo provides the coarse inside-India classification used by the
// point ingestion pipeline.
package geo

// India bounding box, inclusive on all four edges.
const (
	MinLat = 6.0
	MaxLat = 38.0
	MinLon = 68.0
	MaxLon = 98.0
)

// IsInsideIndia reports whether the coordinate falls within the fixed
// rectangle approximating India's extent.
func IsInsideIndia(lat, lon float64) bool {
	return lat >= MinLat && lat <= MaxLat && lon >= MinLon && lon <= MaxLon
}
