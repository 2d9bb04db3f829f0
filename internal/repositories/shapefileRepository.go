package repositories

import (
	"sync"

	"github.com/paulmach/orb/geojson"
)

// ShapefileRepository is the single process-wide slot for the most recently
// uploaded shapefile, held as a GeoJSON feature collection. Set replaces the
// value wholesale.
type ShapefileRepository interface {
	Set(fc *geojson.FeatureCollection)
	Get() *geojson.FeatureCollection
}

type shapefileRepository struct {
	mu sync.RWMutex
	fc *geojson.FeatureCollection
}

func NewShapefileRepository() ShapefileRepository {
	return &shapefileRepository{}
}

func (r *shapefileRepository) Set(fc *geojson.FeatureCollection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fc = fc
}

func (r *shapefileRepository) Get() *geojson.FeatureCollection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fc
}
