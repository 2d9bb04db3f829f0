package repositories

import (
	"sync"

	"geoportal/internal/models"
)

// PointRepository is the shared append-only point sequence. Points are never
// removed or mutated; All and Outside return copies in insertion order.
type PointRepository interface {
	Append(points ...models.Point)
	All() []models.Point
	Outside() []models.Point
}

type pointRepository struct {
	mu     sync.RWMutex
	points []models.Point
}

func NewPointRepository() PointRepository {
	return &pointRepository{}
}

func (r *pointRepository) Append(points ...models.Point) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.points = append(r.points, points...)
}

func (r *pointRepository) All() []models.Point {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Point, len(r.points))
	copy(out, r.points)
	return out
}

func (r *pointRepository) Outside() []models.Point {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Point
	for _, p := range r.points {
		if !p.Inside {
			out = append(out, p)
		}
	}
	return out
}
