package services

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoportal/internal/models"
	"geoportal/internal/repositories"
)

func newTestIngestService() (IngestService, repositories.PointRepository) {
	points := repositories.NewPointRepository()
	return NewIngestService(points, repositories.NewShapefileRepository()), points
}

func TestIngestManual(t *testing.T) {
	s, points := newTestIngestService()

	p, err := s.IngestManual("20.5", "78.9")
	require.NoError(t, err)
	assert.True(t, p.Inside)
	assert.Equal(t, models.PointSourceInput, p.Source)

	p, err = s.IngestManual("51.5", "-0.12")
	require.NoError(t, err)
	assert.False(t, p.Inside)

	assert.Len(t, points.All(), 2)
}

func TestIngestManualRejectsBadInput(t *testing.T) {
	s, points := newTestIngestService()

	_, err := s.IngestManual("", "78.9")
	assert.ErrorIs(t, err, ErrMissingCoordinate)

	_, err = s.IngestManual("20.5", "  ")
	assert.ErrorIs(t, err, ErrMissingCoordinate)

	_, err = s.IngestManual("abc", "78.9")
	assert.ErrorIs(t, err, ErrInvalidCoordinate)

	assert.Empty(t, points.All())
}

func TestIngestCSVSkipsMalformedRows(t *testing.T) {
	s, points := newTestIngestService()

	summary, err := s.IngestCSV(strings.NewReader("10,80\nbad,row\n40,100"))
	require.NoError(t, err)
	assert.Equal(t, models.CSVSummary{Total: 2, Added: 2, Outside: 1}, summary)

	all := points.All()
	require.Len(t, all, 2)
	assert.True(t, all[0].Inside)
	assert.Equal(t, models.PointSourceCSV, all[0].Source)
	assert.False(t, all[1].Inside)
}

func TestIngestCSVSkipsShortRows(t *testing.T) {
	s, _ := newTestIngestService()

	summary, err := s.IngestCSV(strings.NewReader("10\n\n20,90,extra\n"))
	require.NoError(t, err)
	assert.Equal(t, models.CSVSummary{Total: 1, Added: 1, Outside: 0}, summary)
}

func TestIngestShapefilePreservesSlotOnFailure(t *testing.T) {
	shapes := repositories.NewShapefileRepository()
	s := NewIngestService(repositories.NewPointRepository(), shapes)

	prior := geojson.NewFeatureCollection()
	prior.Append(geojson.NewFeature(orb.Point{77.2, 28.6}))
	shapes.Set(prior)

	_, err := s.IngestShapefile(strings.NewReader("not a zip archive"))
	assert.ErrorIs(t, err, ErrShapefileParse)
	assert.Same(t, prior, shapes.Get())
}
