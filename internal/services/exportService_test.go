package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoportal/internal/models"
	"geoportal/internal/repositories"
)

func seedExportPoints(t *testing.T) ExportService {
	t.Helper()
	points := repositories.NewPointRepository()
	created := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	points.Append(
		models.Point{Lat: 10, Lon: 80, Source: models.PointSourceCSV, Inside: true, CreatedAt: created},
		models.Point{Lat: 40, Lon: 100, Source: models.PointSourceCSV, Inside: false, CreatedAt: created},
		models.Point{Lat: 20.5, Lon: 78.9, Source: models.PointSourceInput, Inside: true, CreatedAt: created},
		models.Point{Lat: 51.5, Lon: -0.12, Source: models.PointSourceInput, Inside: false, CreatedAt: created},
	)
	return NewExportService(points)
}

func TestWriteAll(t *testing.T) {
	s := seedExportPoints(t)

	var buf bytes.Buffer
	require.NoError(t, s.WriteAll(&buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Index", "Latitude", "Longitude", "InsideIndia", "Created", "Source"}, rows[0])
	assert.Equal(t, []string{"1", "10", "80", "Yes", "2026-08-31 12:00:00", "csv"}, rows[1])
	assert.Equal(t, []string{"2", "40", "100", "No", "2026-08-31 12:00:00", "csv"}, rows[2])
	assert.Equal(t, []string{"4", "51.5", "-0.12", "No", "2026-08-31 12:00:00", "input"}, rows[4])
}

func TestWriteOutsideIsConsistentSubsetOfAll(t *testing.T) {
	s := seedExportPoints(t)

	var all, outside bytes.Buffer
	require.NoError(t, s.WriteAll(&all))
	require.NoError(t, s.WriteOutside(&outside))

	allRows, err := csv.NewReader(&all).ReadAll()
	require.NoError(t, err)
	outsideRows, err := csv.NewReader(&outside).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"Index", "Latitude", "Longitude", "Created", "Source"}, outsideRows[0])

	// outside export equals the inside=No subset of the all export, in the
	// same relative order, with the flag column dropped and indexes renumbered
	var want [][]string
	for _, row := range allRows[1:] {
		if row[3] == "No" {
			want = append(want, []string{row[1], row[2], row[4], row[5]})
		}
	}
	require.Len(t, outsideRows[1:], len(want))
	for i, row := range outsideRows[1:] {
		assert.Equal(t, strconv.Itoa(i+1), row[0])
		assert.Equal(t, want[i], row[1:])
	}
}
