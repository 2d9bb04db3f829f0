package services

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"

	"geoportal/internal/geo"
	"geoportal/internal/metrics"
	"geoportal/internal/models"
	"geoportal/internal/repositories"
)

var (
	ErrMissingCoordinate = errors.New("latitude and longitude are required")
	ErrInvalidCoordinate = errors.New("latitude/longitude must be numeric")
	ErrCSVRead           = errors.New("csv file read error")
	ErrShapefileParse    = errors.New("error reading shapefile")
)

// IngestService is the point ingestion pipeline: every variant classifies
// coordinates against the India bounding box and appends to the shared
// point sequence. Nothing ever removes or mutates existing points.
type IngestService interface {
	IngestManual(latStr, lonStr string) (models.Point, error)
	IngestCSV(r io.Reader) (models.CSVSummary, error)
	// IngestShapefile reads a zipped shapefile archive, converts it to a
	// GeoJSON feature collection and replaces the process-wide slot. The
	// previous collection is preserved when parsing fails.
	IngestShapefile(r io.Reader) (featureCount int, err error)
}

type ingestService struct {
	pointRepo     repositories.PointRepository
	shapefileRepo repositories.ShapefileRepository
	now           func() time.Time
}

func NewIngestService(pointRepo repositories.PointRepository, shapefileRepo repositories.ShapefileRepository) IngestService {
	return &ingestService{pointRepo: pointRepo, shapefileRepo: shapefileRepo, now: time.Now}
}

func (s *ingestService) IngestManual(latStr, lonStr string) (models.Point, error) {
	latStr = strings.TrimSpace(latStr)
	lonStr = strings.TrimSpace(lonStr)
	if latStr == "" || lonStr == "" {
		return models.Point{}, ErrMissingCoordinate
	}

	lat, latErr := strconv.ParseFloat(latStr, 64)
	lon, lonErr := strconv.ParseFloat(lonStr, 64)
	if latErr != nil || lonErr != nil {
		return models.Point{}, ErrInvalidCoordinate
	}

	p := models.Point{
		Lat:       lat,
		Lon:       lon,
		Source:    models.PointSourceInput,
		Inside:    geo.IsInsideIndia(lat, lon),
		CreatedAt: s.now(),
	}
	s.pointRepo.Append(p)
	metrics.PointsIngestedTotal.WithLabelValues(models.PointSourceInput).Inc()
	return p, nil
}

func (s *ingestService) IngestCSV(r io.Reader) (models.CSVSummary, error) {
	rdr := csv.NewReader(r)
	rdr.FieldsPerRecord = -1

	var summary models.CSVSummary
	for {
		row, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// malformed line, skipped like any unparsable row
			continue
		}
		if len(row) < 2 {
			continue
		}

		lat, latErr := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if latErr != nil || lonErr != nil {
			continue
		}

		summary.Total++
		inside := geo.IsInsideIndia(lat, lon)
		s.pointRepo.Append(models.Point{
			Lat:       lat,
			Lon:       lon,
			Source:    models.PointSourceCSV,
			Inside:    inside,
			CreatedAt: s.now(),
		})
		summary.Added++
		if !inside {
			summary.Outside++
		}
	}

	metrics.PointsIngestedTotal.WithLabelValues(models.PointSourceCSV).Add(float64(summary.Added))
	log.Info().Int("total", summary.Total).Int("added", summary.Added).Int("outside", summary.Outside).Msg("CSV ingested")
	return summary, nil
}

func (s *ingestService) IngestShapefile(r io.Reader) (int, error) {
	tmp, err := os.CreateTemp("", "geoportal-shapefile-*.zip")
	if err != nil {
		log.Error().Err(err).Msg("Failed to create temp file for shapefile upload")
		return 0, ErrShapefileParse
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		log.Error().Err(err).Msg("Failed to spool shapefile upload")
		return 0, ErrShapefileParse
	}
	if err := tmp.Close(); err != nil {
		return 0, ErrShapefileParse
	}

	fc, err := readShapefileZip(tmpPath)
	if err != nil {
		metrics.ShapefileUploadsTotal.WithLabelValues("failed").Inc()
		log.Error().Err(err).Msg("Failed to parse shapefile archive")
		return 0, ErrShapefileParse
	}

	s.shapefileRepo.Set(fc)
	metrics.ShapefileUploadsTotal.WithLabelValues("success").Inc()
	log.Info().Int("features", len(fc.Features)).Msg("Shapefile loaded")
	return len(fc.Features), nil
}

func readShapefileZip(path string) (*geojson.FeatureCollection, error) {
	zr, err := shp.OpenZip(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	fields := zr.Fields()
	fc := geojson.NewFeatureCollection()
	for zr.Next() {
		_, shape := zr.Shape()
		geom := shapeGeometry(shape)
		if geom == nil {
			continue
		}

		f := geojson.NewFeature(geom)
		for i, field := range fields {
			f.Properties[field.String()] = zr.Attribute(i)
		}
		fc.Append(f)
	}
	if err := zr.Err(); err != nil {
		return nil, err
	}
	return fc, nil
}

// shapeGeometry maps the shapefile geometry types the portal cares about to
// orb geometries. Unsupported types yield nil and the feature is skipped.
func shapeGeometry(shape shp.Shape) orb.Geometry {
	switch v := shape.(type) {
	case *shp.Point:
		return orb.Point{v.X, v.Y}
	case *shp.PointZ:
		return orb.Point{v.X, v.Y}
	case *shp.PointM:
		return orb.Point{v.X, v.Y}
	case *shp.PolyLine:
		return orb.MultiLineString(partsToLines(v.Parts, v.Points))
	case *shp.PolyLineZ:
		return orb.MultiLineString(partsToLines(v.Parts, v.Points))
	case *shp.Polygon:
		return linesToPolygon(partsToLines(v.Parts, v.Points))
	case *shp.PolygonZ:
		return linesToPolygon(partsToLines(v.Parts, v.Points))
	default:
		return nil
	}
}

func partsToLines(parts []int32, points []shp.Point) []orb.LineString {
	lines := make([]orb.LineString, 0, len(parts))
	for i, start := range parts {
		end := len(points)
		if i+1 < len(parts) {
			end = int(parts[i+1])
		}
		line := make(orb.LineString, 0, end-int(start))
		for _, p := range points[start:end] {
			line = append(line, orb.Point{p.X, p.Y})
		}
		lines = append(lines, line)
	}
	return lines
}

func linesToPolygon(lines []orb.LineString) orb.Polygon {
	poly := make(orb.Polygon, 0, len(lines))
	for _, line := range lines {
		poly = append(poly, orb.Ring(line))
	}
	return poly
}
