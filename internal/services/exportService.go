package services

import (
	"encoding/csv"
	"io"
	"strconv"

	"geoportal/internal/metrics"
	"geoportal/internal/repositories"
)

const exportTimeLayout = "2006-01-02 15:04:05"

// ExportService renders the shared point sequence as CSV. Both exports are
// projections of the store at call time; there is no snapshot isolation
// against concurrent ingestion.
type ExportService interface {
	WriteAll(w io.Writer) error
	WriteOutside(w io.Writer) error
}

type exportService struct {
	pointRepo repositories.PointRepository
}

func NewExportService(pointRepo repositories.PointRepository) ExportService {
	return &exportService{pointRepo: pointRepo}
}

func (s *exportService) WriteAll(w io.Writer) error {
	wr := csv.NewWriter(w)
	if err := wr.Write([]string{"Index", "Latitude", "Longitude", "InsideIndia", "Created", "Source"}); err != nil {
		return err
	}

	for i, p := range s.pointRepo.All() {
		inside := "No"
		if p.Inside {
			inside = "Yes"
		}
		row := []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(p.Lat, 'f', -1, 64),
			strconv.FormatFloat(p.Lon, 'f', -1, 64),
			inside,
			p.CreatedAt.Format(exportTimeLayout),
			p.Source,
		}
		if err := wr.Write(row); err != nil {
			return err
		}
	}

	wr.Flush()
	metrics.ExportsTotal.WithLabelValues("all").Inc()
	return wr.Error()
}

func (s *exportService) WriteOutside(w io.Writer) error {
	wr := csv.NewWriter(w)
	if err := wr.Write([]string{"Index", "Latitude", "Longitude", "Created", "Source"}); err != nil {
		return err
	}

	for i, p := range s.pointRepo.Outside() {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(p.Lat, 'f', -1, 64),
			strconv.FormatFloat(p.Lon, 'f', -1, 64),
			p.CreatedAt.Format(exportTimeLayout),
			p.Source,
		}
		if err := wr.Write(row); err != nil {
			return err
		}
	}

	wr.Flush()
	metrics.ExportsTotal.WithLabelValues("outside").Inc()
	return wr.Error()
}
