package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"geoportal/internal/services"
)

// ExportHandler serves the point sequence as downloadable CSV attachments.
type ExportHandler struct {
	exportService services.ExportService
}

func NewExportHandler(exportService services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

func (h *ExportHandler) DownloadAllCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=all_points_india.csv")
	if err := h.exportService.WriteAll(w); err != nil {
		log.Error().Err(err).Msg("Failed to write all-points export")
	}
}

func (h *ExportHandler) DownloadWrongCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=outside_india_points.csv")
	if err := h.exportService.WriteOutside(w); err != nil {
		log.Error().Err(err).Msg("Failed to write outside-points export")
	}
}
