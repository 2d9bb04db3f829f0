package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"

	"geoportal/internal/middlewares"
	"geoportal/internal/models"
	"geoportal/internal/repositories"
	"geoportal/internal/services"
	"geoportal/internal/utils"
)

// 32 MB, matching typical shapefile archive sizes
const maxUploadMemory = 32 << 20

// DashboardHandler serves the point map dashboard: manual, CSV and
// shapefile ingestion plus the current shared state.
type DashboardHandler struct {
	ingestService services.IngestService
	pointRepo     repositories.PointRepository
	shapefileRepo repositories.ShapefileRepository
}

func NewDashboardHandler(ingestService services.IngestService, pointRepo repositories.PointRepository, shapefileRepo repositories.ShapefileRepository) *DashboardHandler {
	return &DashboardHandler{ingestService: ingestService, pointRepo: pointRepo, shapefileRepo: shapefileRepo}
}

type dashboardState struct {
	Message       string                     `json:"message"`
	LastLat       string                     `json:"last_lat"`
	LastLon       string                     `json:"last_lon"`
	Points        []models.Point             `json:"points"`
	OutsidePoints []models.Point             `json:"outside_points"`
	Shapefile     *geojson.FeatureCollection `json:"shapefile"`
	UserPhone     string                     `json:"user_phone"`
	MaskedPhone   string                     `json:"masked_phone"`
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	state := dashboardState{}

	if r.Method == http.MethodPost {
		switch r.FormValue("form_type") {
		case "single":
			h.ingestSingle(r, &state)
		case "csv":
			h.ingestCSV(r, &state)
		case "shapefile":
			h.ingestShapefile(r, &state)
		default:
			state.Message = "Unknown form type."
		}
	}

	phone, _ := middlewares.PhoneFromContext(r.Context())
	state.UserPhone = phone
	state.MaskedPhone = maskPhone(phone)
	state.Points = h.pointRepo.All()
	state.OutsidePoints = h.pointRepo.Outside()
	state.Shapefile = h.shapefileRepo.Get()
	if state.Points == nil {
		state.Points = []models.Point{}
	}
	if state.OutsidePoints == nil {
		state.OutsidePoints = []models.Point{}
	}

	utils.RespondWithJSON(w, http.StatusOK, state)
}

func (h *DashboardHandler) ingestSingle(r *http.Request, state *dashboardState) {
	latStr := r.FormValue("lat")
	lonStr := r.FormValue("lon")
	state.LastLat = latStr
	state.LastLon = lonStr

	p, err := h.ingestService.IngestManual(latStr, lonStr)
	switch {
	case errors.Is(err, services.ErrMissingCoordinate):
		state.Message = "Please enter both latitude and longitude."
	case errors.Is(err, services.ErrInvalidCoordinate):
		state.Message = "Latitude/Longitude must be numeric"
	case err != nil:
		log.Error().Err(err).Msg("Manual ingestion failed")
		state.Message = "Could not save point."
	case p.Inside:
		state.Message = "Inside India"
	default:
		state.Message = "Outside India (saved)"
	}
}

func (h *DashboardHandler) ingestCSV(r *http.Request, state *dashboardState) {
	file, header, err := r.FormFile("csv_file")
	if err != nil || header.Filename == "" {
		state.Message = "Please select a CSV file."
		return
	}
	defer file.Close()

	summary, err := h.ingestService.IngestCSV(file)
	if err != nil {
		log.Error().Err(err).Msg("CSV ingestion failed")
		state.Message = "CSV file read error."
		return
	}
	state.Message = fmt.Sprintf("CSV rows: %d, added: %d, outside India: %d", summary.Total, summary.Added, summary.Outside)
}

func (h *DashboardHandler) ingestShapefile(r *http.Request, state *dashboardState) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		state.Message = "Please select a shapefile ZIP."
		return
	}
	file, header, err := r.FormFile("shapefile")
	if err != nil || header.Filename == "" {
		state.Message = "Please select a shapefile ZIP."
		return
	}
	defer file.Close()

	count, err := h.ingestService.IngestShapefile(file)
	if err != nil {
		state.Message = "Error reading shapefile. Make sure it's a valid ZIP."
		return
	}
	state.Message = fmt.Sprintf("Shapefile loaded successfully. Features: %d", count)
}

func maskPhone(phone string) string {
	if len(phone) >= 5 {
		return phone[:5] + "XXXXX"
	}
	return "XXXXX"
}
