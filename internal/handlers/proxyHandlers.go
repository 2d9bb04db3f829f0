package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"geoportal/internal/services"
	"geoportal/internal/utils"
)

// ProxyHandler serves the weather and points-of-interest pass-through
// endpoints.
type ProxyHandler struct {
	weatherService services.WeatherService
	poiService     services.POIService
}

func NewProxyHandler(weatherService services.WeatherService, poiService services.POIService) *ProxyHandler {
	return &ProxyHandler{weatherService: weatherService, poiService: poiService}
}

func (h *ProxyHandler) Weather(w http.ResponseWriter, r *http.Request) {
	latStr := r.URL.Query().Get("lat")
	lonStr := r.URL.Query().Get("lon")
	if latStr == "" || lonStr == "" {
		utils.SendJSONError(w, "lat and lon are required", http.StatusBadRequest)
		return
	}

	lat, latErr := strconv.ParseFloat(latStr, 64)
	lon, lonErr := strconv.ParseFloat(lonStr, 64)
	if latErr != nil || lonErr != nil {
		utils.SendJSONError(w, "lat and lon are required", http.StatusBadRequest)
		return
	}

	report, err := h.weatherService.Current(r.Context(), lat, lon)
	if err != nil {
		var ue *services.UpstreamError
		switch {
		case errors.As(err, &ue):
			utils.RespondWithJSON(w, ue.StatusCode, map[string]interface{}{
				"error":       "Weather API error",
				"status_code": ue.StatusCode,
			})
		case errors.Is(err, services.ErrNoCurrentWeather):
			utils.SendJSONError(w, "No current weather data.", http.StatusInternalServerError)
		default:
			log.Error().Err(err).Msg("Weather proxy call failed")
			utils.SendJSONError(w, "Failed to fetch weather.", http.StatusInternalServerError)
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, report)
}

func (h *ProxyHandler) DownloadBufferPOIs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	latStr, lonStr, radiusStr := q.Get("lat"), q.Get("lon"), q.Get("radius_km")
	if latStr == "" || lonStr == "" || radiusStr == "" {
		http.Error(w, "Missing lat / lon / radius_km", http.StatusBadRequest)
		return
	}

	lat, latErr := strconv.ParseFloat(latStr, 64)
	lon, lonErr := strconv.ParseFloat(lonStr, 64)
	radiusKM, radErr := strconv.ParseFloat(radiusStr, 64)
	if latErr != nil || lonErr != nil || radErr != nil {
		http.Error(w, "Missing lat / lon / radius_km", http.StatusBadRequest)
		return
	}

	if radiusKM <= 0 || radiusKM > 100 {
		http.Error(w, "radius_km must be between 0 and 100", http.StatusBadRequest)
		return
	}

	// Buffer the CSV so an upstream failure can still produce an error
	// status instead of a truncated download.
	var buf bytes.Buffer
	if err := h.poiService.WriteBufferCSV(r.Context(), &buf, lat, lon, radiusKM); err != nil {
		if errors.Is(err, services.ErrOverpassFailed) {
			http.Error(w, "Overpass API failed", http.StatusBadGateway)
			return
		}
		log.Error().Err(err).Msg("POI proxy call failed")
		http.Error(w, "Failed to download POI data", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("buffer_pois_%s_%s_%skm.csv",
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64),
		strconv.FormatFloat(radiusKM, 'f', -1, 64))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error().Err(err).Msg("Failed to stream POI CSV")
	}
}
