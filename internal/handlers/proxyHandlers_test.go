package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoportal/internal/services"
)

type stubWeatherService struct {
	report *services.WeatherReport
	err    error
}

func (s *stubWeatherService) Current(ctx context.Context, lat, lon float64) (*services.WeatherReport, error) {
	return s.report, s.err
}

type stubPOIService struct {
	csv string
	err error
}

func (s *stubPOIService) WriteBufferCSV(ctx context.Context, w io.Writer, lat, lon, radiusKM float64) error {
	if s.err != nil {
		return s.err
	}
	_, err := io.Copy(w, strings.NewReader(s.csv))
	return err
}

func TestWeatherHandlerMissingParams(t *testing.T) {
	h := NewProxyHandler(&stubWeatherService{}, &stubPOIService{})

	rr := httptest.NewRecorder()
	h.Weather(rr, httptest.NewRequest(http.MethodGet, "/api/weather?lat=20", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "lat and lon are required")
}

func TestWeatherHandlerSuccess(t *testing.T) {
	temp := 31.4
	h := NewProxyHandler(&stubWeatherService{report: &services.WeatherReport{TempC: &temp, Description: "Overcast"}}, &stubPOIService{})

	rr := httptest.NewRecorder()
	h.Weather(rr, httptest.NewRequest(http.MethodGet, "/api/weather?lat=28.6&lon=77.2", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"temp_c":31.4`)
	assert.Contains(t, rr.Body.String(), `"humidity":null`)
}

func TestWeatherHandlerUpstreamStatusMirrored(t *testing.T) {
	h := NewProxyHandler(&stubWeatherService{err: &services.UpstreamError{StatusCode: http.StatusServiceUnavailable}}, &stubPOIService{})

	rr := httptest.NewRecorder()
	h.Weather(rr, httptest.NewRequest(http.MethodGet, "/api/weather?lat=28.6&lon=77.2", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "Weather API error")
}

func TestBufferPOIsValidation(t *testing.T) {
	h := NewProxyHandler(&stubWeatherService{}, &stubPOIService{})

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"missing radius", "lat=28.6&lon=77.2", "Missing lat / lon / radius_km"},
		{"zero radius", "lat=28.6&lon=77.2&radius_km=0", "radius_km must be between 0 and 100"},
		{"radius too large", "lat=28.6&lon=77.2&radius_km=150", "radius_km must be between 0 and 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.DownloadBufferPOIs(rr, httptest.NewRequest(http.MethodGet, "/download-buffer-pois?"+tt.query, nil))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.want)
		})
	}
}

func TestBufferPOIsSuccessSetsAttachment(t *testing.T) {
	h := NewProxyHandler(&stubWeatherService{}, &stubPOIService{csv: "osm_id,osm_type\n1,node\n"})

	rr := httptest.NewRecorder()
	h.DownloadBufferPOIs(rr, httptest.NewRequest(http.MethodGet, "/download-buffer-pois?lat=28.6&lon=77.2&radius_km=5", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "attachment; filename=buffer_pois_28.6_77.2_5km.csv", rr.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("osm_id")))
}

func TestBufferPOIsUpstreamFailure(t *testing.T) {
	h := NewProxyHandler(&stubWeatherService{}, &stubPOIService{err: services.ErrOverpassFailed})

	rr := httptest.NewRecorder()
	h.DownloadBufferPOIs(rr, httptest.NewRequest(http.MethodGet, "/download-buffer-pois?lat=28.6&lon=77.2&radius_km=5", nil))
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "Overpass API failed")
}
