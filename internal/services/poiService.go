package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"geoportal/internal/metrics"
)

const defaultOverpassURL = "https://overpass-api.de/api/interpreter"

var ErrOverpassFailed = errors.New("overpass api failed")

// categoryKeys is the priority order for detecting a feature's category from
// its tags; the first matching key wins, otherwise the category is "other".
var categoryKeys = []string{"amenity", "shop", "highway", "railway", "aeroway", "leisure", "waterway", "natural"}

// POIService queries nearby map features from the Overpass API and streams
// them back as CSV rows.
type POIService interface {
	WriteBufferCSV(ctx context.Context, w io.Writer, lat, lon, radiusKM float64) error
}

type poiService struct {
	baseURL string
	client  *http.Client
}

func NewPOIService() POIService {
	return &poiService{
		baseURL: defaultOverpassURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func buildOverpassQuery(lat, lon float64, radiusM int) string {
	around := fmt.Sprintf("around:%d,%s,%s", radiusM,
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64))

	var b strings.Builder
	b.WriteString("[out:json][timeout:60];\n(\n")
	for _, sel := range []string{
		`node(%s)["amenity"];`,
		`way(%s)["amenity"];`,
		`node(%s)["shop"];`,
		`way(%s)["shop"];`,
		`node(%s)["highway"="bus_stop"];`,
		`way(%s)["highway"];`,
		`node(%s)["railway"];`,
		`way(%s)["railway"];`,
		`node(%s)["aeroway"];`,
		`way(%s)["aeroway"];`,
		`node(%s)["leisure"="playground"];`,
		`way(%s)["leisure"="playground"];`,
		`way(%s)["waterway"];`,
		`way(%s)["natural"="water"];`,
	} {
		fmt.Fprintf(&b, "  "+sel+"\n", around)
	}
	b.WriteString(");\nout center;\n")
	return b.String()
}

type overpassElement struct {
	ID   int64             `json:"id"`
	Type string            `json:"type"`
	Lat  *float64          `json:"lat"`
	Lon  *float64          `json:"lon"`
	Tags map[string]string `json:"tags"`

	Center *struct {
		Lat *float64 `json:"lat"`
		Lon *float64 `json:"lon"`
	} `json:"center"`
}

// coordinate resolves an element's position, falling back to its center for
// ways. The second return is false when no coordinate is resolvable.
func (el *overpassElement) coordinate() (float64, float64, bool) {
	if el.Lat != nil && el.Lon != nil {
		return *el.Lat, *el.Lon, true
	}
	if el.Center != nil && el.Center.Lat != nil && el.Center.Lon != nil {
		return *el.Center.Lat, *el.Center.Lon, true
	}
	return 0, 0, false
}

func (el *overpassElement) category() string {
	for _, k := range categoryKeys {
		if v, ok := el.Tags[k]; ok {
			return k + ":" + v
		}
	}
	return "other"
}

func (s *poiService) WriteBufferCSV(ctx context.Context, w io.Writer, lat, lon, radiusKM float64) error {
	radiusM := int(radiusKM * 1000)
	query := buildOverpassQuery(lat, lon, radiusM)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, strings.NewReader(query))
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.ProxyRequestsTotal.WithLabelValues("overpass", "error").Inc()
		log.Error().Err(err).Msg("Overpass request failed")
		return ErrOverpassFailed
	}
	defer resp.Body.Close()

	metrics.ProxyRequestsTotal.WithLabelValues("overpass", strconv.Itoa(resp.StatusCode)).Inc()
	log.Debug().Int("status", resp.StatusCode).Msg("Overpass response")

	if resp.StatusCode != http.StatusOK {
		return ErrOverpassFailed
	}

	var data struct {
		Elements []overpassElement `json:"elements"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		log.Error().Err(err).Msg("Failed to decode Overpass response")
		return ErrOverpassFailed
	}

	wr := csv.NewWriter(w)
	if err := wr.Write([]string{"osm_id", "osm_type", "category", "name", "latitude", "longitude", "tags"}); err != nil {
		return err
	}

	for i := range data.Elements {
		el := &data.Elements[i]
		if el.Tags == nil {
			el.Tags = map[string]string{}
		}
		elLat, elLon, ok := el.coordinate()
		if !ok {
			continue
		}

		tagsJSON, err := json.Marshal(el.Tags)
		if err != nil {
			continue
		}
		row := []string{
			strconv.FormatInt(el.ID, 10),
			el.Type,
			el.category(),
			el.Tags["name"],
			strconv.FormatFloat(elLat, 'f', -1, 64),
			strconv.FormatFloat(elLon, 'f', -1, 64),
			string(tagsJSON),
		}
		if err := wr.Write(row); err != nil {
			return err
		}
	}

	wr.Flush()
	return wr.Error()
}
