package isochrone

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"isochrone-map-service/internal/domain"
	"isochrone-map-service/internal/platform/obs"
)

var mapboxProfiles = map[string]string{
	domain.ProfileDriving: "driving",
	domain.ProfileWalking: "walking",
	domain.ProfileCycling: "cycling",
}

// MapboxProvider computes isochrones through the Mapbox Isochrone API.
//
// Mapbox serves a single time contour per call, so one request covers only
// the full range; when more than one bucket is asked for, the inner bands
// are synthesized locally and only the outer band carries the mapbox
// source stamp.
//
// Without an access token, or on any failure, it degrades to the local
// approximation: Produce never returns an error.
type MapboxProvider struct {
	session     *http.Client
	accessToken string
	baseURL     string
	local       *LocalProvider
}

func NewMapboxProvider(accessToken string, timeout time.Duration, local *LocalProvider) *MapboxProvider {
	return &MapboxProvider{
		session:     &http.Client{Timeout: timeout},
		accessToken: accessToken,
		baseURL:     "https://api.mapbox.com",
		local:       local,
	}
}

func (m *MapboxProvider) Produce(ctx context.Context, req domain.IsochroneRequest) ([]domain.Band, error) {
	if strings.TrimSpace(m.accessToken) == "" {
		return m.local.Produce(ctx, req)
	}

	outer, err := m.fetchContour(ctx, req)
	if err != nil {
		log.Printf("provider=mapbox fallback=local err=%v", err)
		return m.local.Produce(ctx, req)
	}

	bands := make([]domain.Band, 0, req.Buckets)
	bands = append(bands, outer)

	// Inner bands keep the same evenly spaced thresholds the other
	// providers would use, so the total still equals the bucket count.
	step := float64(req.RangeMinutes) / float64(req.Buckets)
	for i := req.Buckets - 1; i >= 1; i-- {
		bands = append(bands, m.local.band(req.Origin, step*float64(i), req.Profile, false))
	}

	return bands, nil
}

type mapboxIsochroneResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

func (m *MapboxProvider) fetchContour(ctx context.Context, req domain.IsochroneRequest) (_ domain.Band, err error) {
	defer obs.Time(ctx, "mapbox.fetchContour")(&err)

	profile, ok := mapboxProfiles[req.Profile]
	if !ok {
		profile = mapboxProfiles[domain.ProfileDriving]
	}

	endpoint := fmt.Sprintf(
		"%s/isochrone/v1/mapbox/%s/%s,%s",
		m.baseURL,
		profile,
		strconv.FormatFloat(req.Origin.Lon, 'f', -1, 64),
		strconv.FormatFloat(req.Origin.Lat, 'f', -1, 64),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Band{}, fmt.Errorf("create request: %w", err)
	}

	q := httpReq.URL.Query()
	q.Set("contours_minutes", strconv.Itoa(req.RangeMinutes))
	q.Set("polygons", "true")
	q.Set("access_token", m.accessToken)
	httpReq.URL.RawQuery = q.Encode()

	resp, err := doJSON(m.session, httpReq)
	if err != nil {
		return domain.Band{}, fmt.Errorf("isochrone request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded mapboxIsochroneResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Band{}, fmt.Errorf("decode isochrone response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.Band{}, fmt.Errorf("no isochrone feature for %d minutes", req.RangeMinutes)
	}

	geom := decoded.Features[0].Geometry
	if len(geom.Coordinates) == 0 {
		return domain.Band{}, fmt.Errorf("isochrone feature has no polygon ring")
	}

	ring, err := ringFromCoords(geom.Coordinates[0])
	if err != nil {
		return domain.Band{}, err
	}

	return domain.Band{
		Minutes: float64(req.RangeMinutes),
		Profile: req.Profile,
		Source:  domain.ProviderMapbox,
		IsOuter: true,
		Ring:    ring,
	}, nil
}
