package isochrone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"isochrone-map-service/internal/domain"
	"isochrone-map-service/internal/platform/obs"
)

// Internal profile names remapped to OpenRouteService vocabulary.
var orsProfiles = map[string]string{
	domain.ProfileDriving: "driving-car",
	domain.ProfileWalking: "foot-walking",
	domain.ProfileCycling: "cycling-regular",
}

// ORSProvider computes isochrones through the OpenRouteService isochrone
// endpoint. One call carries every bucket threshold and returns one polygon
// per threshold.
//
// Without an API key, or on any transport/status/parse failure, it degrades
// to the local approximation: Produce never returns an error.
type ORSProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	local   *LocalProvider
}

func NewORSProvider(apiKey string, timeout time.Duration, local *LocalProvider) *ORSProvider {
	return &ORSProvider{
		session: &http.Client{Timeout: timeout},
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		local:   local,
	}
}

func (o *ORSProvider) Produce(ctx context.Context, req domain.IsochroneRequest) ([]domain.Band, error) {
	// No credential means the provider was never reachable: skip the
	// network without treating it as a failure.
	if strings.TrimSpace(o.apiKey) == "" {
		return o.local.Produce(ctx, req)
	}

	bands, err := o.fetchIsochrones(ctx, req)
	if err != nil {
		log.Printf("provider=ors fallback=local err=%v", err)
		return o.local.Produce(ctx, req)
	}

	return bands, nil
}

type orsIsochroneRequest struct {
	Locations [][]float64 `json:"locations"`
	Range     []int       `json:"range"`
	RangeType string      `json:"range_type"`
}

type orsIsochroneResponse struct {
	Features []struct {
		Properties struct {
			Value float64 `json:"value"`
		} `json:"properties"`
		Geometry struct {
			Coordinates [][][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

func (o *ORSProvider) fetchIsochrones(ctx context.Context, req domain.IsochroneRequest) (_ []domain.Band, err error) {
	defer obs.Time(ctx, "ors.fetchIsochrones")(&err)

	profile, ok := orsProfiles[req.Profile]
	if !ok {
		profile = orsProfiles[domain.ProfileDriving]
	}
	endpoint := fmt.Sprintf("%s/v2/isochrones/%s", o.baseURL, profile)

	// One second-denominated threshold per bucket.
	step := float64(req.RangeMinutes) / float64(req.Buckets)
	ranges := make([]int, 0, req.Buckets)
	for i := 1; i <= req.Buckets; i++ {
		ranges = append(ranges, int(math.Round(step*float64(i)*60)))
	}

	payload, err := json.Marshal(orsIsochroneRequest{
		Locations: [][]float64{req.Origin.CoordsToList()},
		Range:     ranges,
		RangeType: "time",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal isochrone request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", o.apiKey)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := doJSON(o.session, httpReq)
	if err != nil {
		return nil, fmt.Errorf("isochrone request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded orsIsochroneResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode isochrone response: %w", err)
	}

	if len(decoded.Features) != req.Buckets {
		return nil, fmt.Errorf(
			"expected %d isochrone features; got %d",
			req.Buckets, len(decoded.Features),
		)
	}

	bands := make([]domain.Band, 0, len(decoded.Features))
	for i, f := range decoded.Features {
		if len(f.Geometry.Coordinates) == 0 {
			return nil, fmt.Errorf("feature %d has no polygon ring", i)
		}

		ring, err := ringFromCoords(f.Geometry.Coordinates[0])
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}

		bands = append(bands, domain.Band{
			Minutes: f.Properties.Value / 60,
			Profile: req.Profile,
			Source:  domain.ProviderORS,
			Ring:    ring,
		})
	}

	// ORS returns thresholds ascending; rendering wants the widest band first.
	sort.Slice(bands, func(i, j int) bool { return bands[i].Minutes > bands[j].Minutes })
	bands[0].IsOuter = true

	return bands, nil
}
