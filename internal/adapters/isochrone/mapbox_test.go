package isochrone

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"isochrone-map-service/internal/domain"
)

func mapboxResponseBody(origin domain.Coordinates) map[string]any {
	return map[string]any{
		"type": "FeatureCollection",
		"features": []map[string]any{{
			"type":       "Feature",
			"properties": map[string]any{"contour": 30},
			"geometry": map[string]any{
				"type":        "Polygon",
				"coordinates": [][][]float64{squareRing(origin, 0.05)},
			},
		}},
	}
}

func TestMapboxProviderSynthesizesInnerBands(t *testing.T) {
	req := testRequest()
	req.Provider = domain.ProviderMapbox

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/isochrone/v1/mapbox/driving/-122.6765,45.5231" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("contours_minutes") != "30" {
			t.Errorf("contours_minutes = %q, want 30", q.Get("contours_minutes"))
		}
		if q.Get("polygons") != "true" {
			t.Errorf("polygons = %q, want true", q.Get("polygons"))
		}
		if q.Get("access_token") != "test-token" {
			t.Errorf("access_token = %q, want test-token", q.Get("access_token"))
		}

		json.NewEncoder(w).Encode(mapboxResponseBody(req.Origin))
	}))
	defer srv.Close()

	p := NewMapboxProvider("test-token", 2*time.Second, NewLocalProvider())
	p.baseURL = srv.URL

	bands, err := p.Produce(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(bands) != 3 {
		t.Fatalf("expected 3 bands, got %d", len(bands))
	}

	// Single remote contour plus two locally synthesized inner bands.
	if bands[0].Source != domain.ProviderMapbox || !bands[0].IsOuter || bands[0].Minutes != 30 {
		t.Fatalf("outer band = %+v, want mapbox outer at 30 minutes", bands[0])
	}
	wantInner := []float64{20, 10}
	for i, b := range bands[1:] {
		if b.Source != domain.ProviderLocal {
			t.Errorf("inner band %d source = %q, want %q", i, b.Source, domain.ProviderLocal)
		}
		if b.Minutes != wantInner[i] {
			t.Errorf("inner band %d minutes = %v, want %v", i, b.Minutes, wantInner[i])
		}
		if b.IsOuter {
			t.Errorf("inner band %d flagged IsOuter", i)
		}
	}
}

func TestMapboxProviderSingleBucket(t *testing.T) {
	req := testRequest()
	req.Provider = domain.ProviderMapbox
	req.Buckets = 1

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(mapboxResponseBody(req.Origin))
	}))
	defer srv.Close()

	p := NewMapboxProvider("test-token", 2*time.Second, NewLocalProvider())
	p.baseURL = srv.URL

	bands, err := p.Produce(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bands) != 1 {
		t.Fatalf("expected 1 band, got %d", len(bands))
	}
	if bands[0].Source != domain.ProviderMapbox || !bands[0].IsOuter {
		t.Fatalf("band = %+v, want mapbox outer", bands[0])
	}
}

func TestMapboxProviderMissingTokenSkipsNetwork(t *testing.T) {
	called := false

	p := NewMapboxProvider("", 2*time.Second, NewLocalProvider())
	p.session.Transport = roundTripperFunc(func(*http.Request) (*http.Response, error) {
		called = true
		return nil, errors.New("no network expected")
	})

	req := testRequest()
	req.Provider = domain.ProviderMapbox

	bands, err := p.Produce(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Fatal("network attempted with no access token configured")
	}
	for i, b := range bands {
		if b.Source != domain.ProviderLocal {
			t.Errorf("band %d source = %q, want %q", i, b.Source, domain.ProviderLocal)
		}
	}
}

func TestMapboxProviderEmptyResponseFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"type": "FeatureCollection", "features": []any{}})
	}))
	defer srv.Close()

	p := NewMapboxProvider("test-token", 2*time.Second, NewLocalProvider())
	p.baseURL = srv.URL

	req := testRequest()
	req.Provider = domain.ProviderMapbox

	bands, err := p.Produce(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bands) != 3 {
		t.Fatalf("expected 3 fallback bands, got %d", len(bands))
	}
	for i, b := range bands {
		if b.Source != domain.ProviderLocal {
			t.Errorf("band %d source = %q, want %q", i, b.Source, domain.ProviderLocal)
		}
	}
}
