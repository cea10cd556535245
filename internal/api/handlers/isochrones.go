package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"isochrone-map-service/internal/api/dto"
	"isochrone-map-service/internal/domain"
	"isochrone-map-service/internal/services"
)

type IsochroneHandler struct {
	Gateway *services.Gateway
}

// Isochrones computes travel-time bands for one origin point and returns
// them as a GeoJSON FeatureCollection. The response shape is the same
// regardless of which provider produced each band; the rendering layer
// treats all sources identically.
func (h *IsochroneHandler) Isochrones(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.IsochroneRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if req.Lat < -90 || req.Lat > 90 {
		writeError(w, r, http.StatusBadRequest, "lat must be between -90 and 90")
		return
	}
	if req.Lon < -180 || req.Lon > 180 {
		writeError(w, r, http.StatusBadRequest, "lon must be between -180 and 180")
		return
	}
	if req.RangeMinutes < 1 || req.RangeMinutes > 1440 {
		writeError(w, r, http.StatusBadRequest, "range_minutes must be between 1 and 1440")
		return
	}

	buckets := req.Buckets
	if buckets == 0 {
		buckets = 3
	}
	if buckets < 1 || buckets > 10 {
		writeError(w, r, http.StatusBadRequest, "buckets must be between 1 and 10")
		return
	}

	profile := req.Profile
	if profile == "" {
		profile = domain.ProfileDriving
	}
	switch profile {
	case domain.ProfileDriving, domain.ProfileWalking, domain.ProfileCycling:
	default:
		writeError(w, r, http.StatusBadRequest, "profile must be driving, walking or cycling")
		return
	}

	// Provider names are deliberately not validated: unrecognized values
	// route to the local provider.
	provider := req.Provider
	if provider == "" {
		provider = domain.ProviderLocal
	}

	gwReq := domain.IsochroneRequest{
		Origin:       domain.Coordinates{Lat: req.Lat, Lon: req.Lon},
		RangeMinutes: req.RangeMinutes,
		Buckets:      buckets,
		Profile:      profile,
		Provider:     provider,
	}

	bands, rateLimited, err := h.Gateway.GetIsochrones(r.Context(), gwReq)
	if err != nil {
		log.Printf("get isochrones failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toFeatureCollection(bands, rateLimited))
}

func toFeatureCollection(bands []domain.Band, rateLimited bool) dto.FeatureCollection {
	fc := dto.FeatureCollection{
		Type:        "FeatureCollection",
		RateLimited: rateLimited,
		Features:    make([]dto.Feature, 0, len(bands)),
	}

	for _, b := range bands {
		ring := make([][]float64, 0, len(b.Ring))
		for _, v := range b.Ring {
			ring = append(ring, v.CoordsToList())
		}

		props := dto.FeatureProperties{
			Minutes: b.Minutes,
			Profile: b.Profile,
			Source:  b.Source,
			IsOuter: b.IsOuter,
		}
		if b.AreaKm2 > 0 {
			area := b.AreaKm2
			props.AreaKm2 = &area
		}

		fc.Features = append(fc.Features, dto.Feature{
			Type:       "Feature",
			Properties: props,
			Geometry: dto.Geometry{
				Type:        "Polygon",
				Coordinates: [][][]float64{ring},
			},
		})
	}

	return fc
}
