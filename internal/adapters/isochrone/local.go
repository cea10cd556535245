package isochrone

import (
	"context"
	"math"

	"isochrone-map-service/internal/domain"
)

const (
	// Ring vertices per band, excluding the closing vertex.
	circleSegments = 32

	kmPerDegreeLat = 111.0
)

// Straight-line speed assumptions per travel profile. Deliberately coarse:
// the local provider estimates reachability, it does not route.
var profileSpeedsKmh = map[string]float64{
	domain.ProfileDriving: 50,
	domain.ProfileWalking: 5,
	domain.ProfileCycling: 15,
}

// LocalProvider synthesizes isochrone bands as distance circles around the
// origin, with no network dependency. It is both the default provider and
// the fallback of last resort for every remote adapter, so Produce never
// fails for a valid request.
type LocalProvider struct{}

func NewLocalProvider() *LocalProvider { return &LocalProvider{} }

// Produce returns req.Buckets bands at evenly spaced time thresholds,
// outer band first.
func (p *LocalProvider) Produce(ctx context.Context, req domain.IsochroneRequest) ([]domain.Band, error) {
	step := float64(req.RangeMinutes) / float64(req.Buckets)

	bands := make([]domain.Band, 0, req.Buckets)
	for i := req.Buckets; i >= 1; i-- {
		bands = append(bands, p.band(req.Origin, step*float64(i), req.Profile, i == req.Buckets))
	}

	return bands, nil
}

// band builds a single circle-approximation band. Remote adapters use it
// directly when they have to synthesize inner bands around a single remote
// contour.
func (p *LocalProvider) band(origin domain.Coordinates, minutes float64, profile string, isOuter bool) domain.Band {
	speed, ok := profileSpeedsKmh[profile]
	if !ok {
		speed = profileSpeedsKmh[domain.ProfileDriving]
	}

	distanceKm := speed * minutes / 60

	// Degrees of latitude are near-constant; degrees of longitude shrink
	// with cos(lat), so the ring is an ellipse in coordinate space.
	latRadius := distanceKm / kmPerDegreeLat
	lonRadius := latRadius / math.Cos(origin.Lat*math.Pi/180)

	ring := make([]domain.Coordinates, 0, circleSegments+1)
	for s := 0; s < circleSegments; s++ {
		angle := 2 * math.Pi * float64(s) / circleSegments
		ring = append(ring, domain.Coordinates{
			Lon: origin.Lon + lonRadius*math.Cos(angle),
			Lat: origin.Lat + latRadius*math.Sin(angle),
		})
	}
	ring = append(ring, ring[0])

	return domain.Band{
		Minutes: minutes,
		Profile: profile,
		Source:  domain.ProviderLocal,
		IsOuter: isOuter,
		AreaKm2: math.Pi * distanceKm * distanceKm,
		Ring:    ring,
	}
}
