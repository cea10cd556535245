package ports

import (
	"context"
	"isochrone-map-service/internal/domain"
)

// Contract for computing isochrone bands from a request.
//
// Remote implementations must not let any transport or parse failure
// escape: they degrade to a local approximation and always return a usable
// band set for a valid request.
type IsochroneProvider interface {
	// Produce returns exactly req.Buckets bands, ordered outer-first.
	Produce(ctx context.Context, req domain.IsochroneRequest) ([]domain.Band, error)
}
