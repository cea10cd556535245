package services

import (
	"context"
	"fmt"

	"isochrone-map-service/internal/domain"
	"isochrone-map-service/internal/ports"
	"isochrone-map-service/internal/ratelimit"
)

// Gateway is the single entry point for isochrone computation. It enforces
// the outbound-call quota and the range ceiling, then routes to the
// requested provider. Below the gateway nothing fails: remote adapters
// degrade to the local approximation, so a valid request always yields a
// usable band set.
type Gateway struct {
	limiter         *ratelimit.SlidingWindow
	local           ports.IsochroneProvider
	remotes         map[string]ports.IsochroneProvider
	maxRangeMinutes int
}

func NewGateway(
	limiter *ratelimit.SlidingWindow,
	local ports.IsochroneProvider,
	ors ports.IsochroneProvider,
	mapbox ports.IsochroneProvider,
	maxRangeMinutes int,
) *Gateway {
	return &Gateway{
		limiter: limiter,
		local:   local,
		remotes: map[string]ports.IsochroneProvider{
			domain.ProviderORS:    ors,
			domain.ProviderMapbox: mapbox,
		},
		maxRangeMinutes: maxRangeMinutes,
	}
}

// GetIsochrones returns the bands for one request plus a flag telling the
// caller the quota forced a local result.
//
// Decision order: validate, clamp the range to the ceiling, consult the
// limiter (quota exhaustion always wins over provider preference), then
// route. Unrecognized provider names deliberately fall through to the local
// provider instead of failing, for compatibility with existing callers.
func (g *Gateway) GetIsochrones(ctx context.Context, req domain.IsochroneRequest) ([]domain.Band, bool, error) {
	if req.RangeMinutes <= 0 {
		return nil, false, fmt.Errorf("get isochrones: range_minutes must be positive; got %d", req.RangeMinutes)
	}
	if req.Buckets < 1 {
		return nil, false, fmt.Errorf("get isochrones: buckets must be at least 1; got %d", req.Buckets)
	}

	if req.RangeMinutes > g.maxRangeMinutes {
		req.RangeMinutes = g.maxRangeMinutes
	}

	if !g.limiter.TryConsume() {
		bands, err := g.local.Produce(ctx, req)
		if err != nil {
			return nil, true, fmt.Errorf("get isochrones: local fallback: %w", err)
		}
		return bands, true, nil
	}

	provider := g.local
	if p, ok := g.remotes[req.Provider]; ok {
		provider = p
	}

	bands, err := provider.Produce(ctx, req)
	if err != nil {
		return nil, false, fmt.Errorf("get isochrones: provider %q: %w", req.Provider, err)
	}

	return bands, false, nil
}
