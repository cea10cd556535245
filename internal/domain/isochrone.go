package domain

// Travel profiles accepted by every provider.
const (
	ProfileDriving = "driving"
	ProfileWalking = "walking"
	ProfileCycling = "cycling"
)

// Provider names used both for request routing and for the per-band
// Source stamp. An unrecognized name routes to the local provider.
const (
	ProviderLocal  = "local"
	ProviderORS    = "ors"
	ProviderMapbox = "mapbox"
)

// IsochroneRequest describes one reachability query: the origin point, the
// full time budget, how many concentric bands to subdivide it into, and
// which provider should compute them. Immutable per call.
type IsochroneRequest struct {
	Origin       Coordinates
	RangeMinutes int
	Buckets      int
	Profile      string
	Provider     string
}

// Band is one closed travel-time polygon around the request origin.
// Bands are always ordered largest-threshold first so a renderer can draw
// them sequentially without re-sorting.
//
// Source records which provider actually produced the band; after a
// fallback it differs from the provider that was requested. AreaKm2 is a
// rough estimate attached only to locally approximated bands (zero
// otherwise).
type Band struct {
	Minutes float64
	Profile string
	Source  string
	IsOuter bool
	AreaKm2 float64
	Ring    []Coordinates
}
