package dto

// Inbound body for POST /isochrones.
type IsochroneRequest struct {
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	RangeMinutes int     `json:"range_minutes"`
	Buckets      int     `json:"buckets"`
	Profile      string  `json:"profile"`
	Provider     string  `json:"provider"`
}

// GeoJSON feature properties the rendering layer depends on. The shape is
// identical whichever provider produced the band; AreaKm2 is present only
// on locally approximated bands.
type FeatureProperties struct {
	Minutes float64  `json:"minutes"`
	Profile string   `json:"profile"`
	Source  string   `json:"source"`
	IsOuter bool     `json:"is_outer"`
	AreaKm2 *float64 `json:"area_km2,omitempty"`
}

type Geometry struct {
	Type        string        `json:"type"`
	Coordinates [][][]float64 `json:"coordinates"`
}

type Feature struct {
	Type       string            `json:"type"`
	Properties FeatureProperties `json:"properties"`
	Geometry   Geometry          `json:"geometry"`
}

// FeatureCollection is the response document. RateLimited is a foreign
// member flagging that quota exhaustion forced a local result.
type FeatureCollection struct {
	Type        string    `json:"type"`
	RateLimited bool      `json:"rate_limited"`
	Features    []Feature `json:"features"`
}
