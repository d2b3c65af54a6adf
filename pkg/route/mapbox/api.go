package mapbox

// Mapbox Directions API v5 response types.
// GET /directions/v5/mapbox/{profile}/{lon,lat;lon,lat}

type directionsResponse struct {
	Code    string     `json:"code"` // "Ok", "NoRoute", "InvalidInput", ...
	Message string     `json:"message,omitempty"`
	Routes  []apiRoute `json:"routes"`
}

type apiRoute struct {
	Distance float64  `json:"distance"` // meters
	Duration float64  `json:"duration"` // seconds
	Geometry geometry `json:"geometry"`
}

type geometry struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"` // [lon, lat]
}
