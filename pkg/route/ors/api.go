package ors

// OpenRouteService Directions v2 types.
// POST /v2/directions/{profile}/geojson

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"` // [lon, lat]
}

type directionsResponse struct {
	Features []feature `json:"features"`
}

type feature struct {
	Geometry struct {
		Coordinates [][]float64 `json:"coordinates"`
	} `json:"geometry"`
	Properties struct {
		Summary struct {
			// ORS omits both fields when origin and destination coincide.
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"summary"`
	} `json:"properties"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ORS error code for "route could not be found between points".
const codeRouteNotFound = 2010
