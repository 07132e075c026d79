package api

// RouteRequest is the JSON body for POST /api/v1/route.
type RouteRequest struct {
	Waypoints []WaypointJSON `json:"waypoints"`
}

// WaypointJSON is a stop given by city name or by coordinate.
type WaypointJSON struct {
	Name string   `json:"name,omitempty"`
	Lat  *float64 `json:"lat,omitempty"`
	Lng  *float64 `json:"lng,omitempty"`
}

// LatLngJSON represents a lat/lng pair in JSON.
type LatLngJSON struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RouteResponse is the JSON response for a successful route query.
type RouteResponse struct {
	Path            []string      `json:"path"`
	TotalDistanceKm float64       `json:"total_distance_km"`
	Segments        []SegmentJSON `json:"segments"`
	Geometry        []LatLngJSON  `json:"geometry,omitempty"`
}

// SegmentJSON is the shortest path between two consecutive waypoints.
type SegmentJSON struct {
	From       string   `json:"from"`
	To         string   `json:"to"`
	Path       []string `json:"path"`
	DistanceKm float64  `json:"distance_km"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	NumVertices   uint32 `json:"num_vertices"`
	NumEdges      uint32 `json:"num_edges"`
	NumComponents int    `json:"num_components"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
