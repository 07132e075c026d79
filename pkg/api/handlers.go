package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"city_router/pkg/geo"
	"city_router/pkg/obs"
	"city_router/pkg/routing"
)

// MaxWaypoints bounds the stops accepted in one request.
const MaxWaypoints = 100

// Locator is implemented by routers that know vertex coordinates. When the
// router is a Locator, route responses carry a geometry.
type Locator interface {
	Locate(name string) (routing.LatLng, bool)
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	router routing.Router
	stats  StatsResponse
}

// NewHandlers creates handlers with the given router.
func NewHandlers(router routing.Router, stats StatsResponse) *Handlers {
	return &Handlers{
		router: router,
		stats:  stats,
	}
}

// HandleRoute handles POST /api/v1/route.
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	// Enforce Content-Type.
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	// Parse request.
	var req RouteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}
	if len(req.Waypoints) == 0 || len(req.Waypoints) > MaxWaypoints {
		writeError(w, http.StatusBadRequest, "invalid_request", "waypoints")
		return
	}

	waypoints := make([]routing.Waypoint, len(req.Waypoints))
	for i, wp := range req.Waypoints {
		parsed, code := parseWaypoint(wp)
		if code != "" {
			writeError(w, http.StatusBadRequest, code, fmt.Sprintf("waypoints[%d]", i))
			return
		}
		waypoints[i] = parsed
	}

	result, err := h.route(r.Context(), waypoints)
	if err != nil {
		status, code := errorStatus(err)
		writeError(w, status, code, "")
		return
	}

	resp := RouteResponse{
		Path:            result.Path,
		TotalDistanceKm: result.TotalDistance,
		Segments:        make([]SegmentJSON, 0, len(result.Segments)),
	}
	for _, seg := range result.Segments {
		resp.Segments = append(resp.Segments, SegmentJSON{
			From:       seg.From,
			To:         seg.To,
			Path:       seg.Path,
			DistanceKm: seg.Distance,
		})
	}
	if loc, ok := h.router.(Locator); ok {
		resp.Geometry = geometry(loc, result.Path)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *Handlers) route(ctx context.Context, waypoints []routing.Waypoint) (route *routing.Route, err error) {
	defer obs.Time(ctx, "route", "waypoints", len(waypoints))(&err)
	return h.router.Route(ctx, waypoints)
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.stats)
}

// parseWaypoint returns an error code when wp is malformed.
func parseWaypoint(wp WaypointJSON) (routing.Waypoint, string) {
	if wp.Name != "" {
		return routing.Waypoint{Name: wp.Name}, ""
	}
	if wp.Lat == nil || wp.Lng == nil {
		return routing.Waypoint{}, "invalid_waypoint"
	}
	if !geo.ValidCoord(*wp.Lat, *wp.Lng) {
		return routing.Waypoint{}, "invalid_coordinates"
	}
	return routing.Waypoint{Point: &routing.LatLng{Lat: *wp.Lat, Lng: *wp.Lng}}, ""
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, routing.ErrVertexNotFound):
		return http.StatusNotFound, "vertex_not_found"
	case errors.Is(err, routing.ErrNoPath):
		return http.StatusNotFound, "no_route_found"
	case errors.Is(err, routing.ErrPointTooFar):
		return http.StatusUnprocessableEntity, "point_too_far"
	case errors.Is(err, routing.ErrNoWaypoints), errors.Is(err, routing.ErrInvalidWaypoint):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "request_timeout"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func geometry(loc Locator, path []string) []LatLngJSON {
	geom := make([]LatLngJSON, 0, len(path))
	for _, name := range path {
		if ll, ok := loc.Locate(name); ok {
			geom = append(geom, LatLngJSON{Lat: ll.Lat, Lng: ll.Lng})
		}
	}
	return geom
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field})
}
