package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"city_router/pkg/graph"
	"city_router/pkg/routing"
)

// mockRouter implements routing.Router for testing.
type mockRouter struct {
	result *routing.Route
	err    error
	got    []routing.Waypoint
}

func (m *mockRouter) Route(ctx context.Context, waypoints []routing.Waypoint) (*routing.Route, error) {
	m.got = waypoints
	return m.result, m.err
}

func postRoute(h *Handlers, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.HandleRoute(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

func TestHandleRoute_Success(t *testing.T) {
	mock := &mockRouter{
		result: &routing.Route{
			Path:          []string{"A", "B", "C"},
			TotalDistance: 3,
			Segments: []routing.Segment{
				{From: "A", To: "C", Path: []string{"A", "B", "C"}, Distance: 3},
			},
		},
	}
	h := NewHandlers(mock, StatsResponse{NumVertices: 3})

	w := postRoute(h, `{"waypoints":[{"name":"A"},{"lat":52.1,"lng":21.0}]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. body: %s", w.Code, w.Body.String())
	}

	var resp RouteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalDistanceKm != 3 {
		t.Errorf("TotalDistanceKm = %f, want 3", resp.TotalDistanceKm)
	}
	if strings.Join(resp.Path, ",") != "A,B,C" {
		t.Errorf("Path = %v", resp.Path)
	}
	if len(resp.Segments) != 1 || resp.Segments[0].DistanceKm != 3 {
		t.Errorf("Segments = %+v", resp.Segments)
	}
	if resp.Geometry != nil {
		t.Errorf("Geometry = %v, want none from a router without coordinates", resp.Geometry)
	}

	if len(mock.got) != 2 || mock.got[0].Name != "A" || mock.got[1].Point == nil || mock.got[1].Point.Lat != 52.1 {
		t.Errorf("router got waypoints %+v", mock.got)
	}
}

func TestHandleRoute_Engine(t *testing.T) {
	g := graph.New()
	g.AddLocation("A", 52.0, 21.0)
	g.AddLocation("B", 52.5, 20.0)
	g.AddLocation("C", 53.0, 19.0)
	for _, e := range []struct {
		a, b string
		w    float64
	}{{"A", "B", 1}, {"B", "C", 2}, {"A", "C", 3.5}} {
		if err := g.AddEdge(e.a, e.b, e.w); err != nil {
			t.Fatal(err)
		}
	}
	h := NewHandlers(routing.NewEngine(g), StatsResponse{})

	w := postRoute(h, `{"waypoints":[{"name":"A"},{"name":"C"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	var resp RouteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if strings.Join(resp.Path, ",") != "A,B,C" || resp.TotalDistanceKm != 3 {
		t.Errorf("got path %v distance %v", resp.Path, resp.TotalDistanceKm)
	}
	if len(resp.Geometry) != 3 || resp.Geometry[1] != (LatLngJSON{Lat: 52.5, Lng: 20.0}) {
		t.Errorf("Geometry = %v", resp.Geometry)
	}
}

func TestHandleRoute_BadRequests(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		code  string
		field string
	}{
		{"invalid json", "not json", "invalid_request", ""},
		{"no waypoints", `{"waypoints":[]}`, "invalid_request", "waypoints"},
		{"missing waypoints", `{}`, "invalid_request", "waypoints"},
		{"empty waypoint", `{"waypoints":[{"name":"A"},{}]}`, "invalid_waypoint", "waypoints[1]"},
		{"lat only", `{"waypoints":[{"lat":1.0}]}`, "invalid_waypoint", "waypoints[0]"},
		{"lat out of range", `{"waypoints":[{"lat":91.0,"lng":103.8}]}`, "invalid_coordinates", "waypoints[0]"},
		{"lng out of range", `{"waypoints":[{"name":"A"},{"lat":1.0,"lng":-181}]}`, "invalid_coordinates", "waypoints[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockRouter{}
			w := postRoute(NewHandlers(mock, StatsResponse{}), tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			resp := decodeError(t, w)
			if resp.Error != tt.code || resp.Field != tt.field {
				t.Errorf("error = %+v, want %s/%s", resp, tt.code, tt.field)
			}
			if mock.got != nil {
				t.Error("router called for a bad request")
			}
		})
	}
}

func TestHandleRoute_TooManyWaypoints(t *testing.T) {
	parts := make([]string, MaxWaypoints+1)
	for i := range parts {
		parts[i] = fmt.Sprintf(`{"name":"c%d"}`, i)
	}
	w := postRoute(NewHandlers(&mockRouter{}, StatsResponse{}), `{"waypoints":[`+strings.Join(parts, ",")+`]}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleRoute_MissingContentType(t *testing.T) {
	h := NewHandlers(&mockRouter{}, StatsResponse{})

	body := `{"waypoints":[{"name":"A"}]}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleRoute_RouterErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"vertex not found", fmt.Errorf("waypoint %q: %w", "X", routing.ErrVertexNotFound), http.StatusNotFound, "vertex_not_found"},
		{"no path", fmt.Errorf("segment 1: %w", routing.ErrNoPath), http.StatusNotFound, "no_route_found"},
		{"point too far", routing.ErrPointTooFar, http.StatusUnprocessableEntity, "point_too_far"},
		{"no waypoints", routing.ErrNoWaypoints, http.StatusBadRequest, "invalid_request"},
		{"timeout", context.DeadlineExceeded, http.StatusServiceUnavailable, "request_timeout"},
		{"canceled", context.Canceled, http.StatusServiceUnavailable, "request_timeout"},
		{"other", fmt.Errorf("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandlers(&mockRouter{err: tt.err}, StatsResponse{})
			w := postRoute(h, `{"waypoints":[{"name":"A"},{"name":"B"}]}`)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if resp := decodeError(t, w); resp.Error != tt.code {
				t.Errorf("error = %q, want %q", resp.Error, tt.code)
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	h := NewHandlers(&mockRouter{}, StatsResponse{})

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()

	h.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var resp HealthResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != "ok" {
		t.Errorf("status = %q, want 'ok'", resp.Status)
	}
}

func TestHandleStats(t *testing.T) {
	stats := StatsResponse{NumVertices: 10, NumEdges: 45, NumComponents: 1}
	h := NewHandlers(&mockRouter{}, stats)

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	w := httptest.NewRecorder()

	h.HandleStats(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var resp StatsResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp != stats {
		t.Errorf("stats = %+v, want %+v", resp, stats)
	}
}

func TestServerMiddleware(t *testing.T) {
	cfg := DefaultConfig(":0")
	cfg.CORSOrigin = "https://example.com"
	srv := NewServer(cfg, NewHandlers(&mockRouter{}, StatsResponse{}))

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	for header, want := range map[string]string{
		"X-Content-Type-Options":      "nosniff",
		"Access-Control-Allow-Origin": "https://example.com",
		"X-Request-ID":                "1",
	} {
		if got := w.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}

	// Wrong method is rejected by the mux pattern.
	req = httptest.NewRequest("GET", "/api/v1/route", nil)
	w = httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/v1/route status = %d, want 405", w.Code)
	}
}

func TestServerRecoversPanic(t *testing.T) {
	srv := NewServer(DefaultConfig(":0"), NewHandlers(panicRouter{}, StatsResponse{}))

	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(`{"waypoints":[{"name":"A"}]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

type panicRouter struct{}

func (panicRouter) Route(context.Context, []routing.Waypoint) (*routing.Route, error) {
	panic("boom")
}
