package api

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"city_router/pkg/obs"
)

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) middleware {
		return func(next http.HandlerFunc) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next(w, r)
			}
		}
	}
	h := chain(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") },
		tag("outer"), tag("inner"))
	h(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	want := []string{"outer", "inner", "handler"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestWithLimit(t *testing.T) {
	tests := []struct {
		name       string
		capacity   int
		held       int
		wantStatus int
	}{
		{"free slot", 2, 1, http.StatusOK},
		{"full", 1, 1, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sem := make(chan struct{}, tt.capacity)
			for range tt.held {
				sem <- struct{}{}
			}
			h := withLimit(sem)(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			w := httptest.NewRecorder()
			h(w, httptest.NewRequest("POST", "/api/v1/route", nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusServiceUnavailable {
				if got := decodeError(t, w).Error; got != "service_unavailable" {
					t.Errorf("error = %q", got)
				}
				if w.Header().Get("Retry-After") != "1" {
					t.Error("missing Retry-After")
				}
			}
			if len(sem) != tt.held {
				t.Errorf("slots held after request = %d, want %d", len(sem), tt.held)
			}
		})
	}
}

func TestWithRequestLog(t *testing.T) {
	var buf bytes.Buffer
	prev, flags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prev)
		log.SetFlags(flags)
	})

	var seq atomic.Uint64
	seq.Store(41)
	var gotID string
	h := withRequestLog(&seq)(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = r.Context().Value(obs.RequestIDKey).(string)
		w.WriteHeader(http.StatusTeapot)
	})
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest("GET", "/api/v1/stats", nil))

	if gotID != "42" || w.Header().Get("X-Request-ID") != "42" {
		t.Errorf("request ID in context %q, header %q; want 42", gotID, w.Header().Get("X-Request-ID"))
	}
	if line := buf.String(); !strings.Contains(line, "req_id=42 GET /api/v1/stats status=418") {
		t.Errorf("unexpected access log %q", line)
	}
}

func TestStatusWriterImplicitOK(t *testing.T) {
	sw := &statusWriter{ResponseWriter: httptest.NewRecorder()}
	sw.Write([]byte("{}"))
	sw.WriteHeader(http.StatusInternalServerError)
	if sw.status != http.StatusOK {
		t.Errorf("status = %d, want first write to fix 200", sw.status)
	}
}

func TestWithTimeout(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		max  time.Duration
	}{
		{"explicit", 50 * time.Millisecond, 50 * time.Millisecond},
		{"zero uses default", 0, 5 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var deadline time.Time
			var ok bool
			h := withTimeout(tt.d)(func(w http.ResponseWriter, r *http.Request) {
				deadline, ok = r.Context().Deadline()
			})
			start := time.Now()
			req := httptest.NewRequest("GET", "/", nil).WithContext(context.Background())
			h(httptest.NewRecorder(), req)

			if !ok {
				t.Fatal("no deadline set")
			}
			if left := deadline.Sub(start); left <= 0 || left > tt.max {
				t.Errorf("deadline %s after start, want within %s", left, tt.max)
			}
		})
	}
}
