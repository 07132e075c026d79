// Package obs holds small logging helpers shared by commands and handlers.
package obs

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

type ctxKey string

// RequestIDKey carries a request ID for Time's log line.
const RequestIDKey ctxKey = "req_id"

// WithRequestID returns ctx tagged with id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// Time starts timing op and returns a func that logs its duration. Call it
// deferred with a pointer to the named error result:
//
//	defer obs.Time(ctx, "route", "waypoints", len(waypoints))(&err)
//
// kv are extra key/value pairs appended to the log line.
func Time(ctx context.Context, op string, kv ...any) func(errp *error) {
	start := time.Now()

	reqID, _ := ctx.Value(RequestIDKey).(string)
	var b strings.Builder
	fmt.Fprintf(&b, "req_id=%s op=%s", reqID, op)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
	}
	prefix := b.String()

	return func(errp *error) {
		ms := time.Since(start).Milliseconds()
		if errp != nil && *errp != nil {
			log.Printf("%s dur=%dms err=%v", prefix, ms, *errp)
			return
		}
		log.Printf("%s dur=%dms", prefix, ms)
	}
}
