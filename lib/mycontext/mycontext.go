package mycontext

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/MarcGrol/bogrelay/lib/myuuid"
)

// CtxTraceContext is a context key for the trace context (used by mylog)
type CtxTraceContext struct{}

var requestIDs myuuid.UUIDer = myuuid.RealUUIDer{}

// ContextFromHTTPRequest derives the request context and attaches the trace.
// On Cloud Run / App Engine the trace comes from X-Cloud-Trace-Context, elsewhere a request-id is used.
func ContextFromHTTPRequest(r *http.Request) context.Context {
	var trace string

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	traceContext := r.Header.Get("X-Cloud-Trace-Context")
	traceParts := strings.Split(traceContext, "/")

	switch {
	case len(traceParts) > 0 && len(traceParts[0]) > 0:
		trace = fmt.Sprintf("projects/%s/traces/%s", projectID, traceParts[0])
	case r.Header.Get("X-Request-ID") != "":
		trace = r.Header.Get("X-Request-ID")
	default:
		trace = requestIDs.Create()
	}

	return context.WithValue(r.Context(), CtxTraceContext{}, trace)
}

func TraceFromContext(c context.Context) string {
	if c == nil {
		return ""
	}
	trace, ok := c.Value(CtxTraceContext{}).(string)
	if !ok {
		return ""
	}
	return trace
}
