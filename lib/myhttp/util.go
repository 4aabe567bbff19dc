package myhttp

import (
	"fmt"
	"net/http"
)

// HostnameWithScheme reconstructs the externally visible base url of this service from an inbound request.
func HostnameWithScheme(r *http.Request) string {
	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}
