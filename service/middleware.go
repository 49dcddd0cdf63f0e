package service

import (
	"net/http"

	"github.com/evergreen-ci/gimlet"
)

type corsHandler struct{}

// NewCORSHandler returns middleware that permits every origin,
// method, and header and allows credentials. The request's origin is
// echoed back because browsers reject a wildcard origin when
// credentials are allowed. This is a permissive default for
// non-production use.
func NewCORSHandler() gimlet.Middleware { return &corsHandler{} }

func (*corsHandler) ServeHTTP(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = "*"
	}

	rw.Header().Set("Access-Control-Allow-Origin", origin)
	rw.Header().Set("Access-Control-Allow-Credentials", "true")
	rw.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

	if headers := r.Header.Get("Access-Control-Request-Headers"); headers != "" {
		rw.Header().Set("Access-Control-Allow-Headers", headers)
	}

	if r.Method == http.MethodOptions {
		rw.WriteHeader(http.StatusOK)
		return
	}

	next(rw, r)
}
