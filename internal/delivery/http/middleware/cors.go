package middleware

import (
	"net/http"
	"strings"
)

const (
	corsAllowMethods  = "GET, POST, PUT, OPTIONS"
	corsAllowHeaders  = "Authorization, Content-Type, Accept, X-Request-ID"
	corsExposeHeaders = RequestIDHeader
	corsMaxAge        = "86400"
	anyOrigin         = "*"
)

// corsPolicy is the set of origins allowed to call the API from a browser.
// A "*" entry opens the catalog to every origin but never sends credentials.
type corsPolicy struct {
	origins map[string]struct{}
	any     bool
}

func newCORSPolicy(allowedOrigins []string) corsPolicy {
	p := corsPolicy{origins: make(map[string]struct{}, len(allowedOrigins))}
	for _, o := range allowedOrigins {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		switch o {
		case "":
		case anyOrigin:
			p.any = true
		default:
			p.origins[o] = struct{}{}
		}
	}
	return p
}

// allow writes the headers for origin and reports whether it is allowed.
func (p corsPolicy) allow(h http.Header, origin string) bool {
	if origin == "" {
		return false
	}
	h.Add("Vary", "Origin")
	if _, ok := p.origins[origin]; ok {
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
	} else if p.any {
		h.Set("Access-Control-Allow-Origin", anyOrigin)
	} else {
		return false
	}
	h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
	return true
}

// CORS answers preflight requests with 204 and decorates every other response
// from an allowed origin before next runs.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	policy := newCORSPolicy(allowedOrigins)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed := policy.allow(w.Header(), r.Header.Get("Origin"))

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			if allowed {
				w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
				w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
				w.Header().Set("Access-Control-Max-Age", corsMaxAge)
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
