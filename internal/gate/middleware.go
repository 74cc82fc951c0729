package gate

import (
	"encoding/json"
	"net/http"

	"newsbrief/internal/logger"
	"newsbrief/internal/metrics"
)

// Middleware applies the gate in front of a handler: CORS headers and
// preflight termination first, then origin, declared-size and rate checks.
// Rejected requests never reach the wrapped handler.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cls := g.Classify(r)
		allowed := g.OriginAllowed(cls.Origin, cls.IsPaymentRelated)

		w.Header().Set("Vary", "Origin")
		// A denied origin gets no CORS grant, only the rejection itself.
		if allowed {
			if cls.Origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", cls.Origin)
			} else {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+HeaderPayment+", "+HeaderPaymentResponse)
			w.Header().Set("Access-Control-Expose-Headers", HeaderPaymentResponse)
		}

		// Preflight terminates here; it never reaches the handler.
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if !allowed {
			logger.Warn("origin denied", "origin", cls.Origin, "client", cls.ClientKey)
			metrics.Global.IncrementOriginDenied()
			writeGateError(w, http.StatusForbidden, "forbidden")
			return
		}

		if g.MaxBodyBytes > 0 && r.ContentLength > g.MaxBodyBytes {
			logger.Warn("declared body too large", "content_length", r.ContentLength, "client", cls.ClientKey)
			metrics.Global.IncrementPayloadTooLarge()
			writeGateError(w, http.StatusRequestEntityTooLarge, "request too large")
			return
		}

		// The payment collaborator enforces its own limits on paid calls;
		// monitoring paths never consume quota.
		if !cls.IsPaymentRelated && g.rateLimited(r.URL.Path) && !g.Limiter.Allow(cls.ClientKey) {
			logger.Warn("rate limited", "client", cls.ClientKey)
			metrics.Global.IncrementRateLimited()
			writeGateError(w, http.StatusTooManyRequests, "too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeGateError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
