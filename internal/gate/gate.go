package gate

import "strings"

// Gate owns every per-request admission decision: payment classification,
// origin policy, declared-size ceiling and the rate limiter. It is built
// once in main and shared by reference; the limiter is its only mutable
// state.
type Gate struct {
	// EntryPrefix is the route prefix of the paid entrypoint.
	EntryPrefix string

	// AllowedOrigins is the explicit allow-list. Empty means any https
	// origin is accepted.
	AllowedOrigins []string

	// PaymentGateways are always accepted, by exact or prefix match.
	PaymentGateways []string

	// MaxBodyBytes rejects requests whose declared Content-Length exceeds
	// it, before any body is read.
	MaxBodyBytes int64

	// UnlimitedPaths bypass the rate limiter but not the rest of the gate.
	// Monitoring endpoints go here so briefing traffic cannot starve probes.
	UnlimitedPaths []string

	Limiter *Limiter
}

func (g *Gate) rateLimited(path string) bool {
	for _, p := range g.UnlimitedPaths {
		if path == p {
			return false
		}
	}
	return true
}

// OriginAllowed applies the origin policy. Payment-related requests accept
// a missing origin; everything else needs either allow-list membership, a
// known payment gateway, or (with no allow-list configured) an https origin.
func (g *Gate) OriginAllowed(origin string, paymentRelated bool) bool {
	if origin == "" {
		return paymentRelated
	}

	for _, gw := range g.PaymentGateways {
		if origin == gw || strings.HasPrefix(origin, gw) {
			return true
		}
	}

	if len(g.AllowedOrigins) > 0 {
		for _, a := range g.AllowedOrigins {
			if origin == a {
				return true
			}
		}
		return false
	}

	return strings.HasPrefix(origin, "https://")
}
