package gate

import (
	"net"
	"net/http"
	"strings"
)

// Payment handshake headers set by the external payment collaborator.
const (
	HeaderPayment         = "X-Payment"
	HeaderPaymentResponse = "X-Payment-Response"
)

// Classification is derived per request from headers and path, never stored.
type Classification struct {
	IsPaymentRelated bool
	Origin           string
	ClientKey        string
}

// Classify inspects a request and decides how the gate should treat it.
// A request is payment-related if it targets the paid entrypoint route or
// carries either side of the payment handshake; those requests bypass the
// strict origin and rate checks because the payment collaborator may call
// back without a browser-style origin.
func (g *Gate) Classify(r *http.Request) Classification {
	payment := strings.HasPrefix(r.URL.Path, g.EntryPrefix) ||
		r.Header.Get(HeaderPayment) != "" ||
		r.Header.Get(HeaderPaymentResponse) != ""

	return Classification{
		IsPaymentRelated: payment,
		Origin:           r.Header.Get("Origin"),
		ClientKey:        clientKey(r),
	}
}

// clientKey derives the rate-limit key from forwarded-IP headers, falling
// back to the transport peer address.
func clientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, ok := strings.Cut(xff, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(xff)
	}
	if rip := r.Header.Get("X-Real-Ip"); rip != "" {
		return strings.TrimSpace(rip)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
