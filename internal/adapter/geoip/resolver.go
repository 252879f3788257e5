// Package geoip resolves the geographic origin of client IP addresses
// through an external HTTP lookup service. Resolution is best effort:
// callers treat a nil GeoInfo as "origin unknown".
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/medovate/clinic-backend/internal/domain"
)

const defaultBaseURL = "http://ip-api.com/json"

// Resolver looks up GeoInfo for public IP addresses.
type Resolver struct {
	baseURL    string
	httpClient *http.Client
	group      singleflight.Group
	log        *slog.Logger
}

// NewResolver creates a Resolver. An empty baseURL selects the default
// lookup service; timeout bounds each outbound request.
func NewResolver(baseURL string, timeout time.Duration, logger *slog.Logger) *Resolver {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Resolver{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "geoip"),
	}
}

// apiResponse is the lookup service's wire format.
type apiResponse struct {
	Status  string `json:"status"`
	Country string `json:"country"`
	City    string `json:"city"`
}

// Lookup resolves the country and city for an IP address.
// Returns nil, nil for private, loopback, or unparseable addresses.
// Concurrent lookups for the same IP are collapsed into one request.
func (r *Resolver) Lookup(ctx context.Context, ip string) (*domain.GeoInfo, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsPrivate() || parsed.IsLoopback() || parsed.IsUnspecified() {
		return nil, nil
	}

	v, err, _ := r.group.Do(ip, func() (any, error) {
		return r.fetch(ctx, ip)
	})
	if err != nil {
		return nil, err
	}

	geo, _ := v.(*domain.GeoInfo)
	return geo, nil
}

func (r *Resolver) fetch(ctx context.Context, ip string) (*domain.GeoInfo, error) {
	reqURL := r.baseURL + "/" + url.PathEscape(ip)

	r.log.DebugContext(ctx, "geoip request", slog.String("ip", ip))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("geoip: create request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.WarnContext(ctx, "geoip request failed", slog.String("ip", ip), slog.String("error", err.Error()))
		return nil, fmt.Errorf("geoip: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geoip: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("geoip: read body: %w", err)
	}

	var api apiResponse
	if err := json.Unmarshal(body, &api); err != nil {
		return nil, fmt.Errorf("geoip: decode json: %w", err)
	}

	if api.Status != "success" || api.Country == "" {
		return nil, nil
	}

	return &domain.GeoInfo{Country: api.Country, City: api.City}, nil
}
