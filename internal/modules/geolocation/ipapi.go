package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"

	"toptransfer/internal/types"
)

const defaultIPAPIBase = "https://ipapi.co"

// IPLocator approximates a position from the caller's public IP via ipapi.co.
type IPLocator struct {
	baseURL string
	client  *http.Client
}

func NewIPLocator(baseURL string, client *http.Client) *IPLocator {
	if baseURL == "" {
		baseURL = defaultIPAPIBase
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &IPLocator{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// Source binds the locator to one client IP.
func (l *IPLocator) Source(ip string) PositionSource {
	return ipSource{locator: l, ip: ip}
}

type ipSource struct {
	locator *IPLocator
	ip      string
}

type ipapiResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Error     bool    `json:"error"`
	Reason    string  `json:"reason"`
}

func (s ipSource) CurrentPosition(ctx context.Context) (types.Point, error) {
	parsed := net.ParseIP(s.ip)
	if parsed == nil || parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() {
		return types.Point{}, ErrUnsupported
	}

	url := fmt.Sprintf("%s/%s/json/", s.locator.baseURL, parsed.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return types.Point{}, err
	}
	resp, err := s.locator.client.Do(req)
	if err != nil {
		return types.Point{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Point{}, fmt.Errorf("ipapi returned status %d", resp.StatusCode)
	}
	var body ipapiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return types.Point{}, fmt.Errorf("decode ipapi response: %w", err)
	}
	if body.Error {
		return types.Point{}, fmt.Errorf("ipapi: %s", body.Reason)
	}
	p := types.Point{Lat: body.Latitude, Lng: body.Longitude}
	if p == (types.Point{}) || !p.Valid() {
		return types.Point{}, ErrPermissionDenied
	}
	return p, nil
}
