// Package geocode resolves street addresses to coordinates through an
// OpenStreetMap-style search endpoint. The engine treats geocoding as
// best-effort: a failure here leaves the order without coordinates rather
// than failing submission.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/pkg/errs"
)

const serviceName = "geocoder"

// Client resolves addresses over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a geocoding client. The timeout is deliberately short: a
// slow geocoder must not hold up order submission.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves a free-text address to a coordinate. An address the
// service does not know is an external-service error, same as an outage; the
// caller degrades gracefully either way.
func (c *Client) Geocode(ctx context.Context, address string) (kernel.GeoPoint, error) {
	if address == "" {
		return kernel.GeoPoint{}, errs.NewValueIsRequiredError("address")
	}

	endpoint := c.baseURL + "/search?format=json&limit=1&q=" + url.QueryEscape(address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return kernel.GeoPoint{}, errs.NewExternalServiceError(serviceName, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return kernel.GeoPoint{}, errs.NewExternalServiceError(serviceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return kernel.GeoPoint{}, errs.NewExternalServiceError(serviceName,
			fmt.Errorf("search returned %d", resp.StatusCode))
	}

	var results []searchResult
	if err = json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return kernel.GeoPoint{}, errs.NewExternalServiceError(serviceName, err)
	}
	if len(results) == 0 {
		return kernel.GeoPoint{}, errs.NewExternalServiceError(serviceName,
			fmt.Errorf("no match for address"))
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return kernel.GeoPoint{}, errs.NewExternalServiceError(serviceName, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return kernel.GeoPoint{}, errs.NewExternalServiceError(serviceName, err)
	}

	point, err := kernel.NewGeoPoint(lat, lon)
	if err != nil {
		return kernel.GeoPoint{}, errs.NewExternalServiceError(serviceName, err)
	}
	return point, nil
}
