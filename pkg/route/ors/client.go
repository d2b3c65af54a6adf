// Package ors provides a route.Provider backed by OpenRouteService.
package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tournevent/storefront/pkg/route"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const providerName = "ors"

// Config holds OpenRouteService configuration.
type Config struct {
	APIKey  string
	BaseURL string // defaults to https://api.openrouteservice.org
	Profile string // defaults to "driving-car"
	Timeout time.Duration
}

// Client is the OpenRouteService route provider. Requests are never
// retried; the caller decides.
type Client struct {
	apiKey     string
	baseURL    string
	profile    string
	httpClient *http.Client
	logger     *otelzap.Logger
	tracer     trace.Tracer
}

// New creates an OpenRouteService client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openrouteservice.org"
	}
	profile := cfg.Profile
	if profile == "" {
		profile = "driving-car"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	if tracer == nil {
		tracer = otel.Tracer("github.com/tournevent/storefront/pkg/route/ors")
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		profile:    profile,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		tracer:     tracer,
	}, nil
}

// Name returns the provider name.
func (c *Client) Name() string {
	return providerName
}

// Route fetches the driving route between origin and destination.
func (c *Client) Route(ctx context.Context, origin, destination route.Coordinates) (_ *route.Route, err error) {
	ctx, span := c.tracer.Start(ctx, "ors.Route",
		trace.WithAttributes(attribute.String("route.profile", c.profile)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	payload, err := json.Marshal(directionsRequest{
		Coordinates: [][]float64{origin.LonLat(), destination.LonLat()},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal directions request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", c.baseURL, c.profile)
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = route.TransportError(err)
		c.logger.Ctx(ctx).Warn("ORS request failed", zap.Error(err))
		return nil, route.NewProviderError(providerName, "REQUEST_FAILED", "directions request failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, parseError(resp)
	}

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, route.NewProviderError(providerName, "DECODE_FAILED", "decode directions response").WithCause(err)
	}
	if len(decoded.Features) == 0 {
		return nil, route.NewProviderError(providerName, "NO_FEATURES", "no route features returned").WithCause(route.ErrNoRoute)
	}

	f := decoded.Features[0]
	summary := f.Properties.Summary
	if summary.Distance < 0 || summary.Duration < 0 {
		return nil, route.NewProviderError(providerName, "INVALID_METRICS",
			fmt.Sprintf("negative metrics distance=%f duration=%f", summary.Distance, summary.Duration))
	}

	geom := make([]route.Coordinates, 0, len(f.Geometry.Coordinates))
	for _, pair := range f.Geometry.Coordinates {
		// ORS may append elevation as a third value.
		p, err := route.FromLonLat(pair)
		if err != nil {
			continue
		}
		geom = append(geom, p)
	}

	return &route.Route{
		Provider:        providerName,
		Origin:          origin,
		Destination:     destination,
		Geometry:        geom,
		DistanceMeters:  summary.Distance,
		DurationSeconds: summary.Duration,
	}, nil
}

func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json, application/geo+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var decoded errorResponse
	if err := json.Unmarshal(body, &decoded); err == nil && decoded.Error.Message != "" {
		e := route.NewProviderError(providerName, fmt.Sprintf("ORS_%d", decoded.Error.Code), decoded.Error.Message).
			WithStatusCode(resp.StatusCode)
		if decoded.Error.Code == codeRouteNotFound {
			e = e.WithCause(route.ErrNoRoute)
		}
		return e
	}

	return route.NewProviderError(providerName, fmt.Sprintf("HTTP_%d", resp.StatusCode),
		strings.TrimSpace(string(body))).WithStatusCode(resp.StatusCode)
}

var _ route.Provider = (*Client)(nil)
