// Package mapbox provides a route.Provider backed by the Mapbox Directions API.
package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
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

const providerName = "mapbox"

// Config holds Mapbox configuration.
type Config struct {
	Token   string
	BaseURL string // defaults to https://api.mapbox.com
	Profile string // defaults to "driving"
	Timeout time.Duration
}

// Client is the Mapbox route provider.
type Client struct {
	token      string
	baseURL    string
	profile    string
	httpClient *http.Client
	logger     *otelzap.Logger
	tracer     trace.Tracer
}

// New creates a Mapbox directions client. A nil tracer falls back to the
// global tracer provider.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.mapbox.com"
	}
	profile := cfg.Profile
	if profile == "" {
		profile = "driving"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	if tracer == nil {
		tracer = otel.Tracer("github.com/tournevent/storefront/pkg/route/mapbox")
	}

	return &Client{
		token:      cfg.Token,
		baseURL:    strings.TrimRight(baseURL, "/"),
		profile:    profile,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		tracer:     tracer,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return providerName
}

// Route fetches the driving route between origin and destination.
func (c *Client) Route(ctx context.Context, origin, destination route.Coordinates) (_ *route.Route, err error) {
	ctx, span := c.tracer.Start(ctx, "mapbox.Route",
		trace.WithAttributes(attribute.String("route.profile", c.profile)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	// Mapbox uses lon,lat order.
	coords := fmt.Sprintf("%.6f,%.6f;%.6f,%.6f",
		origin.Longitude, origin.Latitude, destination.Longitude, destination.Latitude)
	params := url.Values{
		"access_token": {c.token},
		"geometries":   {"geojson"},
		"overview":     {"full"},
	}
	u := fmt.Sprintf("%s/directions/v5/mapbox/%s/%s?%s", c.baseURL, c.profile, coords, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = route.TransportError(err)
		c.logger.Ctx(ctx).Warn("Mapbox request failed", zap.Error(err))
		return nil, route.NewProviderError(providerName, "REQUEST_FAILED", "directions request failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseError(resp)
	}

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, route.NewProviderError(providerName, "DECODE_FAILED", "decode directions response").WithCause(err)
	}

	if decoded.Code != "Ok" {
		return nil, codeError(decoded.Code, decoded.Message, resp.StatusCode)
	}
	if len(decoded.Routes) == 0 {
		return nil, route.NewProviderError(providerName, "NoRoute", "no routes returned").WithCause(route.ErrNoRoute)
	}

	best := decoded.Routes[0]
	if best.Distance < 0 || best.Duration < 0 {
		return nil, route.NewProviderError(providerName, "INVALID_METRICS",
			fmt.Sprintf("negative metrics distance=%f duration=%f", best.Distance, best.Duration))
	}

	geom := make([]route.Coordinates, 0, len(best.Geometry.Coordinates))
	for _, pair := range best.Geometry.Coordinates {
		p, err := route.FromLonLat(pair)
		if err != nil {
			// Geometry is display-only; skip malformed vertices.
			continue
		}
		geom = append(geom, p)
	}

	c.logger.Ctx(ctx).Debug("Mapbox route resolved",
		zap.Float64("distance_meters", best.Distance),
		zap.Float64("duration_seconds", best.Duration),
		zap.Int("geometry_points", len(geom)),
	)

	return &route.Route{
		Provider:        providerName,
		Origin:          origin,
		Destination:     destination,
		Geometry:        geom,
		DistanceMeters:  best.Distance,
		DurationSeconds: best.Duration,
	}, nil
}

func codeError(code, message string, status int) error {
	e := route.NewProviderError(providerName, code, message).WithStatusCode(status)
	if code == "NoRoute" || code == "NoSegment" {
		e = e.WithCause(route.ErrNoRoute)
	}
	return e
}

// parseError extracts the Mapbox error envelope from a non-200 response.
func parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var envelope struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && (envelope.Code != "" || envelope.Message != "") {
		code := envelope.Code
		if code == "" {
			code = fmt.Sprintf("HTTP_%d", resp.StatusCode)
		}
		return codeError(code, envelope.Message, resp.StatusCode)
	}

	return route.NewProviderError(providerName, fmt.Sprintf("HTTP_%d", resp.StatusCode),
		strings.TrimSpace(string(body))).WithStatusCode(resp.StatusCode)
}

var _ route.Provider = (*Client)(nil)
