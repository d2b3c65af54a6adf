package telemetry_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/storefront/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, telemetry.ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, telemetry.ParseLevel(" warning "))
	assert.Equal(t, zapcore.ErrorLevel, telemetry.ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, telemetry.ParseLevel("verbose"))
}

func TestNewLogger(t *testing.T) {
	logger, err := telemetry.NewLogger("debug", "delivro-storefront")
	require.NoError(t, err)
	logger.Ctx(context.Background()).Debug("logger ready")
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewMetrics(reg)

	m.ObserveQuote("ok", 0.2)
	m.ObserveQuote("ok", 0.3)
	m.ObserveQuote("route_unavailable", 8)
	m.ObserveRoute("mapbox", "ok", 0.1)
	m.RecordRequest("/api/shipping/quote", "POST", "200", 0.2)
	m.RecordGate("admin", "redirect")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.QuotesTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QuotesTotal.WithLabelValues("route_unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/api/shipping/quote", "POST", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GateDecisions.WithLabelValues("admin", "redirect")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RouteDuration))

	// A second registry accepts a fresh set without duplicate registration.
	assert.NotPanics(t, func() { telemetry.NewMetrics(prometheus.NewRegistry()) })
}

func TestNewResource(t *testing.T) {
	res, err := telemetry.NewResource("delivro-storefront",
		attribute.String("service.version", "1.2.3"),
		attribute.String("route.provider", "mapbox"),
	)
	require.NoError(t, err)

	attrs := res.Attributes()
	assert.Contains(t, attrs, attribute.String("service.name", "delivro-storefront"))
	assert.Contains(t, attrs, attribute.String("service.version", "1.2.3"))
	assert.Contains(t, attrs, attribute.String("route.provider", "mapbox"))
}
