package mapbox_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/storefront/pkg/route"
	"github.com/tournevent/storefront/pkg/route/mapbox"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const testToken = "pk.test-token"

var (
	bogota = route.Coordinates{Longitude: -74.0721, Latitude: 4.7110}
	chapi  = route.Coordinates{Longitude: -74.0628, Latitude: 4.6486}
)

func newTestClient(baseURL string) *mapbox.Client {
	return mapbox.New(mapbox.Config{
		Token:   testToken,
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
	}, otelzap.New(zap.NewNop()), nil)
}

func TestClient_Name(t *testing.T) {
	assert.Equal(t, "mapbox", newTestClient("http://unused").Name())
}

func TestClient_Route_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/directions/v5/mapbox/driving/-74.072100,4.711000;-74.062800,4.648600", r.URL.Path)
		assert.Equal(t, testToken, r.URL.Query().Get("access_token"))
		assert.Equal(t, "geojson", r.URL.Query().Get("geometries"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"code": "Ok",
			"routes": [{
				"distance": 8123.4,
				"duration": 1260.5,
				"geometry": {"type": "LineString", "coordinates": [[-74.0721, 4.7110], [-74.07, 4.68], [-74.0628, 4.6486]]}
			}]
		}`))
	}))
	defer srv.Close()

	r, err := newTestClient(srv.URL).Route(context.Background(), bogota, chapi)
	require.NoError(t, err)

	assert.Equal(t, "mapbox", r.Provider)
	assert.Equal(t, 8123.4, r.DistanceMeters)
	assert.Equal(t, 1260.5, r.DurationSeconds)
	require.Len(t, r.Geometry, 3)
	assert.Equal(t, bogota, r.Geometry[0])
	assert.Equal(t, bogota, r.Origin)
	assert.Equal(t, chapi, r.Destination)
}

func TestClient_Route_NoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"code":    "NoRoute",
			"message": "No route found",
			"routes":  []any{},
		})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Route(context.Background(), bogota, chapi)
	require.Error(t, err)
	assert.True(t, errors.Is(err, route.ErrNoRoute))

	var perr *route.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "NoRoute", perr.Code)
}

func TestClient_Route_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Not Authorized - Invalid Token"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Route(context.Background(), bogota, chapi)
	require.Error(t, err)

	var perr *route.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusUnauthorized, perr.StatusCode)
	assert.Contains(t, perr.Message, "Invalid Token")
}

func TestClient_Route_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(srv.URL).Route(ctx, bogota, chapi)
	assert.Error(t, err)
}

func TestClient_Route_UnreachableHidesToken(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	deadURL := srv.URL
	srv.Close()

	_, err := newTestClient(deadURL).Route(context.Background(), bogota, chapi)
	require.Error(t, err)

	var perr *route.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "REQUEST_FAILED", perr.Code)
	assert.NotContains(t, err.Error(), testToken)
	assert.NotContains(t, err.Error(), "access_token")
}
