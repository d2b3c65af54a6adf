package shipping_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/storefront/pkg/route"
	"github.com/tournevent/storefront/pkg/shipping"
)

func TestQuote_MarshalJSON(t *testing.T) {
	q := &shipping.Quote{
		DistanceMeters:  4200,
		DurationSeconds: 780,
		ShippingCost:    5880,
		Currency:        "COP",
		Geometry:        []route.Coordinates{{Longitude: -74.0, Latitude: 4.6}},
		Provider:        "mapbox",
		QuotedAt:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"distanceMeters": 4200,
		"durationSeconds": 780,
		"shippingCost": 5880,
		"currency": "COP",
		"geometry": [[-74.0, 4.6]],
		"provider": "mapbox",
		"quotedAt": "2026-03-01T12:00:00Z"
	}`, string(raw))
}

func TestQuote_MarshalJSON_EmptyGeometry(t *testing.T) {
	raw, err := json.Marshal(&shipping.Quote{Currency: "COP"})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"geometry":[]`)
}
