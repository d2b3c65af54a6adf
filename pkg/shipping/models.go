package shipping

import (
	"encoding/json"
	"time"

	"github.com/tournevent/storefront/pkg/route"
)

// PartyKind identifies who owns an address.
type PartyKind string

const (
	PartyPartner PartyKind = "partner"
	PartyUser    PartyKind = "user"
)

// Party is the owner of an address: a partner storefront or a user account.
type Party struct {
	Kind PartyKind
	ID   string
}

// QuoteRequest asks for the cost of shipping from a partner to one of the
// principal's saved addresses.
type QuoteRequest struct {
	PrincipalID   string
	PartnerID     string
	UserAddressID string
}

// Quote is a freshly computed shipping quote. It is never cached or stored.
type Quote struct {
	DistanceMeters  float64
	DurationSeconds float64
	ShippingCost    float64
	Currency        string
	Geometry        []route.Coordinates
	Provider        string
	QuotedAt        time.Time
}

// GeometryLonLat returns the geometry as [lon, lat] pairs. It is never nil.
func (q *Quote) GeometryLonLat() [][]float64 {
	out := make([][]float64, 0, len(q.Geometry))
	for _, c := range q.Geometry {
		out = append(out, c.LonLat())
	}
	return out
}

type quoteJSON struct {
	DistanceMeters  float64     `json:"distanceMeters"`
	DurationSeconds float64     `json:"durationSeconds"`
	ShippingCost    float64     `json:"shippingCost"`
	Currency        string      `json:"currency"`
	Geometry        [][]float64 `json:"geometry"`
	Provider        string      `json:"provider"`
	QuotedAt        time.Time   `json:"quotedAt"`
}

// MarshalJSON encodes the quote in its wire shape, with geometry as a list
// of [lon, lat] pairs.
func (q *Quote) MarshalJSON() ([]byte, error) {
	return json.Marshal(quoteJSON{
		DistanceMeters:  q.DistanceMeters,
		DurationSeconds: q.DurationSeconds,
		ShippingCost:    q.ShippingCost,
		Currency:        q.Currency,
		Geometry:        q.GeometryLonLat(),
		Provider:        q.Provider,
		QuotedAt:        q.QuotedAt,
	})
}
