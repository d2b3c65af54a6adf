package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tournevent/storefront/pkg/route"
	"github.com/tournevent/storefront/pkg/shipping"
)

const (
	partnerCoordsSQL = `SELECT latitude, longitude FROM partners WHERE id = $1`
	// A row owned by another account must look exactly like a missing row.
	userAddressCoordsSQL = `SELECT latitude, longitude FROM user_addresses WHERE id = $1 AND user_id = $2`
)

// Resolve returns the coordinates of a partner storefront or of one of the
// user's saved addresses. addressID is ignored for partners.
func (s *Store) Resolve(ctx context.Context, party shipping.Party, addressID string) (route.Coordinates, error) {
	var (
		row  pgx.Row
		what string
	)
	switch party.Kind {
	case shipping.PartyPartner:
		row = s.q.QueryRow(ctx, partnerCoordsSQL, party.ID)
		what = "partner " + party.ID
	case shipping.PartyUser:
		row = s.q.QueryRow(ctx, userAddressCoordsSQL, addressID, party.ID)
		what = "address " + addressID
	default:
		return route.Coordinates{}, fmt.Errorf("unknown party kind %q", party.Kind)
	}

	var lat, lon *float64
	if err := row.Scan(&lat, &lon); err != nil {
		if missing(err) {
			return route.Coordinates{}, shipping.NewError(shipping.KindNotFound, what+" not found")
		}
		return route.Coordinates{}, fmt.Errorf("query %s: %w", what, err)
	}
	if lat == nil || lon == nil {
		return route.Coordinates{}, shipping.NewError(shipping.KindInvalidAddress, what+" has no coordinates")
	}
	return route.Coordinates{Longitude: *lon, Latitude: *lat}, nil
}

var _ shipping.AddressResolver = (*Store)(nil)
