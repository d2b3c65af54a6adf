package shipping

import (
	"context"

	"github.com/tournevent/storefront/pkg/route"
)

// AddressResolver resolves an address to coordinates.
//
// For PartyPartner, party.ID is the partner id and addressID is ignored.
// For PartyUser, party.ID is the requesting principal and addressID must be
// owned by it. Implementations return ErrNotFound for missing or foreign
// rows and ErrInvalidAddress for rows without coordinates. They never
// return a zero value in place of an error.
type AddressResolver interface {
	Resolve(ctx context.Context, party Party, addressID string) (route.Coordinates, error)
}
