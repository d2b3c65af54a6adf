package store

import (
	"context"
	"fmt"

	"github.com/tournevent/storefront/pkg/access"
)

const profileRoleSQL = `SELECT role FROM profiles WHERE id = $1`

// ProfileRole returns the role column of the user's profile. A NULL role
// reads as "".
func (s *Store) ProfileRole(ctx context.Context, userID string) (string, error) {
	var role *string
	if err := s.q.QueryRow(ctx, profileRoleSQL, userID).Scan(&role); err != nil {
		if missing(err) {
			return "", access.ErrNoProfile
		}
		return "", fmt.Errorf("query profile %s: %w", userID, err)
	}
	if role == nil {
		return "", nil
	}
	return *role, nil
}

var _ access.ProfileStore = (*Store)(nil)
