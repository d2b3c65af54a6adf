package access

import (
	"context"
	"errors"
	"strings"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// ErrNoProfile is returned by a ProfileStore when the account has no
// profile row.
var ErrNoProfile = errors.New("profile not found")

// ProfileStore reads the role column of an account profile.
type ProfileStore interface {
	ProfileRole(ctx context.Context, userID string) (string, error)
}

// RoleResolver determines the effective role of a principal.
type RoleResolver struct {
	profiles ProfileStore
	logger   *otelzap.Logger
}

// NewRoleResolver creates a RoleResolver.
func NewRoleResolver(profiles ProfileStore, logger *otelzap.Logger) *RoleResolver {
	return &RoleResolver{profiles: profiles, logger: logger}
}

// Resolve returns the principal's role. The profile role wins; when it is
// empty the token's app metadata is consulted. User metadata is editable by
// the account holder and never grants a role. Lookup failures are logged
// and never block the request.
func (r *RoleResolver) Resolve(ctx context.Context, principal *Principal) Role {
	if principal == nil {
		return RoleCustomer
	}

	raw, err := r.profiles.ProfileRole(ctx, principal.ID)
	if err != nil {
		if !errors.Is(err, ErrNoProfile) {
			r.logger.Ctx(ctx).Warn("Profile role lookup failed",
				zap.String("user_id", principal.ID),
				zap.Error(err),
			)
		}
		raw = ""
	}

	for _, candidate := range []string{raw, metadataRole(principal.AppMetadata)} {
		if strings.TrimSpace(candidate) != "" {
			return ParseRole(candidate)
		}
	}

	if claimed := metadataRole(principal.Metadata); strings.TrimSpace(claimed) != "" && ParseRole(claimed) != RoleCustomer {
		r.logger.Ctx(ctx).Warn("Ignoring role from user metadata",
			zap.String("user_id", principal.ID),
			zap.String("claimed_role", claimed),
		)
	}
	return RoleCustomer
}
