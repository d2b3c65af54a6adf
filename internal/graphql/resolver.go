package graphql

import (
	"context"

	"github.com/tournevent/storefront/internal/auth"
	"github.com/tournevent/storefront/pkg/access"
	"github.com/tournevent/storefront/pkg/shipping"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// QuoteCalculator computes shipping quotes.
type QuoteCalculator interface {
	Calculate(ctx context.Context, req shipping.QuoteRequest) (*shipping.Quote, error)
}

// RoleResolver determines a principal's role.
type RoleResolver interface {
	Resolve(ctx context.Context, principal *access.Principal) access.Role
}

// Resolver is the root resolver for the GraphQL schema.
// It holds dependencies needed by all resolvers.
type Resolver struct {
	Calculator QuoteCalculator
	Roles      RoleResolver
	Logger     *otelzap.Logger
}

// NewResolver creates a new resolver with the given dependencies.
func NewResolver(calculator QuoteCalculator, roles RoleResolver, logger *otelzap.Logger) *Resolver {
	return &Resolver{
		Calculator: calculator,
		Roles:      roles,
		Logger:     logger,
	}
}

// Query returns the query resolver.
func (r *Resolver) Query() *QueryResolver { return &QueryResolver{r} }

// Mutation returns the mutation resolver.
func (r *Resolver) Mutation() *MutationResolver { return &MutationResolver{r} }

// QueryResolver resolves root query fields.
type QueryResolver struct{ *Resolver }

// Health reports service liveness.
func (r *QueryResolver) Health(ctx context.Context) (string, error) {
	return "ok", nil
}

// Landing returns where the signed-in principal should go. next is used
// only when it is a same-origin relative path.
func (r *QueryResolver) Landing(ctx context.Context, next *string) (string, error) {
	principal := auth.PrincipalFrom(ctx)
	if principal == nil {
		return "", shipping.ErrAuthRequired
	}
	role := r.Roles.Resolve(ctx, principal)
	return access.RouteFor(role, nextFromPtr(next)), nil
}

// MutationResolver resolves root mutation fields.
type MutationResolver struct{ *Resolver }

// QuoteShipment quotes shipping from a partner to one of the caller's
// addresses.
func (r *MutationResolver) QuoteShipment(ctx context.Context, input QuoteShipmentInput) (*shipping.Quote, error) {
	req := shipping.QuoteRequest{
		PartnerID:     input.PartnerID,
		UserAddressID: input.UserAddressID,
	}
	if principal := auth.PrincipalFrom(ctx); principal != nil {
		req.PrincipalID = principal.ID
	}

	quote, err := r.Calculator.Calculate(ctx, req)
	if err != nil {
		if shipping.KindOf(err) == "" {
			r.Logger.Ctx(ctx).Error("Quote failed", zap.Error(err))
		}
		return nil, err
	}
	return quote, nil
}
