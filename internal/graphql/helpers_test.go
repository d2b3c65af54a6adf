package graphql_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/storefront/internal/graphql"
	"github.com/tournevent/storefront/pkg/access"
	"github.com/tournevent/storefront/pkg/shipping"
)

func TestExecutor_Health(t *testing.T) {
	exec := graphql.NewExecutor(newTestResolver(&fakeCalculator{}, access.RoleCustomer))

	resp := exec.Execute(signedIn("user-1"), graphql.Request{Query: `{ health }`})
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"health":"ok"}`, string(resp.Data))
}

func TestExecutor_LandingWithVariable(t *testing.T) {
	exec := graphql.NewExecutor(newTestResolver(&fakeCalculator{}, access.RoleDelivery))

	resp := exec.Execute(signedIn("user-1"), graphql.Request{
		Query:     `query Land($next: String) { home: landing, target: landing(next: $next) }`,
		Variables: map[string]interface{}{"next": "/delivery/orders/42"},
	})
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"home":"/delivery","target":"/delivery/orders/42"}`, string(resp.Data))
}

func TestExecutor_LandingNullVariable(t *testing.T) {
	exec := graphql.NewExecutor(newTestResolver(&fakeCalculator{}, access.RoleAdmin))

	resp := exec.Execute(signedIn("user-1"), graphql.Request{
		Query:     `query($next: String) { landing(next: $next) }`,
		Variables: map[string]interface{}{"next": nil},
	})
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"landing":"/admin"}`, string(resp.Data))
}

func TestExecutor_QuoteShipment(t *testing.T) {
	calc := &fakeCalculator{quote: sampleQuote()}
	exec := graphql.NewExecutor(newTestResolver(calc, access.RoleCustomer))

	resp := exec.Execute(signedIn("user-1"), graphql.Request{
		Query: `mutation Quote($input: QuoteShipmentInput!) {
			quoteShipment(input: $input) {
				shippingCost
				currency
				... on ShippingQuote { geometry }
				...Timing
			}
		}
		fragment Timing on ShippingQuote { quotedAt durationSeconds }`,
		OperationName: "Quote",
		Variables: map[string]interface{}{
			"input": map[string]interface{}{"partnerId": "partner-1", "userAddressId": "addr-1"},
		},
	})
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"quoteShipment":{
		"shippingCost": 5880,
		"currency": "COP",
		"geometry": [[-74.0, 4.6], [-74.06, 4.65]],
		"quotedAt": "2026-03-01T12:00:00Z",
		"durationSeconds": 780
	}}`, string(resp.Data))
	assert.Equal(t, "addr-1", calc.got.UserAddressID)
}

func TestExecutor_QuoteShipment_InlineInput(t *testing.T) {
	calc := &fakeCalculator{quote: sampleQuote()}
	exec := graphql.NewExecutor(newTestResolver(calc, access.RoleCustomer))

	resp := exec.Execute(signedIn("user-1"), graphql.Request{
		Query: `mutation { quoteShipment(input: {partnerId: "partner-9", userAddressId: "addr-9"}) { provider } }`,
	})
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"quoteShipment":{"provider":"mock"}}`, string(resp.Data))
	assert.Equal(t, "partner-9", calc.got.PartnerID)
}

func TestExecutor_ErrorCodes(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    string
		message string
	}{
		{"not found", shipping.NewError(shipping.KindNotFound, "address addr-1 not found"), "NOT_FOUND", "address addr-1 not found"},
		{"route", shipping.NewError(shipping.KindRouteUnavailable, "could not calculate route").WithCause(errors.New("timeout")), "ROUTE_UNAVAILABLE", "could not calculate route: timeout"},
		{"auth", shipping.ErrAuthRequired, "UNAUTHENTICATED", "authentication required"},
		{"internal", errors.New("pq: password authentication failed"), "INTERNAL", "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := graphql.NewExecutor(newTestResolver(&fakeCalculator{err: tt.err}, access.RoleCustomer))
			resp := exec.Execute(signedIn("user-1"), graphql.Request{
				Query: `mutation { quoteShipment(input: {partnerId: "p", userAddressId: "a"}) { shippingCost } }`,
			})
			require.Len(t, resp.Errors, 1)
			assert.Equal(t, tt.message, resp.Errors[0].Message)
			assert.Equal(t, tt.code, resp.Errors[0].Extensions["code"])
			assert.JSONEq(t, `{"quoteShipment":null}`, string(resp.Data))
		})
	}
}

func TestExecutor_Rejects(t *testing.T) {
	exec := graphql.NewExecutor(newTestResolver(&fakeCalculator{quote: sampleQuote()}, access.RoleCustomer))

	tests := []struct {
		name  string
		query string
	}{
		{"syntax", `{ health `},
		{"unknown field", `{ carriers }`},
		{"mutation field on query", `{ quoteShipment(input: {}) { currency } }`},
		{"no selection", `mutation { quoteShipment(input: {partnerId: "p", userAddressId: "a"}) }`},
		{"unknown subfield", `mutation { quoteShipment(input: {partnerId: "p", userAddressId: "a"}) { rateId } }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := exec.Execute(signedIn("user-1"), graphql.Request{Query: tt.query})
			assert.NotEmpty(t, resp.Errors)
		})
	}
}

func TestExecutor_ResponseEnvelope(t *testing.T) {
	exec := graphql.NewExecutor(newTestResolver(&fakeCalculator{}, access.RoleCustomer))
	resp := exec.Execute(signedIn("user-1"), graphql.Request{Query: `{ health __typename }`})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"health":"ok","__typename":"Query"}}`, string(raw))
}
