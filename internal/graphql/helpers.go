package graphql

import (
	"errors"
	"fmt"
	"time"

	"github.com/tournevent/storefront/pkg/access"
	"github.com/tournevent/storefront/pkg/shipping"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

func nextFromPtr(next *string) access.Next {
	if next == nil {
		return access.NoNext
	}
	return access.ParseNext(*next)
}

// errorCode maps an error to the extensions.code value clients switch on.
func errorCode(err error) string {
	switch shipping.KindOf(err) {
	case shipping.KindValidation:
		return "BAD_USER_INPUT"
	case shipping.KindInvalidAddress:
		return "INVALID_ADDRESS"
	case shipping.KindNotFound:
		return "NOT_FOUND"
	case shipping.KindAuthRequired:
		return "UNAUTHENTICATED"
	case shipping.KindRouteUnavailable:
		return "ROUTE_UNAVAILABLE"
	default:
		return "INTERNAL"
	}
}

// toGQLError converts a resolver error. Unclassified errors are masked.
func toGQLError(err error, path ast.Path) *gqlerror.Error {
	msg := err.Error()
	var se *shipping.Error
	if errors.As(err, &se) {
		msg = se.Message
		if se.Kind == shipping.KindRouteUnavailable {
			msg = err.Error()
		}
	} else {
		msg = "internal error"
	}
	return &gqlerror.Error{
		Message:    msg,
		Path:       path,
		Extensions: map[string]interface{}{"code": errorCode(err)},
	}
}

func quoteField(q *shipping.Quote, name string) (interface{}, bool) {
	switch name {
	case "distanceMeters":
		return q.DistanceMeters, true
	case "durationSeconds":
		return q.DurationSeconds, true
	case "shippingCost":
		return q.ShippingCost, true
	case "currency":
		return q.Currency, true
	case "geometry":
		return q.GeometryLonLat(), true
	case "provider":
		return q.Provider, true
	case "quotedAt":
		return q.QuotedAt.UTC().Format(time.RFC3339Nano), true
	case "__typename":
		return "ShippingQuote", true
	default:
		return nil, false
	}
}

func stringArg(args map[string]interface{}, name string) (*string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, shipping.NewError(shipping.KindValidation, fmt.Sprintf("argument %q must be a string", name))
	}
	return &s, nil
}

func quoteInputArg(args map[string]interface{}) (QuoteShipmentInput, error) {
	raw, ok := args["input"].(map[string]interface{})
	if !ok {
		return QuoteShipmentInput{}, shipping.NewError(shipping.KindValidation, "missing or invalid 'input' argument")
	}
	var input QuoteShipmentInput
	input.PartnerID, _ = raw["partnerId"].(string)
	input.UserAddressID, _ = raw["userAddressId"].(string)
	return input, nil
}
