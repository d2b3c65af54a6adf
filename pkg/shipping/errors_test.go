package shipping_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tournevent/storefront/pkg/shipping"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := shipping.NewError(shipping.KindNotFound, "address a-1 not found")
	assert.True(t, errors.Is(err, shipping.ErrNotFound))
	assert.False(t, errors.Is(err, shipping.ErrValidation))
}

func TestError_WrappedStillMatches(t *testing.T) {
	err := fmt.Errorf("resolve user address: %w", shipping.ErrNotFound)
	assert.True(t, errors.Is(err, shipping.ErrNotFound))
	assert.Equal(t, shipping.KindNotFound, shipping.KindOf(err))
}

func TestError_Cause(t *testing.T) {
	cause := errors.New("context deadline exceeded")
	err := shipping.NewError(shipping.KindRouteUnavailable, "could not calculate route").WithCause(cause)
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "could not calculate route: context deadline exceeded", err.Error())
}

func TestKindOf_Foreign(t *testing.T) {
	assert.Equal(t, shipping.Kind(""), shipping.KindOf(errors.New("boom")))
	assert.Equal(t, shipping.Kind(""), shipping.KindOf(nil))
}
