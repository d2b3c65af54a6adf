package shipping_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tournevent/storefront/pkg/shipping"
)

func copPolicy() shipping.Policy {
	return shipping.Policy{
		BaseFare:      3000,
		PerMeterRate:  0.5,
		PerSecondRate: 1,
		MinFare:       4000,
		MaxFare:       25000,
		Currency:      "COP",
	}
}

func TestPolicy_Cost(t *testing.T) {
	p := copPolicy()
	// 3000 + 0.5*4200 + 1*780
	assert.Equal(t, 5880.0, p.Cost(4200, 780))
}

func TestPolicy_Cost_ClampsLow(t *testing.T) {
	p := copPolicy()
	assert.Equal(t, 4000.0, p.Cost(100, 10))
}

func TestPolicy_Cost_ClampsHigh(t *testing.T) {
	p := copPolicy()
	assert.Equal(t, 25000.0, p.Cost(80000, 7200))
}

func TestPolicy_Cost_ZeroDistance(t *testing.T) {
	p := copPolicy()
	assert.Equal(t, math.Max(p.BaseFare, p.MinFare), p.Cost(0, 0))

	p.MinFare = 0
	assert.Equal(t, p.BaseFare, p.Cost(0, 0))
}

func TestPolicy_Cost_RoundsToCents(t *testing.T) {
	p := shipping.Policy{
		BaseFare:      2.5,
		PerMeterRate:  0.0004,
		PerSecondRate: 0.002,
		MinFare:       3,
		MaxFare:       20,
		Currency:      "USD",
	}
	// 2.5 + 3.24936 + 2.521 = 8.27036
	assert.Equal(t, 8.27, p.Cost(8123.4, 1260.5))
}

func TestPolicy_Cost_ClampHoldsForRandomRoutes(t *testing.T) {
	p := copPolicy()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		distance := rng.Float64() * 100000
		duration := rng.Float64() * 10800
		cost := p.Cost(distance, duration)
		assert.GreaterOrEqual(t, cost, p.MinFare)
		assert.LessOrEqual(t, cost, p.MaxFare)
	}
}

func TestPolicy_Cost_ClampHoldsForFractionalBounds(t *testing.T) {
	p := shipping.Policy{
		BaseFare:      50,
		PerMeterRate:  1,
		PerSecondRate: 0.0137,
		MinFare:       1.07,
		MaxFare:       10.05,
		Currency:      "USD",
	}
	assert.NoError(t, p.Validate())
	assert.Equal(t, 10.05, p.Cost(1000, 0))

	p.BaseFare = 0
	assert.Equal(t, 1.07, p.Cost(0, 0))

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		cost := p.Cost(rng.Float64()*12, rng.Float64()*600)
		assert.GreaterOrEqual(t, cost, p.MinFare)
		assert.LessOrEqual(t, cost, p.MaxFare)
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.01},
		{2.675, 2.68},
		{1.234, 1.23},
		{1.235, 1.24},
		{0, 0},
		{10, 10},
		{5880.125, 5880.13},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, shipping.RoundHalfUp(tt.in, 2), "RoundHalfUp(%v)", tt.in)
	}
}

func TestPolicy_Validate(t *testing.T) {
	assert.NoError(t, copPolicy().Validate())

	tests := []struct {
		name   string
		mutate func(p *shipping.Policy)
	}{
		{"negative base", func(p *shipping.Policy) { p.BaseFare = -1 }},
		{"negative per meter", func(p *shipping.Policy) { p.PerMeterRate = -0.1 }},
		{"nan per second", func(p *shipping.Policy) { p.PerSecondRate = math.NaN() }},
		{"infinite max", func(p *shipping.Policy) { p.MaxFare = math.Inf(1) }},
		{"min above max", func(p *shipping.Policy) { p.MinFare = 30000 }},
		{"no currency", func(p *shipping.Policy) { p.Currency = "" }},
		{"sub-cent min", func(p *shipping.Policy) { p.MinFare = 4000.001 }},
		{"sub-cent max", func(p *shipping.Policy) { p.MaxFare = 25000.005 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := copPolicy()
			tt.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}
