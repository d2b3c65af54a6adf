package shipping

import (
	"errors"
	"fmt"
	"math"
)

// Policy holds the pricing coefficients. Every value comes from deployment
// configuration.
type Policy struct {
	BaseFare      float64
	PerMeterRate  float64
	PerSecondRate float64
	MinFare       float64
	MaxFare       float64
	Currency      string
}

// Validate checks that every coefficient is finite and non-negative, that
// MinFare and MaxFare are whole cents and that MinFare <= MaxFare.
func (p Policy) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"base fare", p.BaseFare},
		{"per-meter rate", p.PerMeterRate},
		{"per-second rate", p.PerSecondRate},
		{"min fare", p.MinFare},
		{"max fare", p.MaxFare},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			return fmt.Errorf("pricing policy: %s must be a non-negative number, got %v", f.name, f.value)
		}
	}
	// Bounds on the cent grid keep the rounded cost inside [MinFare, MaxFare].
	for _, f := range fields[3:] {
		if !wholeCents(f.value) {
			return fmt.Errorf("pricing policy: %s must be a whole number of cents, got %v", f.name, f.value)
		}
	}
	if p.MinFare > p.MaxFare {
		return fmt.Errorf("pricing policy: min fare %v exceeds max fare %v", p.MinFare, p.MaxFare)
	}
	if p.Currency == "" {
		return errors.New("pricing policy: currency is required")
	}
	return nil
}

// Cost applies the policy to a route:
//
//	clamp(base + perMeter*distance + perSecond*duration, min, max)
//
// rounded half-up to two decimals.
func (p Policy) Cost(distanceMeters, durationSeconds float64) float64 {
	raw := p.BaseFare + p.PerMeterRate*distanceMeters + p.PerSecondRate*durationSeconds
	return RoundHalfUp(clamp(raw, p.MinFare, p.MaxFare), 2)
}

func wholeCents(v float64) bool {
	cents := v * 100
	return math.Abs(cents-math.Round(cents)) < 1e-6
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RoundHalfUp rounds v to the given number of decimal places, with ties
// away from zero. The value is first snapped to a few extra digits so that
// binary representation error (1.005 -> 1.00499...) does not flip a tie.
func RoundHalfUp(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	guard := math.Pow(10, float64(places+4))
	snapped := math.Round(v*guard) / (guard / scale)
	return math.Round(snapped) / scale
}
