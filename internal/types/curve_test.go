package types_test

import (
	"errors"
	"math"
	"testing"

	"benritz/bondcalc/internal/types"
)

func TestPriceYieldCurve(t *testing.T) {
	t.Parallel()

	_, schedule := semiAnnualBond(t)

	curve, err := types.PriceYieldCurve(schedule, 0.01, 0.15, 100, types.SemiAnnual)
	if err != nil {
		t.Fatalf("PriceYieldCurve: %v", err)
	}

	if len(curve) != 100 {
		t.Fatalf("curve length: got %d, want 100", len(curve))
	}
	if math.Abs(curve[0].Yield-0.01) > 1e-12 {
		t.Fatalf("first yield: got %f, want 0.01", curve[0].Yield)
	}
	if math.Abs(curve[99].Yield-0.15) > 1e-12 {
		t.Fatalf("last yield: got %f, want 0.15", curve[99].Yield)
	}

	for i := 1; i < len(curve); i++ {
		if curve[i].Price >= curve[i-1].Price {
			t.Fatalf("curve not strictly decreasing at point %d", i)
		}
	}

	// Each point agrees with pricing the schedule directly.
	mid := curve[50]
	price, err := types.PriceAnnual(schedule, mid.Yield, types.SemiAnnual)
	if err != nil {
		t.Fatalf("PriceAnnual: %v", err)
	}
	if math.Abs(mid.Price-price) > 1e-9 {
		t.Fatalf("point 50: got %f, want %f", mid.Price, price)
	}
}

func TestPriceYieldCurve_InvalidRange(t *testing.T) {
	t.Parallel()

	_, schedule := semiAnnualBond(t)

	cases := []struct {
		name   string
		lo, hi float64
		points int
	}{
		{"single point", 0.01, 0.15, 1},
		{"reversed range", 0.15, 0.01, 100},
		{"empty range", 0.05, 0.05, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := types.PriceYieldCurve(schedule, tc.lo, tc.hi, tc.points, types.SemiAnnual); !errors.Is(err, types.ErrInvalidCurveRange) {
				t.Fatalf("got error %v, want ErrInvalidCurveRange", err)
			}
		})
	}
}

func TestDefaultPriceYieldCurve(t *testing.T) {
	t.Parallel()

	_, schedule := semiAnnualBond(t)

	curve, err := types.DefaultPriceYieldCurve(schedule, types.SemiAnnual)
	if err != nil {
		t.Fatalf("DefaultPriceYieldCurve: %v", err)
	}
	if len(curve) != 100 {
		t.Fatalf("curve length: got %d, want 100", len(curve))
	}
}
