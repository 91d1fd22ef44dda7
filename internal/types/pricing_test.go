package types_test

import (
	"errors"
	"math"
	"testing"

	"benritz/bondcalc/internal/types"
)

const (
	priceTolerance = 1e-6
	yieldTolerance = 1e-6
)

// 5% semi-annual 10y bond, face 1000: 20 periods of 25 plus face.
func semiAnnualBond(t *testing.T) (*types.Bond, []types.CashFlow) {
	t.Helper()

	b, err := types.NewBond(1000, 0.05, 10, types.SemiAnnual)
	if err != nil {
		t.Fatalf("NewBond: %v", err)
	}

	schedule, err := b.Schedule()
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	return b, schedule
}

func TestPrice_ParBond(t *testing.T) {
	t.Parallel()

	_, schedule := semiAnnualBond(t)

	// Periodic yield equals the periodic coupon rate, so the bond
	// prices at par.
	price, err := types.Price(schedule, 0.025)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}

	if math.Abs(price-1000.0) > priceTolerance {
		t.Fatalf("par price: got %f, want 1000", price)
	}
}

func TestPriceAnnual_ConvertsOnce(t *testing.T) {
	t.Parallel()

	_, schedule := semiAnnualBond(t)

	annual, err := types.PriceAnnual(schedule, 0.05, types.SemiAnnual)
	if err != nil {
		t.Fatalf("PriceAnnual: %v", err)
	}

	periodic, err := types.Price(schedule, 0.025)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}

	if math.Abs(annual-periodic) > priceTolerance {
		t.Fatalf("annual %f != periodic %f", annual, periodic)
	}
}

func TestPrice_Monotonicity(t *testing.T) {
	t.Parallel()

	_, schedule := semiAnnualBond(t)

	yields := []float64{-0.5, -0.1, 0, 0.01, 0.025, 0.05, 0.1, 0.5, 2.0}

	prev := math.Inf(1)
	for _, y := range yields {
		price, err := types.Price(schedule, y)
		if err != nil {
			t.Fatalf("Price(%f): %v", y, err)
		}
		if price >= prev {
			t.Fatalf("price not strictly decreasing at y=%f: %f >= %f", y, price, prev)
		}
		prev = price
	}
}

func TestPrice_InvalidRate(t *testing.T) {
	t.Parallel()

	_, schedule := semiAnnualBond(t)

	for _, y := range []float64{-1.0, -1.5} {
		if _, err := types.Price(schedule, y); !errors.Is(err, types.ErrInvalidRate) {
			t.Fatalf("Price(%f): got error %v, want ErrInvalidRate", y, err)
		}
	}
}

func TestPrice_EmptySchedule(t *testing.T) {
	t.Parallel()

	if _, err := types.Price(nil, 0.025); !errors.Is(err, types.ErrNoCouponPeriods) {
		t.Fatalf("got error %v, want ErrNoCouponPeriods", err)
	}
}

func TestYieldToMaturity_DiscountBond(t *testing.T) {
	t.Parallel()

	_, schedule := semiAnnualBond(t)

	ytm, err := types.YieldToMaturity(schedule, 950, types.SemiAnnual)
	if err != nil {
		t.Fatalf("YieldToMaturity: %v", err)
	}

	// Annualized yield that reprices to 950; above the 5% coupon since
	// the bond trades below par.
	if math.Abs(ytm-0.0566168908) > yieldTolerance {
		t.Fatalf("ytm: got %f, want 0.0566168908", ytm)
	}

	price, err := types.PriceAnnual(schedule, ytm, types.SemiAnnual)
	if err != nil {
		t.Fatalf("PriceAnnual: %v", err)
	}
	if math.Abs(price-950) > 1e-4 {
		t.Fatalf("reprice: got %f, want 950", price)
	}
}

func TestYieldToMaturity_RoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		face  float64
		rate  float64
		years float64
		freq  int
		yield float64 // annualized
	}{
		{"par semi-annual", 1000, 0.05, 10, types.SemiAnnual, 0.05},
		{"discount annual", 100, 0.03, 5, types.Annual, 0.07},
		{"premium quarterly", 1000, 0.08, 7, types.Quarterly, 0.04},
		{"monthly", 100, 0.06, 2, types.Monthly, 0.055},
		{"zero coupon", 1000, 0, 10, types.SemiAnnual, 0.04},
		{"negative yield", 100, 0.02, 3, types.SemiAnnual, -0.01},
		{"high yield", 1000, 0.05, 10, types.SemiAnnual, 0.35},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			b, err := types.NewBond(tc.face, tc.rate, tc.years, tc.freq)
			if err != nil {
				t.Fatalf("NewBond: %v", err)
			}

			schedule, err := b.Schedule()
			if err != nil {
				t.Fatalf("Schedule: %v", err)
			}

			price, err := types.PriceAnnual(schedule, tc.yield, tc.freq)
			if err != nil {
				t.Fatalf("PriceAnnual: %v", err)
			}

			ytm, err := types.YieldToMaturity(schedule, price, tc.freq)
			if err != nil {
				t.Fatalf("YieldToMaturity: %v", err)
			}

			if math.Abs(ytm-tc.yield) > yieldTolerance {
				t.Fatalf("round trip: got %f, want %f", ytm, tc.yield)
			}
		})
	}
}

func TestYieldToMaturity_InvalidPrice(t *testing.T) {
	t.Parallel()

	_, schedule := semiAnnualBond(t)

	for _, price := range []float64{0, -100} {
		if _, err := types.YieldToMaturity(schedule, price, types.SemiAnnual); !errors.Is(err, types.ErrInvalidPrice) {
			t.Fatalf("YieldToMaturity(price=%f): got error %v, want ErrInvalidPrice", price, err)
		}
	}
}

func TestYieldToMaturity_NegativeYield(t *testing.T) {
	t.Parallel()

	// Market price above the undiscounted cash-flow sum (1100) forces a
	// negative yield.
	b, err := types.NewBond(1000, 0.05, 2, types.SemiAnnual)
	if err != nil {
		t.Fatalf("NewBond: %v", err)
	}

	schedule, err := b.Schedule()
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	ytm, err := types.YieldToMaturity(schedule, 1150, types.SemiAnnual)
	if err != nil {
		t.Fatalf("YieldToMaturity: %v", err)
	}

	if ytm >= 0 {
		t.Fatalf("ytm: got %f, want negative", ytm)
	}

	price, err := types.PriceAnnual(schedule, ytm, types.SemiAnnual)
	if err != nil {
		t.Fatalf("PriceAnnual: %v", err)
	}
	if math.Abs(price-1150) > 1e-4 {
		t.Fatalf("reprice: got %f, want 1150", price)
	}
}

func TestYieldToMaturity_NotFound(t *testing.T) {
	t.Parallel()

	b, err := types.NewBond(1000, 0.05, 2, types.SemiAnnual)
	if err != nil {
		t.Fatalf("NewBond: %v", err)
	}

	schedule, err := b.Schedule()
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	// Bracket floored at zero cannot reach the negative yield implied by
	// a price above the undiscounted sum.
	cfg := types.DefaultSolverConfig()
	cfg.BracketLo = 0

	if _, err := types.YieldToMaturityWithConfig(schedule, 1150, types.SemiAnnual, cfg); !errors.Is(err, types.ErrYieldNotFound) {
		t.Fatalf("got error %v, want ErrYieldNotFound", err)
	}
}

func TestAccruedInterest(t *testing.T) {
	t.Parallel()

	accrued, err := types.AccruedInterest(25, 0.5)
	if err != nil {
		t.Fatalf("AccruedInterest: %v", err)
	}
	if math.Abs(accrued-12.5) > priceTolerance {
		t.Fatalf("accrued: got %f, want 12.5", accrued)
	}

	for _, fraction := range []float64{-0.1, 1.0, 1.5} {
		if _, err := types.AccruedInterest(25, fraction); !errors.Is(err, types.ErrInvalidAccruedFraction) {
			t.Fatalf("AccruedInterest(fraction=%f): got error %v, want ErrInvalidAccruedFraction", fraction, err)
		}
	}
}

func TestPriceBond_CleanDirtyDecomposition(t *testing.T) {
	t.Parallel()

	b, _ := semiAnnualBond(t)

	result, err := types.PriceBond(b, 0.05, 0.5)
	if err != nil {
		t.Fatalf("PriceBond: %v", err)
	}

	if math.Abs(result.AccruedInterest-12.5) > priceTolerance {
		t.Fatalf("accrued: got %f, want 12.5", result.AccruedInterest)
	}
	if math.Abs(result.DirtyPrice-1000.0) > priceTolerance {
		t.Fatalf("dirty: got %f, want 1000", result.DirtyPrice)
	}
	if math.Abs(result.CleanPrice-(result.DirtyPrice-12.5)) > priceTolerance {
		t.Fatalf("clean: got %f, want dirty - 12.5 = %f", result.CleanPrice, result.DirtyPrice-12.5)
	}
	if result.Price != result.DirtyPrice {
		t.Fatalf("price %f != dirty price %f", result.Price, result.DirtyPrice)
	}
}
