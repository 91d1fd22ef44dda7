package types

import "math"

// Price calculates the present value of a cash-flow schedule at a
// per-period discount rate.
//
//	schedule:       Ordered cash flows produced by Bond.Schedule.
//	yieldPerPeriod: Discount rate per coupon period (annual yield / frequency).
//
// Returns:
//
//	Sum over flows of amount / (1 + yieldPerPeriod)^period. Strictly
//	decreasing in the yield for yieldPerPeriod > -1.
func Price(schedule []CashFlow, yieldPerPeriod float64) (float64, error) {
	if len(schedule) == 0 {
		return 0, ErrNoCouponPeriods
	}
	if 1+yieldPerPeriod <= 0 {
		return 0, ErrInvalidRate
	}

	price := 0.0
	for _, cf := range schedule {
		price += cf.Amount / math.Pow(1+yieldPerPeriod, float64(cf.Period))
	}

	return price, nil
}

// PriceAnnual calculates the present value at an annualized yield.
// This is the single annual-to-periodic conversion point: the annual
// yield is divided by the frequency exactly once, here.
func PriceAnnual(schedule []CashFlow, annualYield float64, freq int) (float64, error) {
	if freq < 1 {
		return 0, ErrInvalidFrequency
	}
	return Price(schedule, annualYield/float64(freq))
}

// PriceDerivative calculates dPrice/dYield with respect to the per-period
// yield. Used by the Newton-Raphson yield solver.
func PriceDerivative(schedule []CashFlow, yieldPerPeriod float64) (float64, error) {
	if len(schedule) == 0 {
		return 0, ErrNoCouponPeriods
	}
	if 1+yieldPerPeriod <= 0 {
		return 0, ErrInvalidRate
	}

	derivative := 0.0
	for _, cf := range schedule {
		derivative += -float64(cf.Period) * cf.Amount / math.Pow(1+yieldPerPeriod, float64(cf.Period)+1)
	}

	return derivative, nil
}

// AccruedInterest calculates the coupon accrued since the last payment.
//
//	periodCoupon:    Coupon amount paid each period.
//	fractionElapsed: Elapsed fraction of the current period, in [0,1).
func AccruedInterest(periodCoupon, fractionElapsed float64) (float64, error) {
	if fractionElapsed < 0 || fractionElapsed >= 1 {
		return 0, ErrInvalidAccruedFraction
	}
	return periodCoupon * fractionElapsed, nil
}

// PriceBond prices a bond at an annualized yield and decomposes the result
// into clean and dirty prices.
//
//	b:               The bond.
//	annualYield:     Annualized yield, converted to per-period via PriceAnnual.
//	fractionElapsed: Elapsed fraction of the current coupon period, in [0,1).
func PriceBond(b *Bond, annualYield, fractionElapsed float64) (*PricingResult, error) {
	if b == nil {
		return nil, ErrNilBond
	}

	schedule, err := b.Schedule()
	if err != nil {
		return nil, err
	}

	dirty, err := PriceAnnual(schedule, annualYield, b.Frequency)
	if err != nil {
		return nil, err
	}

	accrued, err := AccruedInterest(b.PeriodCoupon(), fractionElapsed)
	if err != nil {
		return nil, err
	}

	return &PricingResult{
		Price:           dirty,
		DirtyPrice:      dirty,
		CleanPrice:      dirty - accrued,
		AccruedInterest: accrued,
	}, nil
}

// SolverConfig controls the yield solver. The bracket bounds are
// per-period yields; the upper bound is widened adaptively if the root
// lies beyond it.
type SolverConfig struct {
	Tolerance     float64 // absolute price tolerance for convergence
	MaxIterations int
	BracketLo     float64
	BracketHi     float64
}

// DefaultSolverConfig returns the solver configuration used by
// YieldToMaturity.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		Tolerance:     1e-6,
		MaxIterations: 100,
		BracketLo:     -0.9999,
		BracketHi:     10.0,
	}
}

// EstimatedYieldToMaturity calculates a rough estimate of the annualized
// yield used as a starting point for the Newton-Raphson solver.
//
//	annualCoupon: Total coupon paid per year.
//	face:         Face value of the bond.
//	price:        Market price of the bond.
//	years:        Years to maturity.
func EstimatedYieldToMaturity(annualCoupon, face, price, years float64) float64 {
	return (annualCoupon + (face-price)/years) / ((face + price) / 2)
}

// YieldToMaturity inverts the price function for the annualized yield that
// reprices the schedule to marketPrice, using the default solver config.
func YieldToMaturity(schedule []CashFlow, marketPrice float64, freq int) (float64, error) {
	return YieldToMaturityWithConfig(schedule, marketPrice, freq, DefaultSolverConfig())
}

// YieldToMaturityWithConfig solves price(y) = marketPrice for the
// per-period yield y and returns the annualized yield y * freq (the single
// periodic-to-annual conversion point for the inversion).
//
// Newton-Raphson with an analytic derivative is tried first; if it stalls
// or wanders the solver falls back to bisection on the configured bracket,
// which is guaranteed to converge because price(y) is continuous and
// strictly decreasing for y > -1.
func YieldToMaturityWithConfig(schedule []CashFlow, marketPrice float64, freq int, cfg SolverConfig) (float64, error) {
	if len(schedule) == 0 {
		return 0, ErrNoCouponPeriods
	}
	if marketPrice <= 0 {
		return 0, ErrInvalidPrice
	}
	if freq < 1 {
		return 0, ErrInvalidFrequency
	}

	if y, ok := solveNewton(schedule, marketPrice, freq, cfg); ok {
		return y * float64(freq), nil
	}

	y, err := solveBisection(schedule, marketPrice, cfg)
	if err != nil {
		return 0, err
	}

	return y * float64(freq), nil
}

// solveNewton attempts Newton-Raphson from the rule-of-thumb estimate,
// clamped to the bracket. Returns ok=false to hand over to bisection.
func solveNewton(schedule []CashFlow, marketPrice float64, freq int, cfg SolverConfig) (float64, bool) {
	last := schedule[len(schedule)-1]
	annualCoupon := schedule[0].Amount * float64(freq)
	face := last.Amount - schedule[0].Amount

	y := EstimatedYieldToMaturity(annualCoupon, face, marketPrice, last.TimeYears) / float64(freq)
	y = clampYield(y, cfg.BracketLo, cfg.BracketHi)

	for range cfg.MaxIterations {
		p, err := Price(schedule, y)
		if err != nil {
			return 0, false
		}

		dp := p - marketPrice
		if math.Abs(dp) < cfg.Tolerance {
			return y, true
		}

		d, err := PriceDerivative(schedule, y)
		if err != nil || math.Abs(d) < 1e-12 {
			return 0, false
		}

		y = clampYield(y-dp/d, cfg.BracketLo, cfg.BracketHi)
	}

	return 0, false
}

// solveBisection bisects the bracket, widening the upper bound when the
// root lies beyond it. price(lo) is the supremum of achievable prices;
// a market price above it has no root in the domain.
func solveBisection(schedule []CashFlow, marketPrice float64, cfg SolverConfig) (float64, error) {
	lo, hi := cfg.BracketLo, cfg.BracketHi

	pLo, err := Price(schedule, lo)
	if err != nil {
		return 0, err
	}
	if pLo < marketPrice {
		return 0, ErrYieldNotFound
	}

	pHi, err := Price(schedule, hi)
	if err != nil {
		return 0, err
	}
	for widen := 0; pHi > marketPrice; widen++ {
		if widen >= 60 {
			return 0, ErrYieldNotFound
		}
		hi *= 2
		if pHi, err = Price(schedule, hi); err != nil {
			return 0, err
		}
	}

	for range cfg.MaxIterations {
		mid := (lo + hi) / 2

		p, err := Price(schedule, mid)
		if err != nil {
			return 0, err
		}

		if math.Abs(p-marketPrice) < cfg.Tolerance {
			return mid, nil
		}

		if p > marketPrice {
			lo = mid
		} else {
			hi = mid
		}
	}

	return 0, ErrYieldNoConvergence
}

func clampYield(y, lo, hi float64) float64 {
	if y < lo {
		return lo
	}
	if y > hi {
		return hi
	}
	return y
}
