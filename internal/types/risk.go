package types

import "math"

// MacaulayDuration calculates the present-value-weighted average time to
// receipt of the cash flows, in years.
//
//	schedule:       Ordered cash flows produced by Bond.Schedule.
//	yieldPerPeriod: Discount rate per coupon period.
func MacaulayDuration(schedule []CashFlow, yieldPerPeriod float64) (float64, error) {
	if len(schedule) == 0 {
		return 0, ErrNoCouponPeriods
	}
	if 1+yieldPerPeriod <= 0 {
		return 0, ErrInvalidRate
	}

	weighted := 0.0
	total := 0.0

	for _, cf := range schedule {
		pv := cf.Amount / math.Pow(1+yieldPerPeriod, float64(cf.Period))
		weighted += cf.TimeYears * pv
		total += pv
	}

	return weighted / total, nil
}

// ModifiedDuration derives the first-order price sensitivity to the
// annualized yield from the Macaulay duration:
//
//	modified = macaulay / (1 + yieldPerPeriod)
func ModifiedDuration(macaulayDuration, yieldPerPeriod float64) float64 {
	return macaulayDuration / (1 + yieldPerPeriod)
}

// Convexity calculates the annualized second-order price sensitivity:
//
//	convexity = Σ i*(i+1) * PV(CF_i) / (freq^2 * (1+y)^2 * Σ PV(CF_i))
//
// The division by freq^2 annualizes the per-period measure; it is applied
// here exactly once.
func Convexity(schedule []CashFlow, yieldPerPeriod float64, freq int) (float64, error) {
	if len(schedule) == 0 {
		return 0, ErrNoCouponPeriods
	}
	if freq < 1 {
		return 0, ErrInvalidFrequency
	}
	if 1+yieldPerPeriod <= 0 {
		return 0, ErrInvalidRate
	}

	weighted := 0.0
	total := 0.0

	for _, cf := range schedule {
		i := float64(cf.Period)
		pv := cf.Amount / math.Pow(1+yieldPerPeriod, i)
		weighted += i * (i + 1) * pv
		total += pv
	}

	m := float64(freq)

	return weighted / (m * m * math.Pow(1+yieldPerPeriod, 2) * total), nil
}

// RiskMetrics calculates the full set of risk measures at a per-period
// yield.
func RiskMetrics(schedule []CashFlow, yieldPerPeriod float64, freq int) (*RiskResult, error) {
	macaulay, err := MacaulayDuration(schedule, yieldPerPeriod)
	if err != nil {
		return nil, err
	}

	convexity, err := Convexity(schedule, yieldPerPeriod, freq)
	if err != nil {
		return nil, err
	}

	return &RiskResult{
		MacaulayDuration: macaulay,
		ModifiedDuration: ModifiedDuration(macaulay, yieldPerPeriod),
		Convexity:        convexity,
	}, nil
}

// CurrentYield calculates the annual coupon income as a fraction of the
// clean price.
func CurrentYield(b *Bond, cleanPrice float64) (float64, error) {
	if b == nil {
		return 0, ErrNilBond
	}
	if cleanPrice <= 0 {
		return 0, ErrInvalidPrice
	}
	return b.FaceValue * b.CouponRate / cleanPrice, nil
}

// SensitivityResult is the second-order estimate of a price move for a
// given yield change.
type SensitivityResult struct {
	DurationEffect  float64 // fractional price change from duration
	ConvexityEffect float64 // fractional price change from convexity
	TotalEffect     float64
	NewPrice        float64
}

// PriceSensitivity estimates the price after a yield change using the
// duration/convexity expansion:
//
//	ΔP/P ≈ -modifiedDuration*Δy + 0.5*convexity*Δy^2
//
//	price:            Current price.
//	modifiedDuration: Modified duration, in years.
//	convexity:        Annualized convexity.
//	yieldChange:      Change in the annualized yield, as a fraction.
func PriceSensitivity(price, modifiedDuration, convexity, yieldChange float64) *SensitivityResult {
	durationEffect := -modifiedDuration * yieldChange
	convexityEffect := 0.5 * convexity * yieldChange * yieldChange
	total := durationEffect + convexityEffect

	return &SensitivityResult{
		DurationEffect:  durationEffect,
		ConvexityEffect: convexityEffect,
		TotalEffect:     total,
		NewPrice:        price * (1 + total),
	}
}
