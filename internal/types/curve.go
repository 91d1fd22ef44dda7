package types

// CurvePoint is a single (annualized yield, price) sample on the
// price-yield curve.
type CurvePoint struct {
	Yield float64
	Price float64
}

// PriceYieldCurve samples the price of a schedule over a range of
// annualized yields for curve plotting. The samples are evenly spaced
// from lo to hi inclusive.
//
//	schedule: Ordered cash flows produced by Bond.Schedule.
//	lo, hi:   Annualized yield range, lo < hi.
//	points:   Number of samples, at least 2.
//	freq:     Coupon payments per year.
func PriceYieldCurve(schedule []CashFlow, lo, hi float64, points, freq int) ([]CurvePoint, error) {
	if points < 2 || hi <= lo {
		return nil, ErrInvalidCurveRange
	}

	step := (hi - lo) / float64(points-1)
	curve := make([]CurvePoint, points)

	for i := range points {
		y := lo + float64(i)*step

		price, err := PriceAnnual(schedule, y, freq)
		if err != nil {
			return nil, err
		}

		curve[i] = CurvePoint{Yield: y, Price: price}
	}

	return curve, nil
}

// DefaultPriceYieldCurve samples the standard plotting range, 1% to 15%
// annualized in 100 points.
func DefaultPriceYieldCurve(schedule []CashFlow, freq int) ([]CurvePoint, error) {
	return PriceYieldCurve(schedule, 0.01, 0.15, 100, freq)
}
