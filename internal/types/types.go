package types

import (
	"fmt"
	"math"
	"time"
)

// Coupon payment frequencies (payments per year).
const (
	Annual     = 1
	SemiAnnual = 2
	Quarterly  = 4
	Monthly    = 12
)

// Bond is an immutable description of a fixed-rate coupon bond.
// Construct via NewBond so the invariants are checked up front.
type Bond struct {
	FaceValue       float64
	CouponRate      float64 // annual rate as a fraction, e.g. 0.05 for 5%
	YearsToMaturity float64
	Frequency       int // payments per year: 1, 2, 4 or 12
}

// NewBond validates the bond parameters and returns the bond.
//
//	face:  Face value, must be positive.
//	rate:  Annual coupon rate as a fraction, must be >= 0.
//	years: Years to maturity, must be positive.
//	freq:  Coupon payments per year, one of 1, 2, 4, 12.
//
// The schedule must cover at least one payment, i.e. round(years*freq) >= 1.
func NewBond(face, rate, years float64, freq int) (*Bond, error) {
	if face <= 0 {
		return nil, ErrInvalidFaceValue
	}
	if rate < 0 {
		return nil, ErrInvalidCouponRate
	}
	if years <= 0 {
		return nil, ErrInvalidMaturity
	}
	if freq != Annual && freq != SemiAnnual && freq != Quarterly && freq != Monthly {
		return nil, ErrInvalidFrequency
	}

	b := &Bond{
		FaceValue:       face,
		CouponRate:      rate,
		YearsToMaturity: years,
		Frequency:       freq,
	}

	if b.Periods() < 1 {
		return nil, ErrNoCouponPeriods
	}

	return b, nil
}

// Periods is the number of coupon periods to maturity.
func (b *Bond) Periods() int {
	return int(math.Round(b.YearsToMaturity * float64(b.Frequency)))
}

// PeriodCoupon is the coupon amount paid each period.
func (b *Bond) PeriodCoupon() float64 {
	return b.FaceValue * b.CouponRate / float64(b.Frequency)
}

// CashFlow is a single payment in a bond's schedule. Period is 1-indexed,
// TimeYears = Period/Frequency. The final flow includes the face value.
type CashFlow struct {
	Period    int
	TimeYears float64
	Amount    float64
}

// Schedule builds the ordered cash-flow schedule for the bond.
func (b *Bond) Schedule() ([]CashFlow, error) {
	n := b.Periods()
	if n < 1 {
		return nil, ErrNoCouponPeriods
	}

	coupon := b.PeriodCoupon()
	flows := make([]CashFlow, n)

	for i := 1; i <= n; i++ {
		flows[i-1] = CashFlow{
			Period:    i,
			TimeYears: float64(i) / float64(b.Frequency),
			Amount:    coupon,
		}
	}
	flows[n-1].Amount += b.FaceValue

	return flows, nil
}

// PricingResult is the clean/dirty price decomposition at a valuation date.
// DirtyPrice is the present value of all future cash flows,
// CleanPrice = DirtyPrice - AccruedInterest. Price mirrors DirtyPrice.
type PricingResult struct {
	Price           float64
	CleanPrice      float64
	DirtyPrice      float64
	AccruedInterest float64
}

// RiskResult holds the duration and convexity measures at a fixed yield.
// Durations are in years, convexity is annualized.
type RiskResult struct {
	MacaulayDuration float64
	ModifiedDuration float64
	Convexity        float64
}

// AccruedFraction returns the elapsed fraction of the current coupon period
// using a 360-day year convention (360/freq days per period).
//
//	lastPayment: Date of the most recent coupon payment.
//	asOf:        Valuation date, must not be before lastPayment.
//	freq:        Coupon payments per year.
//
// Returns a fraction in [0,1). If asOf has rolled past the end of the
// period the caller supplied a stale lastPayment and this fails rather
// than guessing.
func AccruedFraction(lastPayment, asOf time.Time, freq int) (float64, error) {
	if freq != Annual && freq != SemiAnnual && freq != Quarterly && freq != Monthly {
		return 0, ErrInvalidFrequency
	}
	if asOf.Before(lastPayment) {
		return 0, ErrInvalidAccruedFraction
	}

	days := math.Floor(asOf.Sub(lastPayment).Hours() / 24)
	daysPerPeriod := 360.0 / float64(freq)

	fraction := days / daysPerPeriod
	if fraction >= 1 {
		return 0, ErrInvalidAccruedFraction
	}

	return fraction, nil
}

var (
	ErrNilBond                = fmt.Errorf("bond is nil")
	ErrInvalidFaceValue       = fmt.Errorf("invalid face value")
	ErrInvalidCouponRate      = fmt.Errorf("invalid coupon rate")
	ErrInvalidMaturity        = fmt.Errorf("invalid years to maturity")
	ErrInvalidFrequency       = fmt.Errorf("invalid payment frequency")
	ErrNoCouponPeriods        = fmt.Errorf("schedule has no coupon periods")
	ErrInvalidRate            = fmt.Errorf("invalid yield (discount factor is not positive)")
	ErrInvalidPrice           = fmt.Errorf("invalid price")
	ErrInvalidAccruedFraction = fmt.Errorf("invalid accrued period fraction")
	ErrInvalidCurveRange      = fmt.Errorf("invalid curve range")
	ErrYieldNotFound          = fmt.Errorf("no yield found in the search bracket")
	ErrYieldNoConvergence     = fmt.Errorf("yield solver failed to converge within max iterations")
)
