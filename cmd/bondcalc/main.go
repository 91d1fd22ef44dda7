package main

import (
	"benritz/bondcalc/internal/types"
	"flag"
	"fmt"
	"os"
)

func writeCurve(path string, curve []types.CurvePoint) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := fmt.Fprintf(file, "yield,price\n"); err != nil {
		return err
	}
	for _, pt := range curve {
		if _, err := fmt.Fprintf(file, "%.6f,%.6f\n", pt.Yield, pt.Price); err != nil {
			return err
		}
	}

	return nil
}

func main() {
	faceValue := flag.Float64("facevalue", 100, "Face value of the bond")
	coupon := flag.Float64("coupon", 0.0, "Annual coupon rate (%) of the bond")
	years := flag.Float64("years", 0.0, "Years to maturity")
	frequency := flag.Int("frequency", 2, "Coupon payments per year (1, 2, 4 or 12)")
	yield := flag.Float64("yield", 0.0, "Annualized yield (%) to price the bond at")
	price := flag.Float64("price", 0.0, "Market (dirty) price to solve the yield from")
	fraction := flag.Float64("fraction", 0.0, "Elapsed fraction of the current coupon period [0,1)")
	curvePath := flag.String("curve", "", "Write the price-yield curve to this CSV file")
	flag.Parse()

	flagsSet := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		flagsSet[f.Name] = true
	})

	if !flagsSet["years"] {
		fmt.Println("Error: -years flag is required")
		return
	}

	if !flagsSet["yield"] && !flagsSet["price"] {
		fmt.Println("Error: -yield or -price flag is required")
		return
	}

	if *coupon < 0.0 || *coupon > 100.0 {
		fmt.Println("Error: coupon rate must be between 0.0 and 100.0")
		return
	}

	bond, err := types.NewBond(*faceValue, *coupon/100, *years, *frequency)
	if err != nil {
		fmt.Printf("Error: invalid bond: %v\n", err)
		return
	}

	schedule, err := bond.Schedule()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	annualYield := *yield / 100

	if flagsSet["price"] {
		annualYield, err = types.YieldToMaturity(schedule, *price, bond.Frequency)
		if err != nil {
			fmt.Printf("Error solving yield: %v\n", err)
			return
		}
	}

	pricing, err := types.PriceBond(bond, annualYield, *fraction)
	if err != nil {
		fmt.Printf("Error pricing bond: %v\n", err)
		return
	}

	risk, err := types.RiskMetrics(schedule, annualYield/float64(bond.Frequency), bond.Frequency)
	if err != nil {
		fmt.Printf("Error calculating risk metrics: %v\n", err)
		return
	}

	currentYield, err := types.CurrentYield(bond, pricing.CleanPrice)
	if err != nil {
		fmt.Printf("Error calculating current yield: %v\n", err)
		return
	}

	fmt.Printf("Bond Details:\n")
	fmt.Printf("\tFace Value: %.3f\n", bond.FaceValue)
	fmt.Printf("\tCoupon Rate: %.3f%%\n", bond.CouponRate*100)
	fmt.Printf("\tYears to Maturity: %.3f\n", bond.YearsToMaturity)
	fmt.Printf("\tPayments per Year: %d\n", bond.Frequency)
	fmt.Printf("\tCoupon Periods: %d\n", bond.Periods())
	fmt.Printf("\tPeriodic Payment: %.3f\n", bond.PeriodCoupon())
	fmt.Printf("\tYield to Maturity: %.6f%%\n", annualYield*100)
	fmt.Printf("\tCurrent Yield: %.6f%%\n", currentYield*100)
	fmt.Printf("\tClean Price: %.3f\n", pricing.CleanPrice)
	fmt.Printf("\tDirty Price: %.3f\n", pricing.DirtyPrice)
	fmt.Printf("\tAccrued Interest: %.3f\n", pricing.AccruedInterest)
	fmt.Printf("\tMacaulay Duration: %.6f years\n", risk.MacaulayDuration)
	fmt.Printf("\tModified Duration: %.6f\n", risk.ModifiedDuration)
	fmt.Printf("\tConvexity: %.6f\n", risk.Convexity)

	fmt.Printf("Cash Flows:\n")
	fmt.Printf("\t%-8s %-12s %s\n", "Period", "Time (yrs)", "Amount")
	for _, cf := range schedule {
		fmt.Printf("\t%-8d %-12.3f %.3f\n", cf.Period, cf.TimeYears, cf.Amount)
	}

	if *curvePath != "" {
		curve, err := types.DefaultPriceYieldCurve(schedule, bond.Frequency)
		if err != nil {
			fmt.Printf("Error building curve: %v\n", err)
			return
		}
		if err := writeCurve(*curvePath, curve); err != nil {
			fmt.Printf("Error writing curve: %v\n", err)
			return
		}
		fmt.Printf("Wrote curve to %s\n", *curvePath)
	}
}
