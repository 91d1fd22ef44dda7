package main

import (
	"benritz/bondcalc/internal/types"
	"fmt"
)

func main() {
	// 5% semi-annual 10y bond, face 1000
	bond, err := types.NewBond(1000, 0.05, 10, types.SemiAnnual)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	schedule, err := bond.Schedule()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	price, err := types.PriceAnnual(schedule, 0.05, bond.Frequency)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
	} else {
		fmt.Printf("Price at 5%%: %.6f\n", price)
	}

	ytm, err := types.YieldToMaturity(schedule, 950, bond.Frequency)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
	} else {
		fmt.Printf("YTM at 950: %.8f%%\n", ytm*100)
	}

	risk, err := types.RiskMetrics(schedule, 0.025, bond.Frequency)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
	} else {
		fmt.Printf("Macaulay: %.6f Modified: %.6f Convexity: %.6f\n",
			risk.MacaulayDuration, risk.ModifiedDuration, risk.Convexity)
	}
}
