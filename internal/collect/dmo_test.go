package collect

import (
	"math"
	"testing"
	"time"

	"benritz/bondcalc/internal/types"
)

func TestParseCouponPercentage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		desc    string
		want    float64
		wantErr bool
	}{
		{"2% Treasury Gilt 2025", 2, false},
		{"0 5/8% Treasury Gilt 2025", 0.625, false},
		{"3½% Treasury Gilt 2025", 3.5, false},
		{"4¼% Treasury Stock 2055", 4.25, false},
		{"1¾% Treasury Gilt 2057", 1.75, false},
		{"Treasury Gilt 2025", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			got, err := parseCouponPercentage(tc.desc)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.desc)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseCouponPercentage(%q): %v", tc.desc, err)
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("coupon: got %f, want %f", got, tc.want)
			}
		})
	}
}

func TestDMOParseRow(t *testing.T) {
	t.Parallel()

	c := NewDMOCollector()
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	t.Run("conventional gilt", func(t *testing.T) {
		t.Parallel()

		row := []string{"GB00B16NNR78", "4¼% Treasury Gilt 2031", "98.76", "99.85", "", "", "", "07-Jun-2031"}

		cq, err := c.parseRow(date, row)
		if err != nil {
			t.Fatalf("parseRow: %v", err)
		}
		if cq.Err != nil {
			t.Fatalf("quote error: %v", cq.Err)
		}
		if cq.Snapshot == nil {
			t.Fatalf("missing snapshot")
		}
		if cq.Snapshot.CouponPct != 4.25 {
			t.Fatalf("coupon: got %f, want 4.25", cq.Snapshot.CouponPct)
		}
		if cq.Snapshot.YieldToMaturity <= 0 {
			t.Fatalf("ytm not positive: %f", cq.Snapshot.YieldToMaturity)
		}
	})

	t.Run("index-linked skipped", func(t *testing.T) {
		t.Parallel()

		row := []string{"GB00B3Y1JG82", "0 1/8% Index-linked Treasury Gilt 2031", "98.76", "99.85", "", "", "", "07-Jun-2031"}

		if _, err := c.parseRow(date, row); err != ErrUnsupportedBond {
			t.Fatalf("got error %v, want ErrUnsupportedBond", err)
		}
	})

	t.Run("non gilt row skipped", func(t *testing.T) {
		t.Parallel()

		if _, err := c.parseRow(date, []string{"Close of business", "", "", "", "", "", "", ""}); err != ErrInvalidRow {
			t.Fatalf("got error %v, want ErrInvalidRow", err)
		}
	})

	t.Run("bad price recorded as failure", func(t *testing.T) {
		t.Parallel()

		row := []string{"GB00B16NNR78", "4¼% Treasury Gilt 2031", "n/a", "", "", "", "", "07-Jun-2031"}

		cq, err := c.parseRow(date, row)
		if err != nil {
			t.Fatalf("parseRow: %v", err)
		}
		if cq.Err != types.ErrInvalidPrice {
			t.Fatalf("quote error: got %v, want ErrInvalidPrice", cq.Err)
		}
	})
}

func TestCouponDates(t *testing.T) {
	t.Parallel()

	maturity := time.Date(2031, 6, 7, 0, 0, 0, 0, time.UTC)
	asOf := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	prev, next := couponDates(asOf, maturity, types.SemiAnnual)

	if !prev.Equal(time.Date(2026, 6, 7, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("prev: got %s", prev)
	}
	if !next.Equal(time.Date(2026, 12, 7, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("next: got %s", next)
	}
}
