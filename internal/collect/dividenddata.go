package collect

import (
	"benritz/bondcalc/internal/types"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

var (
	SourceDividendData = "DividendData"
)

// DividendDataCollector scrapes the gilt prices table and runs each row
// through the analytics engine. The page also quotes a maturity yield,
// which is kept on the snapshot for comparison against the computed one.
type DividendDataCollector struct {
}

func NewDividendDataCollector() *DividendDataCollector {
	return &DividendDataCollector{}
}

func (c *DividendDataCollector) Collect(ctx context.Context, date time.Time) (*CollectedQuotes, error) {
	x := colly.NewCollector()

	// check page date matches requested date
	// the page is updated daily, but the data may not be available yet
	DATE_PREFIX := "Last updated: "
	var dataTs time.Time

	x.OnHTML("label", func(e *colly.HTMLElement) {
		if strings.HasPrefix(e.Text, DATE_PREFIX) {
			s := strings.TrimPrefix(e.Text, DATE_PREFIX)
			dataTs, _ = time.Parse("02 Jan 2006", s)
		}
	})

	collected := NewCollectedQuotes(SourceDividendData, date)

	x.OnHTML("#mainbody tr", func(e *colly.HTMLElement) {
		cq := c.readQuote(date, e)
		if cq != nil {
			collected.AddQuote(cq)
		}
	})

	x.Visit("https://www.dividenddata.co.uk/uk-gilts-prices-yields.py")

	if dataTs.IsZero() {
		return nil, ErrMissingQuoteDate
	}

	if !dataTs.Equal(date.Truncate(24 * time.Hour)) {
		return nil, ErrDataUnavailable
	}

	return collected, nil
}

func (c *DividendDataCollector) Source() string {
	return SourceDividendData
}

var (
	DD_COL_TICKER            = 0
	DD_COL_DESC              = 1
	DD_COL_COUPON            = 2
	DD_COL_MATURITY_DATE     = 3
	DD_COL_MATURITY_DURATION = 4
	DD_COL_PRICE             = 5
	DD_COL_MATURITY_YIELD    = 6
)

func (c *DividendDataCollector) readQuote(date time.Time, e *colly.HTMLElement) *CollectedQuote {
	q := &Quote{}

	cq := &CollectedQuote{Quote: q}

	e.ForEach("td", func(col int, el *colly.HTMLElement) {
		switch col {
		case DD_COL_TICKER:
			q.Ticker = strings.TrimSpace(el.Text)
			if q.Ticker == "" {
				cq.SetError(ErrInvalidRow)
			}
		case DD_COL_DESC:
			q.Desc = strings.TrimSpace(el.Text)
			if q.Desc == "" {
				cq.SetError(ErrInvalidRow)
			}
		case DD_COL_COUPON:
			s := strings.TrimSuffix(el.Text, "%")
			if coupon, err := strconv.ParseFloat(s, 64); err == nil {
				q.CouponPct = coupon
			} else {
				cq.SetError(types.ErrInvalidCouponRate)
			}
		case DD_COL_MATURITY_DATE:
			if ts, err := time.Parse("02-Jan-2006", el.Text); err == nil {
				q.MaturityDate = ts
			} else {
				cq.SetError(types.ErrInvalidMaturity)
			}
		case DD_COL_MATURITY_DURATION:
			// ignore, calculated from maturity date
		case DD_COL_PRICE:
			s := strings.TrimPrefix(el.Text, "£")
			if price, err := strconv.ParseFloat(s, 64); err == nil {
				q.CleanPrice = price
			} else {
				cq.SetError(types.ErrInvalidPrice)
			}
		case DD_COL_MATURITY_YIELD:
			s := strings.TrimSuffix(el.Text, "%")
			if quoted, err := strconv.ParseFloat(s, 64); err == nil {
				q.QuotedYield = quoted / 100
			} else {
				cq.SetError(ErrInvalidRow)
			}
		}
	})

	if cq.Err == nil {
		cq.Snapshot, cq.Err = Analyze(SourceDividendData, q, date)
	}

	return cq
}
