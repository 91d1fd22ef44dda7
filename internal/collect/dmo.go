package collect

import (
	"benritz/bondcalc/internal/types"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pbnjay/grate"
)

var SourceDMO = "DMO"

// DMOCollector pulls the DMO end-of-day gilt prices report (D10B) and runs
// each conventional gilt through the analytics engine.
type DMOCollector struct {
}

func NewDMOCollector() *DMOCollector {
	return &DMOCollector{}
}

func (c *DMOCollector) Collect(ctx context.Context, date time.Time) (*CollectedQuotes, error) {
	params := fmt.Sprintf("&Trade Date=%02d-%02d-%04d", date.Day(), date.Month(), date.Year())
	url := "https://www.dmo.gov.uk/umbraco/surface/DataExport/GetDataExport?reportCode=D10B&exportFormatValue=xls&parameters=" + url.QueryEscape(params)

	fmt.Printf("Fetching %s\n", url)

	client := &http.Client{}

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get data: http %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "bondcalc-*.xls")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())

	size, err := io.Copy(tmp, resp.Body)
	tmp.Close()
	if err != nil {
		return nil, err
	}

	fmt.Printf("Downloaded %d bytes to %s\n", size, tmp.Name())

	wb, err := grate.Open(tmp.Name())
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	collected := NewCollectedQuotes(SourceDMO, date)
	parsed := 0

	sheets, err := wb.List()
	if err != nil {
		return nil, err
	}
	for _, sheetName := range sheets {
		sheet, err := wb.Get(sheetName)
		if err != nil {
			return nil, err
		}

		for sheet.Next() {
			row := sheet.Strings()
			cq, err := c.parseRow(date, row)
			if err == nil {
				collected.AddQuote(cq)
				parsed++
			}
		}
	}

	if parsed == 0 {
		return nil, ErrDataUnavailable
	}

	return collected, nil
}

func (c *DMOCollector) Source() string {
	return SourceDMO
}

// parseRow converts a report row into an analytics snapshot. Rows that are
// not conventional gilts are skipped; rows with bad fields are recorded as
// per-quote failures.
func (c *DMOCollector) parseRow(date time.Time, row []string) (*CollectedQuote, error) {
	if len(row) == 0 {
		return nil, ErrInvalidRow
	}

	isin := row[0]

	if !strings.HasPrefix(isin, "GB") {
		return nil, ErrInvalidRow
	}

	q := &Quote{
		ISIN: strings.TrimSpace(isin),
		Desc: strings.TrimSpace(row[1]),
	}

	// the engine only handles fixed-rate coupons
	if strings.Contains(strings.ToLower(q.Desc), "index-linked") {
		return nil, ErrUnsupportedBond
	}

	cq := &CollectedQuote{Quote: q}

	if coupon, err := parseCouponPercentage(q.Desc); err == nil {
		q.CouponPct = coupon
	} else {
		cq.SetError(types.ErrInvalidCouponRate)
	}

	if cleanPrice, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64); err == nil {
		q.CleanPrice = cleanPrice
	} else {
		cq.SetError(types.ErrInvalidPrice)
	}

	if ts, err := time.Parse("02-Jan-2006", strings.TrimSpace(row[7])); err == nil {
		q.MaturityDate = ts
	} else {
		cq.SetError(types.ErrInvalidMaturity)
	}

	if cq.Err == nil {
		cq.Snapshot, cq.Err = Analyze(SourceDMO, q, date)
	}

	return cq, nil
}

// parseCouponPercentage parses a coupon percentage from a gilt description
// in the following formats
// 0 5/8% Treasury Gilt 2025,
// 2% Treasury Gilt 2025,
// 3½% Treasury Gilt 2025
//
//	desc: bond description
//
// Returns:
//
//	Coupon percentage
func parseCouponPercentage(desc string) (float64, error) {
	re := regexp.MustCompile(`^(\d+(?:\s+\d+\/\d+)?|\d+\/\d+|\d+|\d[¼½¾])(%)`)
	match := re.FindStringSubmatch(desc)

	if len(match) < 3 {
		return 0, types.ErrInvalidCouponRate
	}

	m := match[1]

	// convert ½, ¼, ¾ suffixes
	trimLast := func(s string) string {
		r := []rune(s)
		return string(r[0 : len(r)-1])
	}
	if strings.HasSuffix(m, "½") {
		m = trimLast(m) + " 1/2"
	} else if strings.HasSuffix(m, "¼") {
		m = trimLast(m) + " 1/4"
	} else if strings.HasSuffix(m, "¾") {
		m = trimLast(m) + " 3/4"
	}

	if strings.Contains(m, "/") {
		parts := strings.Split(m, " ")
		if len(parts) == 2 {
			// Mixed number
			whole, err := strconv.Atoi(parts[0])
			if err != nil {
				return 0, types.ErrInvalidCouponRate
			}
			fractionParts := strings.Split(parts[1], "/")
			if len(fractionParts) != 2 {
				return 0, types.ErrInvalidCouponRate
			}
			num, err := strconv.Atoi(fractionParts[0])
			if err != nil {
				return 0, types.ErrInvalidCouponRate
			}
			den, err := strconv.Atoi(fractionParts[1])
			if err != nil {
				return 0, types.ErrInvalidCouponRate
			}
			if den == 0 {
				return 0, types.ErrInvalidCouponRate
			}
			return float64(whole) + float64(num)/float64(den), nil
		} else if len(parts) == 1 {
			// Fraction only
			fractionParts := strings.Split(parts[0], "/")
			if len(fractionParts) != 2 {
				return 0, types.ErrInvalidCouponRate
			}
			num, err := strconv.Atoi(fractionParts[0])
			if err != nil {
				return 0, types.ErrInvalidCouponRate
			}
			den, err := strconv.Atoi(fractionParts[1])
			if err != nil {
				return 0, types.ErrInvalidCouponRate
			}
			if den == 0 {
				return 0, types.ErrInvalidCouponRate
			}
			return float64(num) / float64(den), nil
		}
	} else {
		// Whole number
		val, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, types.ErrInvalidCouponRate
		}
		return val, nil
	}

	return 0, types.ErrInvalidCouponRate
}
