package collect

import (
	"benritz/bondcalc/internal/types"
	"path/filepath"
	"time"

	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/parquet-go/parquet-go"
)

var (
	ErrInvalidRow       = fmt.Errorf("invalid row")
	ErrUnsupportedBond  = fmt.Errorf("unsupported bond")
	ErrDataUnavailable  = fmt.Errorf("data unavailable")
	ErrMissingQuoteDate = fmt.Errorf("missing quote date")
)

// Quote is a raw market observation of a fixed-rate bond.
type Quote struct {
	ISIN         string
	Ticker       string
	Desc         string
	CouponPct    float64 // annual coupon as a percentage
	CleanPrice   float64 // per 100 face
	QuotedYield  float64 // source-reported yield as a fraction, 0 if absent
	MaturityDate time.Time
}

// Snapshot is a quote with the full set of engine analytics, stored as a
// parquet row.
type Snapshot struct {
	Source           string
	AsOf             time.Time
	ISIN             string
	Ticker           string
	Desc             string
	CouponPct        float64
	MaturityDate     time.Time
	YearsToMaturity  float64
	CleanPrice       float64
	DirtyPrice       float64
	AccruedInterest  float64
	YieldToMaturity  float64 // annualized, as a fraction
	QuotedYield      float64
	CurrentYield     float64
	MacaulayDuration float64
	ModifiedDuration float64
	Convexity        float64
}

type CollectedQuote struct {
	Quote    *Quote
	Snapshot *Snapshot
	Err      error
}

func (c *CollectedQuote) SetError(err error) {
	if c.Err == nil {
		c.Err = err
	}
}

type CollectedQuotes struct {
	Snapshots []*Snapshot
	Failures  []*CollectedQuote
	Source    string
	AsOf      time.Time
}

func (c *CollectedQuotes) AddQuote(cq *CollectedQuote) {
	if cq.Err == nil {
		c.Snapshots = append(c.Snapshots, cq.Snapshot)
	} else {
		c.Failures = append(c.Failures, cq)
	}
}

func NewCollectedQuotes(source string, date time.Time) *CollectedQuotes {
	return &CollectedQuotes{
		Source:    source,
		AsOf:      date,
		Snapshots: []*Snapshot{},
		Failures:  []*CollectedQuote{},
	}
}

type Collector interface {
	Collect(ctx context.Context, date time.Time) (*CollectedQuotes, error)
	Source() string
}

// couponDates derives the previous and next coupon dates by stepping back
// from the maturity date in whole coupon periods until the valuation date
// falls inside the period.
func couponDates(asOf, maturity time.Time, freq int) (prev, next time.Time) {
	months := 12 / freq

	next = maturity
	for {
		t := next.AddDate(0, -months, 0)
		if !t.After(asOf) {
			return t, next
		}
		next = t
	}
}

// yearsToMaturity converts the date span to fractional years.
func yearsToMaturity(asOf, maturity time.Time) float64 {
	return maturity.Sub(asOf).Hours() / 24 / 365.25
}

// Analyze runs a quote through the pricing engine: accrued interest from
// the coupon-period dates, dirty price, yield to maturity from the dirty
// price, then durations and convexity at that yield. Gilt coupons are
// semi-annual.
func Analyze(source string, q *Quote, asOf time.Time) (*Snapshot, error) {
	if q.MaturityDate.Before(asOf) {
		return nil, types.ErrInvalidMaturity
	}

	const freq = types.SemiAnnual

	years := yearsToMaturity(asOf, q.MaturityDate)

	bond, err := types.NewBond(100, q.CouponPct/100, years, freq)
	if err != nil {
		return nil, err
	}

	schedule, err := bond.Schedule()
	if err != nil {
		return nil, err
	}

	prev, next := couponDates(asOf, q.MaturityDate, freq)
	fraction := asOf.Sub(prev).Hours() / next.Sub(prev).Hours()

	accrued, err := types.AccruedInterest(bond.PeriodCoupon(), fraction)
	if err != nil {
		return nil, err
	}

	dirty := q.CleanPrice + accrued

	ytm, err := types.YieldToMaturity(schedule, dirty, freq)
	if err != nil {
		return nil, err
	}

	risk, err := types.RiskMetrics(schedule, ytm/freq, freq)
	if err != nil {
		return nil, err
	}

	currentYield, err := types.CurrentYield(bond, q.CleanPrice)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Source:           source,
		AsOf:             asOf,
		ISIN:             q.ISIN,
		Ticker:           q.Ticker,
		Desc:             q.Desc,
		CouponPct:        q.CouponPct,
		MaturityDate:     q.MaturityDate,
		YearsToMaturity:  years,
		CleanPrice:       q.CleanPrice,
		DirtyPrice:       dirty,
		AccruedInterest:  accrued,
		YieldToMaturity:  ytm,
		QuotedYield:      q.QuotedYield,
		CurrentYield:     currentYield,
		MacaulayDuration: risk.MacaulayDuration,
		ModifiedDuration: risk.ModifiedDuration,
		Convexity:        risk.Convexity,
	}, nil
}

func writeSnapshots(snapshots []*Snapshot, output io.Writer) error {
	writer := parquet.NewGenericWriter[*Snapshot](output)
	defer writer.Close()

	if _, err := writer.Write(snapshots); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}

	return nil
}

func StoreToPath(ctx context.Context, collected *CollectedQuotes, basepath string) (string, error) {
	date := collected.AsOf

	path := fmt.Sprintf(
		"%s%c%04d%c%02d%c%02d",
		basepath,
		filepath.Separator,
		date.UTC().Year(),
		filepath.Separator,
		date.UTC().Month(),
		filepath.Separator,
		date.UTC().Day(),
	)

	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return "", err
	}

	outPath := fmt.Sprintf("%s%c%s.parquet", path, filepath.Separator, collected.Source)

	file, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := writeSnapshots(collected.Snapshots, file); err != nil {
		return "", err
	}

	return outPath, nil
}

type S3Path struct {
	Bucket string
	Prefix string
}

func ParseS3(path string) (*S3Path, error) {
	if !strings.HasPrefix(path, "s3://") {
		return nil, fmt.Errorf("path must start with s3://")
	}

	path = strings.TrimPrefix(path, "s3://")
	parts := strings.SplitN(path, "/", 2)

	bucket := parts[0]

	var prefix string

	if len(parts) > 1 {
		prefix = parts[1]
		prefix = strings.TrimSuffix(prefix, "/")
	} else {
		prefix = ""
	}

	return &S3Path{
		Bucket: bucket,
		Prefix: prefix,
	}, nil
}

func StoreToS3(ctx context.Context, collected *CollectedQuotes, s3Client *s3.Client, dst *S3Path) (string, error) {
	tmp, err := os.CreateTemp("", "bondcalc-*.parquet")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %v", err)
	}
	defer tmp.Close()
	defer os.Remove(tmp.Name())

	if err := writeSnapshots(collected.Snapshots, tmp); err != nil {
		return "", err
	}

	if _, err := tmp.Seek(0, 0); err != nil {
		return "", fmt.Errorf("failed to seek to start of file: %w", err)
	}

	date := collected.AsOf

	key := fmt.Sprintf(
		"%04d/%02d/%02d/%s.parquet",
		date.UTC().Year(),
		date.UTC().Month(),
		date.UTC().Day(),
		collected.Source,
	)

	if dst.Prefix != "" {
		key = fmt.Sprintf("%s/%s", dst.Prefix, key)
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(dst.Bucket),
		Key:    aws.String(key),
		Body:   tmp,
	}

	if _, err := s3Client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload file to s3://%s/%s: %w", dst.Bucket, key, err)
	}

	outPath := fmt.Sprintf("s3://%s/%s", dst.Bucket, key)

	return outPath, nil
}
