package pricer

import (
	"context"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// defaultLookback covers weekends and exchange holidays so the last daily bar is always present.
const defaultLookback = 7 * 24 * time.Hour

// ClosesFunc returns daily closes of symbol between start and end, oldest first.
type ClosesFunc func(symbol string, start, end time.Time) ([]decimal.Decimal, error)

// YahooPricer reads the most recent daily close from Yahoo Finance charts. Symbols use Yahoo
// notation, e.g. SPXR11.SA for B3 listed funds.
type YahooPricer struct {
	closes   ClosesFunc
	lookback time.Duration
	now      func() time.Time
}

type YahooOption func(*YahooPricer)

// WithCloses replaces the chart download used to read closes.
func WithCloses(fn ClosesFunc) YahooOption {
	return func(p *YahooPricer) {
		p.closes = fn
	}
}

// WithLookback sets how far back the chart request reaches.
func WithLookback(d time.Duration) YahooOption {
	return func(p *YahooPricer) {
		p.lookback = d
	}
}

func NewYahooPricer(opts ...YahooOption) *YahooPricer {
	p := &YahooPricer{
		closes:   chartCloses,
		lookback: defaultLookback,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *YahooPricer) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}

	end := p.now()
	closes, err := p.closes(symbol, end.Add(-p.lookback), end)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "yahoo chart for %s", symbol)
	}
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i].IsPositive() {
			return closes[i], nil
		}
	}
	return decimal.Zero, errors.Wrapf(ErrUnknownSymbol, "yahoo returned no closes for %s", symbol)
}

func chartCloses(symbol string, start, end time.Time) ([]decimal.Decimal, error) {
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	var out []decimal.Decimal
	for iter.Next() {
		out = append(out, iter.Bar().Close)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
