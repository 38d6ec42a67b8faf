package main

import (
	"context"
	"os"

	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/aporte/internal/app"
	"github.com/vadiminshakov/aporte/internal/domain"
	"github.com/vadiminshakov/aporte/internal/setup"
)

var decimalOne = decimal.NewFromInt(1)

func runOnce(ctx context.Context, rb *app.Rebalancer, h domain.Holdings, contribution decimal.Decimal) error {
	report, err := rb.Rebalance(ctx, h, contribution)
	if err != nil {
		return err
	}
	setup.RenderReport(os.Stdout, report)
	return nil
}
