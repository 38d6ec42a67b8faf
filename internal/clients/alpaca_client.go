package clients

import (
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// NewAlpacaMarketDataClient creates an Alpaca market data client. An empty baseURL selects the
// SDK default endpoint.
func NewAlpacaMarketDataClient(apiKey, apiSecret, baseURL string) *marketdata.Client {
	return marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
		BaseURL:   baseURL,
	})
}
