package config

import (
	_ "embed"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/aporte/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultPortfolio []byte

// Run modes.
const (
	ModeWizard = "wizard"
	ModeOnce   = "once"
	ModeServe  = "serve"
)

// Quote sources.
const (
	SourceYahoo       = "yahoo"
	SourceBinance     = "binance"
	SourceBybit       = "bybit"
	SourceHyperliquid = "hyperliquid"
	SourceAlpaca      = "alpaca"
	SourceFixed       = "fixed"
)

const (
	defaultAddr         = ":8080"
	defaultJournalDir   = "journal"
	defaultCertCache    = "certs"
	defaultHoldingsPath = "holdings.gen.yaml"
)

type Config struct {
	Mode         string
	HoldingsPath string
	// Contribution is zero when not passed on the command line.
	Contribution decimal.Decimal

	Assets        []AssetConfig
	CashThreshold decimal.Decimal
	// FallbackPrice is used for discrete assets without a quote. Nil disables the fallback.
	FallbackPrice *decimal.Decimal
	Quotes        QuotesConfig

	Addr       string
	TLSDomains []string
	CertCache  string
	JournalDir string

	AlpacaBaseURL      string
	HyperliquidBaseURL string
	Credentials        Credentials
}

type AssetConfig struct {
	ID           string
	Name         string
	TargetWeight decimal.Decimal
	Kind         domain.AssetKind
	Source       string
	Symbol       string
	// Price is the constant quote of a fixed source asset.
	Price decimal.Decimal
}

type QuotesConfig struct {
	Timeout         time.Duration
	Retries         int
	InitialInterval time.Duration
	CacheTTL        time.Duration
	Concurrency     int
}

// Credentials are read from the environment only.
type Credentials struct {
	BinanceAPIKey         string
	BinanceAPISecret      string
	BybitAPIKey           string
	BybitAPISecret        string
	HyperliquidPrivateKey string
	AlpacaAPIKey          string
	AlpacaAPISecret       string
}

type ConfigTmp struct {
	Assets        []AssetTmp `yaml:"assets"`
	CashThreshold string     `yaml:"cash_threshold,omitempty"`
	// FallbackPrice left out means the default of 1, an empty string disables the fallback.
	FallbackPrice *string   `yaml:"fallback_price,omitempty"`
	Quotes        QuotesTmp `yaml:"quotes,omitempty"`
	Web           WebTmp    `yaml:"web,omitempty"`
	JournalDir    string    `yaml:"journal_dir,omitempty"`
	Alpaca        VenueTmp  `yaml:"alpaca,omitempty"`
	Hyperliquid   VenueTmp  `yaml:"hyperliquid,omitempty"`
}

type AssetTmp struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name,omitempty"`
	Target string `yaml:"target"`
	Kind   string `yaml:"kind,omitempty"`
	Source string `yaml:"source,omitempty"`
	Symbol string `yaml:"symbol,omitempty"`
	Price  string `yaml:"price,omitempty"`
}

type QuotesTmp struct {
	Timeout         time.Duration `yaml:"timeout,omitempty"`
	Retries         *int          `yaml:"retries,omitempty"`
	InitialInterval time.Duration `yaml:"initial_interval,omitempty"`
	CacheTTL        time.Duration `yaml:"cache_ttl,omitempty"`
	Concurrency     int           `yaml:"concurrency,omitempty"`
}

type WebTmp struct {
	Addr       string   `yaml:"addr,omitempty"`
	TLSDomains []string `yaml:"tls_domains,omitempty"`
	CertCache  string   `yaml:"cert_cache,omitempty"`
}

type VenueTmp struct {
	BaseURL string `yaml:"base_url,omitempty"`
}

// Get parses command line args (without the program name) and loads the portfolio file. Without
// --config the built-in portfolio is used.
func Get(args []string) (*Config, error) {
	fs := flag.NewFlagSet("aporte", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to yaml portfolio config")
	mode := fs.String("mode", ModeWizard, "run mode: wizard, once or serve")
	holdingsPath := fs.String("holdings", defaultHoldingsPath, "path to holdings file (yaml or csv)")
	contribution := fs.String("contribution", "", "amount to invest, example: 1500.50")
	addr := fs.String("addr", "", "web API listen address (serve mode)")
	journal := fs.String("journal", "", "allocation journal directory")
	tlsDomains := fs.String("tls-domains", "", "comma separated domains for automatic TLS certificates")
	certCache := fs.String("cert-cache", "", "directory for TLS certificate cache")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	data := defaultPortfolio
	if *configPath != "" {
		f, err := os.ReadFile(*configPath)
		if err != nil {
			return nil, errors.Wrap(err, "read config")
		}
		data = f
	}

	cfg, err := parse(data)
	if err != nil {
		return nil, err
	}

	switch *mode {
	case ModeWizard, ModeOnce, ModeServe:
		cfg.Mode = *mode
	default:
		return nil, fmt.Errorf("invalid --mode provided, --mode=%s", *mode)
	}
	cfg.HoldingsPath = *holdingsPath

	if *contribution != "" {
		c, err := decimal.NewFromString(*contribution)
		if err != nil {
			return nil, fmt.Errorf("invalid --contribution provided, --contribution=%s", *contribution)
		}
		cfg.Contribution = c
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *journal != "" {
		cfg.JournalDir = *journal
	}
	if *tlsDomains != "" {
		cfg.TLSDomains = splitList(*tlsDomains)
	}
	if *certCache != "" {
		cfg.CertCache = *certCache
	}
	cfg.Credentials = credentialsFromEnv()

	return cfg, nil
}

func credentialsFromEnv() Credentials {
	return Credentials{
		BinanceAPIKey:         os.Getenv("BINANCE_API_KEY"),
		BinanceAPISecret:      os.Getenv("BINANCE_API_SECRET"),
		BybitAPIKey:           os.Getenv("BYBIT_API_KEY"),
		BybitAPISecret:        os.Getenv("BYBIT_API_SECRET"),
		HyperliquidPrivateKey: os.Getenv("HYPERLIQUID_PRIVATE_KEY"),
		AlpacaAPIKey:          os.Getenv("ALPACA_API_KEY"),
		AlpacaAPISecret:       os.Getenv("ALPACA_API_SECRET"),
	}
}

func parse(data []byte) (*Config, error) {
	var tmp ConfigTmp
	if err := yaml.Unmarshal(data, &tmp); err != nil {
		return nil, errors.Wrap(err, "parse yaml config")
	}
	if len(tmp.Assets) == 0 {
		return nil, errors.New("yaml config must list at least one asset in 'assets'")
	}

	cfg := &Config{
		Addr:               orDefault(tmp.Web.Addr, defaultAddr),
		TLSDomains:         tmp.Web.TLSDomains,
		CertCache:          orDefault(tmp.Web.CertCache, defaultCertCache),
		JournalDir:         orDefault(tmp.JournalDir, defaultJournalDir),
		AlpacaBaseURL:      tmp.Alpaca.BaseURL,
		HyperliquidBaseURL: tmp.Hyperliquid.BaseURL,
		Quotes:             quotesFromTmp(tmp.Quotes),
	}

	for i, a := range tmp.Assets {
		asset, err := assetFromTmp(a)
		if err != nil {
			return nil, errors.Wrapf(err, "asset #%d (%s)", i+1, a.ID)
		}
		cfg.Assets = append(cfg.Assets, asset)
	}

	cfg.CashThreshold = decimal.RequireFromString("0.01")
	if tmp.CashThreshold != "" {
		threshold, err := decimal.NewFromString(tmp.CashThreshold)
		if err != nil || threshold.IsNegative() {
			return nil, fmt.Errorf("incorrect 'cash_threshold' param in yaml config (must be a non-negative decimal): %s", tmp.CashThreshold)
		}
		cfg.CashThreshold = threshold
	}

	switch {
	case tmp.FallbackPrice == nil:
		one := decimal.NewFromInt(1)
		cfg.FallbackPrice = &one
	case strings.TrimSpace(*tmp.FallbackPrice) == "":
		cfg.FallbackPrice = nil
	default:
		price, err := decimal.NewFromString(*tmp.FallbackPrice)
		if err != nil || !price.IsPositive() {
			return nil, fmt.Errorf("incorrect 'fallback_price' param in yaml config (must be a positive decimal or empty): %s", *tmp.FallbackPrice)
		}
		cfg.FallbackPrice = &price
	}

	return cfg, nil
}

func assetFromTmp(a AssetTmp) (AssetConfig, error) {
	kind, err := domain.ParseAssetKind(a.Kind)
	if err != nil {
		return AssetConfig{}, err
	}
	target, err := decimal.NewFromString(a.Target)
	if err != nil {
		return AssetConfig{}, fmt.Errorf("incorrect 'target' param in yaml config (correct format is 0.25), error: %w", err)
	}

	asset := AssetConfig{
		ID:           strings.TrimSpace(a.ID),
		Name:         orDefault(a.Name, a.ID),
		TargetWeight: target,
		Kind:         kind,
		Source:       a.Source,
		Symbol:       orDefault(a.Symbol, a.ID),
	}
	if asset.Kind == domain.AssetKindCash {
		// cash is always worth its face value
		asset.Source = ""
		return asset, nil
	}

	if asset.Source == "" {
		asset.Source = SourceYahoo
	}
	switch asset.Source {
	case SourceYahoo, SourceBinance, SourceBybit, SourceHyperliquid, SourceAlpaca:
	case SourceFixed:
		price, err := decimal.NewFromString(a.Price)
		if err != nil || !price.IsPositive() {
			return AssetConfig{}, fmt.Errorf("incorrect 'price' param in yaml config (fixed source needs a positive decimal): %q", a.Price)
		}
		asset.Price = price
	default:
		return AssetConfig{}, fmt.Errorf("unknown 'source' %q in yaml config", asset.Source)
	}

	return asset, nil
}

func quotesFromTmp(q QuotesTmp) QuotesConfig {
	out := QuotesConfig{
		Timeout:         20 * time.Second,
		Retries:         2,
		InitialInterval: 500 * time.Millisecond,
		CacheTTL:        time.Minute,
		Concurrency:     4,
	}
	if q.Timeout > 0 {
		out.Timeout = q.Timeout
	}
	if q.Retries != nil && *q.Retries >= 0 {
		out.Retries = *q.Retries
	}
	if q.InitialInterval > 0 {
		out.InitialInterval = q.InitialInterval
	}
	if q.CacheTTL != 0 {
		out.CacheTTL = q.CacheTTL
	}
	if q.Concurrency > 0 {
		out.Concurrency = q.Concurrency
	}
	return out
}

// Portfolio builds the validated domain portfolio from the configured assets.
func (c *Config) Portfolio() (*domain.Portfolio, error) {
	assets := make([]domain.Asset, 0, len(c.Assets))
	for _, a := range c.Assets {
		assets = append(assets, domain.Asset{
			ID:           a.ID,
			Name:         a.Name,
			TargetWeight: a.TargetWeight,
			Kind:         a.Kind,
		})
	}
	return domain.NewPortfolio(assets)
}

// WeightSum returns the sum of target weights. Anything other than 1 is allowed but worth a
// warning.
func (c *Config) WeightSum() decimal.Decimal {
	sum := decimal.Zero
	for _, a := range c.Assets {
		sum = sum.Add(a.TargetWeight)
	}
	return sum
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
