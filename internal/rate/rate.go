package rate

import (
	"context"
	"fmt"
	"strings"

	"carvalue/internal/models"

	"go.uber.org/zap"
)

//go:generate mockgen -source=rate.go -destination=mocks/mock_fetcher.go -package=mocks

// Mode selects where the exchange rate comes from.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeManual Mode = "manual"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeAuto:
		return ModeAuto, nil
	case ModeManual:
		return ModeManual, nil
	}
	return "", fmt.Errorf("unknown rate mode %q (want %q or %q)", s, ModeAuto, ModeManual)
}

// Fetcher retrieves a live conversion factor.
type Fetcher interface {
	Fetch(ctx context.Context) (float64, error)
}

// Provider resolves the rate used for conversion. Fetch failures never
// reach the caller: they are logged and replaced by the default rate.
type Provider struct {
	fetcher Fetcher
	logger  *zap.Logger
}

func NewProvider(fetcher Fetcher, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Resolve returns the rate for mode. In manual mode the fetcher is not used.
func (p *Provider) Resolve(ctx context.Context, mode Mode, manual float64) models.ExchangeRate {
	if mode == ModeManual {
		return p.Manual(manual)
	}
	return p.Automatic(ctx)
}

func (p *Provider) Manual(value float64) models.ExchangeRate {
	return models.ExchangeRate{Value: value, Source: models.RateSourceManual}
}

func (p *Provider) Automatic(ctx context.Context) models.ExchangeRate {
	value, err := p.fetcher.Fetch(ctx)
	if err != nil {
		p.logger.Warn("automatic exchange rate unavailable, using default",
			zap.Error(err),
			zap.Float64("default_rate", models.DefaultExchangeRate),
		)
		return models.ExchangeRate{
			Value:   models.DefaultExchangeRate,
			Source:  models.RateSourceFallback,
			Warning: fmt.Sprintf("Failed to fetch the automatic rate. Using the default rate (%g).", models.DefaultExchangeRate),
		}
	}

	p.logger.Info("automatic exchange rate loaded", zap.Float64("rate", value))
	return models.ExchangeRate{Value: value, Source: models.RateSourceAuto}
}
