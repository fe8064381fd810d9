package root

import (
	"context"
	"fmt"
	"io"
	"os"

	"carvalue/internal/artifacts"
	"carvalue/internal/config"
	"carvalue/internal/displayer"
	"carvalue/internal/pipeline"
	"carvalue/internal/rate"
	"carvalue/internal/report"
	"carvalue/pkg/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func Run(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		fatal("invalid configuration", err)
	}

	// Everything the form needs is loaded before any input is accepted.
	bundle, err := artifacts.Load(cfg.ArtifactOptions())
	if err != nil {
		fatal("failed to load model artifacts", err)
	}
	p, err := bundle.Pipeline()
	if err != nil {
		fatal("model artifacts do not match the feature pipeline", err)
	}

	fetcher := rate.NewHTTPFetcher(cfg.Rate.BaseURL, cfg.Rate.From, cfg.Rate.To, cfg.Rate.Timeout)
	provider := rate.NewProvider(fetcher, log.L())
	formatter := report.New(cfg.Rate.From, cfg.Rate.To)

	if cfg.NoTUI {
		if err := printSummary(cmd.Context(), os.Stdout, cfg, p, provider, formatter); err != nil {
			fatal("prediction failed", err)
		}
		return
	}

	d := displayer.New(p, provider, formatter, bundle.Names.List(), displayer.Defaults{
		Car:        cfg.Car,
		RateMode:   cfg.RateMode(),
		ManualRate: cfg.Rate.Manual,
	})
	if err := d.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func printSummary(ctx context.Context, w io.Writer, cfg *config.Config, p *pipeline.Pipeline, provider *rate.Provider, formatter *report.Formatter) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := config.ValidateCar(cfg.Car); err != nil {
		return err
	}

	r := provider.Resolve(ctx, cfg.RateMode(), cfg.Rate.Manual)
	res, err := p.Predict(ctx, cfg.Car, r)
	if err != nil {
		return err
	}

	log.Debug("prediction",
		zap.Any("features", res.Features.Values()),
		zap.Float64("price_original", res.PriceOriginal),
		zap.Float64("rate", res.RateUsed()),
	)
	return formatter.Write(w, res)
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	log.Fatal(msg, zap.Error(err))
}
