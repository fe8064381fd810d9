package cmd

import (
	"fmt"
	"os"
	"time"

	"carvalue/internal/cmd/root"
	"carvalue/internal/config"
	"carvalue/pkg/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "carvalue",
	Short: "Estimate the sale price of a used car",
	Run:   root.Run,
}

func init() {
	cobra.OnInitialize(initConfig, initLogger)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default ./carvalue.yaml)")
	flags.Bool("debug", false, "Enable debug mode")
	flags.Bool("no-tui", false, "Predict once from flags and print the result")
	flags.String("log-file", "carvalue.log", "Log file used while the form is shown")

	flags.String("artifacts-dir", "artifacts", "Directory holding the model artifacts")
	flags.String("names-file", "X_train_names.csv", "CSV with the known car names")
	flags.String("model-endpoint", "", "Score with a remote model service instead of the local artifact")

	flags.String("rate-mode", "auto", "Exchange rate source: auto or manual")
	flags.Float64("rate", 190.0, "Manual exchange rate (1-2000)")
	flags.String("rate-url", "https://open.er-api.com/v6/latest", "Exchange rate service base URL")
	flags.Duration("rate-timeout", 10*time.Second, "Exchange rate request timeout")

	flags.Int("year", 2015, "Car year (1992-2020)")
	flags.Int("km", 50000, "Kilometers driven")
	flags.String("fuel", "Diesel", "Fuel type")
	flags.String("seller", "Individual", "Seller type")
	flags.String("transmission", "Manual", "Transmission")
	flags.String("owner", "First Owner", "Ownership history")
	flags.String("name", "", "Car name from the known names list")

	bind := map[string]string{
		"debug":            "debug",
		"no-tui":           "no-tui",
		"log-file":         "log-file",
		"artifacts.dir":    "artifacts-dir",
		"artifacts.names":  "names-file",
		"model.endpoint":   "model-endpoint",
		"rate.mode":        "rate-mode",
		"rate.manual":      "rate",
		"rate.url":         "rate-url",
		"rate.timeout":     "rate-timeout",
		"car.year":         "year",
		"car.km":           "km",
		"car.fuel":         "fuel",
		"car.seller":       "seller",
		"car.transmission": "transmission",
		"car.owner":        "owner",
		"car.name":         "name",
	}
	for key, flag := range bind {
		viper.BindPFlag(key, flags.Lookup(flag))
	}

	config.SetDefaults(viper.GetViper())
}

func initConfig() {
	if err := config.ReadInConfig(viper.GetViper(), cfgFile); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func initLogger() {
	file := ""
	if !viper.GetBool("no-tui") {
		file = viper.GetString("log-file")
	}
	log.InitLogger(viper.GetBool("debug"), file)
}

func Execute() {
	defer log.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
