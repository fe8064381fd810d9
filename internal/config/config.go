package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"carvalue/internal/artifacts"
	"carvalue/internal/models"
	"carvalue/internal/rate"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "CARVALUE"

type Config struct {
	Debug     bool
	NoTUI     bool
	LogFile   string
	Artifacts ArtifactsConfig
	Model     ModelConfig
	Rate      RateConfig
	// Car is only required in no-TUI mode; see ValidateCar.
	Car models.CarAttributes `validate:"-"`
}

type ArtifactsConfig struct {
	Dir        string `validate:"required"`
	PowerFile  string `validate:"required"`
	ScalerFile string `validate:"required"`
	ModelFile  string `validate:"required"`
	NamesFile  string `validate:"required"`
}

type ModelConfig struct {
	Endpoint string        `validate:"omitempty,url"`
	Timeout  time.Duration `validate:"gt=0"`
}

type RateConfig struct {
	Mode    string        `validate:"oneof=auto manual"`
	Manual  float64       `validate:"gte=1,lte=2000"`
	BaseURL string        `validate:"required,url"`
	From    string        `validate:"len=3,alpha"`
	To      string        `validate:"len=3,alpha"`
	Timeout time.Duration `validate:"gt=0"`
}

var validate = validator.New()

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("no-tui", false)
	v.SetDefault("log-file", "carvalue.log")

	v.SetDefault("artifacts.dir", "artifacts")
	v.SetDefault("artifacts.power", artifacts.DefaultPowerFile)
	v.SetDefault("artifacts.scaler", artifacts.DefaultScalerFile)
	v.SetDefault("artifacts.model", artifacts.DefaultModelFile)
	v.SetDefault("artifacts.names", artifacts.DefaultNamesFile)

	v.SetDefault("model.endpoint", "")
	v.SetDefault("model.timeout", 30*time.Second)

	v.SetDefault("rate.mode", string(rate.ModeAuto))
	v.SetDefault("rate.manual", models.DefaultExchangeRate)
	v.SetDefault("rate.url", rate.DefaultBaseURL)
	v.SetDefault("rate.from", "INR")
	v.SetDefault("rate.to", "IDR")
	v.SetDefault("rate.timeout", rate.DefaultTimeout)

	v.SetDefault("car.year", 2015)
	v.SetDefault("car.km", 50000)
	v.SetDefault("car.fuel", "Diesel")
	v.SetDefault("car.seller", "Individual")
	v.SetDefault("car.transmission", "Manual")
	v.SetDefault("car.owner", "First Owner")
	v.SetDefault("car.name", "")
}

// ReadInConfig loads .env into the environment, enables CARVALUE_* env
// overrides, and reads the config file if there is one.
func ReadInConfig(v *viper.Viper, file string) error {
	_ = godotenv.Load()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("carvalue")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load builds and validates a Config from v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Debug:   v.GetBool("debug"),
		NoTUI:   v.GetBool("no-tui"),
		LogFile: v.GetString("log-file"),
		Artifacts: ArtifactsConfig{
			Dir:        v.GetString("artifacts.dir"),
			PowerFile:  v.GetString("artifacts.power"),
			ScalerFile: v.GetString("artifacts.scaler"),
			ModelFile:  v.GetString("artifacts.model"),
			NamesFile:  v.GetString("artifacts.names"),
		},
		Model: ModelConfig{
			Endpoint: v.GetString("model.endpoint"),
			Timeout:  v.GetDuration("model.timeout"),
		},
		Rate: RateConfig{
			Mode:    strings.ToLower(v.GetString("rate.mode")),
			Manual:  v.GetFloat64("rate.manual"),
			BaseURL: v.GetString("rate.url"),
			From:    strings.ToUpper(v.GetString("rate.from")),
			To:      strings.ToUpper(v.GetString("rate.to")),
			Timeout: v.GetDuration("rate.timeout"),
		},
		Car: models.CarAttributes{
			Year:         v.GetInt("car.year"),
			KmDriven:     v.GetInt("car.km"),
			Fuel:         v.GetString("car.fuel"),
			SellerType:   v.GetString("car.seller"),
			Transmission: v.GetString("car.transmission"),
			Owner:        v.GetString("car.owner"),
			Name:         v.GetString("car.name"),
		},
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ValidateCar checks the ranges the form widgets enforce.
func ValidateCar(car models.CarAttributes) error {
	if err := validate.Struct(car); err != nil {
		return fmt.Errorf("invalid car: %w", err)
	}
	return nil
}

// ValidateManualRate checks a manual rate against the allowed range.
func ValidateManualRate(v float64) error {
	if v < models.MinManualRate || v > models.MaxManualRate {
		return fmt.Errorf("manual rate %v outside [%g, %g]", v, models.MinManualRate, models.MaxManualRate)
	}
	return nil
}

func (c *Config) RateMode() rate.Mode {
	return rate.Mode(c.Rate.Mode)
}

func (c *Config) ArtifactOptions() artifacts.Options {
	return artifacts.Options{
		Dir:           c.Artifacts.Dir,
		PowerFile:     c.Artifacts.PowerFile,
		ScalerFile:    c.Artifacts.ScalerFile,
		ModelFile:     c.Artifacts.ModelFile,
		NamesFile:     c.Artifacts.NamesFile,
		ModelEndpoint: c.Model.Endpoint,
		ModelTimeout:  c.Model.Timeout,
	}
}
