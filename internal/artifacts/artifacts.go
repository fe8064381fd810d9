package artifacts

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"carvalue/internal/model"
	"carvalue/internal/pipeline"
	"carvalue/internal/transform"
	"carvalue/internal/vocab"
	"carvalue/pkg/log"

	"go.uber.org/zap"
)

const (
	DefaultPowerFile  = "power_transformer.json"
	DefaultScalerFile = "standard_scaler.json"
	DefaultModelFile  = "regression_model.json"
	DefaultNamesFile  = "X_train_names.csv"
)

// ErrMissingArtifact is returned when a required startup file does not exist.
var ErrMissingArtifact = errors.New("missing artifact")

// Options locates the startup files. Relative file names resolve against Dir.
type Options struct {
	Dir        string
	PowerFile  string
	ScalerFile string
	ModelFile  string
	NamesFile  string

	// When set, the model is scored remotely and ModelFile is not read.
	ModelEndpoint string
	ModelTimeout  time.Duration
}

// Bundle is the read-only state loaded once at startup.
type Bundle struct {
	Power     *transform.PowerTransformer
	Scaler    *transform.StandardScaler
	Regressor model.Regressor
	Names     *vocab.Names
}

func (o Options) path(name, def string) string {
	if name == "" {
		name = def
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(o.Dir, name)
}

// Load reads every artifact. Any failure is fatal for the caller; nothing is
// partially loaded.
func Load(o Options) (*Bundle, error) {
	var (
		b   Bundle
		err error
	)

	powerPath := o.path(o.PowerFile, DefaultPowerFile)
	if b.Power, err = transform.LoadPowerTransformer(powerPath); err != nil {
		return nil, wrap("power transformer", powerPath, err)
	}

	scalerPath := o.path(o.ScalerFile, DefaultScalerFile)
	if b.Scaler, err = transform.LoadStandardScaler(scalerPath); err != nil {
		return nil, wrap("standard scaler", scalerPath, err)
	}

	if o.ModelEndpoint != "" {
		b.Regressor = model.NewRemote(o.ModelEndpoint, o.ModelTimeout)
		log.Info("using remote regression model", zap.String("endpoint", o.ModelEndpoint))
	} else {
		modelPath := o.path(o.ModelFile, DefaultModelFile)
		m, err := model.LoadLinear(modelPath)
		if err != nil {
			return nil, wrap("regression model", modelPath, err)
		}
		b.Regressor = m
	}

	namesPath := o.path(o.NamesFile, DefaultNamesFile)
	if b.Names, err = vocab.LoadNames(namesPath); err != nil {
		return nil, wrap("car names", namesPath, err)
	}

	log.Info("artifacts loaded",
		zap.String("dir", o.Dir),
		zap.Int("car_names", b.Names.Len()),
	)
	return &b, nil
}

// Pipeline builds the prediction pipeline over the bundle, checking the
// transforms' fitted columns.
func (b *Bundle) Pipeline() (*pipeline.Pipeline, error) {
	return pipeline.New(b.Power, b.Scaler, b.Regressor, b.Names)
}

func wrap(what, path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s not found at %s", ErrMissingArtifact, what, path)
	}
	return fmt.Errorf("load %s: %w", what, err)
}
