package transform

import (
	"fmt"
	"math"
)

// StandardScaler centres and scales each column with training-time statistics.
type StandardScaler struct {
	FeatureNames []string  `json:"feature_names"`
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
}

// LoadStandardScaler reads a scaler artifact from path.
func LoadStandardScaler(path string) (*StandardScaler, error) {
	var s StandardScaler
	if err := readJSON(path, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &s, nil
}

func (s *StandardScaler) Validate() error {
	n := len(s.FeatureNames)
	if n == 0 {
		return fmt.Errorf("%w: scaler has no features", ErrInvalidArtifact)
	}
	if len(s.Mean) != n || len(s.Scale) != n {
		return fmt.Errorf("%w: scaler has %d features, %d means, %d scales",
			ErrInvalidArtifact, n, len(s.Mean), len(s.Scale))
	}
	for i, sc := range s.Scale {
		if !(sc > 0) || math.IsInf(sc, 0) {
			return fmt.Errorf("%w: scaler scale[%d] = %v", ErrInvalidArtifact, i, sc)
		}
	}
	return nil
}

// Columns returns the fitted feature names.
func (s *StandardScaler) Columns() []string {
	return s.FeatureNames
}

func (s *StandardScaler) Transform(columns []string, row []float64) ([]float64, error) {
	if err := checkColumns(s.FeatureNames, columns, row); err != nil {
		return nil, err
	}
	out := make([]float64, len(row))
	for i, x := range row {
		out[i] = (x - s.Mean[i]) / s.Scale[i]
	}
	return out, nil
}

func (s *StandardScaler) InverseTransform(columns []string, row []float64) ([]float64, error) {
	if err := checkColumns(s.FeatureNames, columns, row); err != nil {
		return nil, err
	}
	out := make([]float64, len(row))
	for i, x := range row {
		out[i] = x*s.Scale[i] + s.Mean[i]
	}
	return out, nil
}
