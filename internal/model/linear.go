package model

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"carvalue/internal/models"
)

const KindLinear = "linear"

// Linear is a linear regressor over the numeric columns plus a per-name
// offset for the categorical name column.
type Linear struct {
	Kind         string             `json:"kind"`
	FeatureNames []string           `json:"feature_names"`
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
	NameEffects  map[string]float64 `json:"name_effects"`
}

var numericColumns = []string{
	models.ColumnFuel,
	models.ColumnSellerType,
	models.ColumnTransmission,
	models.ColumnOwner,
	models.ColumnKmDrivenYJ,
	models.ColumnYear,
}

// LoadLinear reads a linear model artifact from path.
func LoadLinear(path string) (*Linear, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Linear
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidArtifact, path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

// Validate checks the artifact was fitted on exactly the columns, in the
// order, that FeatureRow produces.
func (m *Linear) Validate() error {
	if m.Kind != KindLinear {
		return fmt.Errorf("%w: kind %q", ErrInvalidArtifact, m.Kind)
	}
	if len(m.FeatureNames) != len(models.FeatureColumns) {
		return fmt.Errorf("%w: model expects %d columns %v, pipeline builds %d",
			ErrFeatureMismatch, len(m.FeatureNames), m.FeatureNames, len(models.FeatureColumns))
	}
	for i, c := range models.FeatureColumns {
		if m.FeatureNames[i] != c {
			return fmt.Errorf("%w: column %d is %q in the model, %q in the pipeline",
				ErrFeatureMismatch, i, m.FeatureNames[i], c)
		}
	}
	for _, c := range numericColumns {
		if _, ok := m.Coefficients[c]; !ok {
			return fmt.Errorf("%w: no coefficient for %q", ErrInvalidArtifact, c)
		}
	}
	if len(m.NameEffects) == 0 {
		return fmt.Errorf("%w: no name effects", ErrInvalidArtifact)
	}
	return nil
}

func (m *Linear) Predict(_ context.Context, row models.FeatureRow) (float64, error) {
	effect, ok := m.NameEffects[row.Name]
	if !ok {
		return 0, fmt.Errorf("%w: name %q", ErrUnknownCategory, row.Name)
	}

	y := m.Intercept + effect
	y += m.Coefficients[models.ColumnFuel] * float64(row.Fuel)
	y += m.Coefficients[models.ColumnSellerType] * float64(row.SellerType)
	y += m.Coefficients[models.ColumnTransmission] * float64(row.Transmission)
	y += m.Coefficients[models.ColumnOwner] * float64(row.Owner)
	y += m.Coefficients[models.ColumnKmDrivenYJ] * row.KmDrivenScaled
	y += m.Coefficients[models.ColumnYear] * float64(row.Year)
	return y, nil
}
