// Package pipeline turns form input into a model row, scores it, and turns
// the score back into a price. The power transform was fitted jointly on
// [selling_price, km_driven], so both directions pad the unused column
// with 0.0.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"carvalue/internal/encoder"
	"carvalue/internal/model"
	"carvalue/internal/models"
	"carvalue/internal/transform"

	"github.com/shopspring/decimal"
)

const (
	ColumnSellingPrice = "selling_price"
	ColumnKmDriven     = "km_driven"
)

var (
	powerColumns  = []string{ColumnSellingPrice, ColumnKmDriven}
	scalerColumns = []string{models.ColumnKmDrivenYJ}
)

// ErrUnknownCarName is returned for a name outside the training vocabulary.
var ErrUnknownCarName = errors.New("unknown car name")

// PowerTransform is a fitted, invertible column transform.
type PowerTransform interface {
	Columns() []string
	Transform(columns []string, row []float64) ([]float64, error)
	InverseTransform(columns []string, row []float64) ([]float64, error)
}

// Scaler is a fitted column transform.
type Scaler interface {
	Columns() []string
	Transform(columns []string, row []float64) ([]float64, error)
}

// Vocabulary reports whether a car name was seen at training time.
type Vocabulary interface {
	Contains(name string) bool
}

// Pipeline is built once at startup and never mutated.
type Pipeline struct {
	power     PowerTransform
	scaler    Scaler
	regressor model.Regressor
	names     Vocabulary
}

// New checks that the artifacts were fitted on the column layout this
// pipeline feeds them and returns the pipeline.
func New(power PowerTransform, scaler Scaler, regressor model.Regressor, names Vocabulary) (*Pipeline, error) {
	if err := expectColumns("power transform", power.Columns(), powerColumns); err != nil {
		return nil, err
	}
	if err := expectColumns("scaler", scaler.Columns(), scalerColumns); err != nil {
		return nil, err
	}
	return &Pipeline{
		power:     power,
		scaler:    scaler,
		regressor: regressor,
		names:     names,
	}, nil
}

func expectColumns(what string, got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("%s: %w: fitted on %v, pipeline sends %v", what, transform.ErrShapeMismatch, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("%s: %w: fitted on %v, pipeline sends %v", what, transform.ErrShapeMismatch, got, want)
		}
	}
	return nil
}

// ScaleKm runs the distance through the power transform (with a zero
// selling price placeholder) and then the standard scaler.
func (p *Pipeline) ScaleKm(km int) (float64, error) {
	pt, err := p.power.Transform(powerColumns, []float64{0.0, float64(km)})
	if err != nil {
		return 0, fmt.Errorf("power transform: %w", err)
	}
	if len(pt) != len(powerColumns) {
		return 0, fmt.Errorf("power transform: %w: %d outputs", transform.ErrShapeMismatch, len(pt))
	}

	scaled, err := p.scaler.Transform(scalerColumns, []float64{pt[1]})
	if err != nil {
		return 0, fmt.Errorf("scaler: %w", err)
	}
	if len(scaled) != 1 {
		return 0, fmt.Errorf("scaler: %w: %d outputs", transform.ErrShapeMismatch, len(scaled))
	}
	return scaled[0], nil
}

// Features builds the model input row for car.
func (p *Pipeline) Features(car models.CarAttributes) (models.FeatureRow, error) {
	if !p.names.Contains(car.Name) {
		return models.FeatureRow{}, fmt.Errorf("%w: %q", ErrUnknownCarName, car.Name)
	}

	codes, err := encoder.Encode(car)
	if err != nil {
		return models.FeatureRow{}, err
	}

	km, err := p.ScaleKm(car.KmDriven)
	if err != nil {
		return models.FeatureRow{}, err
	}

	return models.FeatureRow{
		Fuel:           codes.Fuel,
		SellerType:     codes.SellerType,
		Transmission:   codes.Transmission,
		Owner:          codes.Owner,
		KmDrivenScaled: km,
		Year:           car.Year,
		Name:           car.Name,
	}, nil
}

// Invoke scores row. The result is in the transformed target space.
func (p *Pipeline) Invoke(ctx context.Context, row models.FeatureRow) (float64, error) {
	y, err := p.regressor.Predict(ctx, row)
	if err != nil {
		return 0, fmt.Errorf("predict: %w", err)
	}
	return y, nil
}

// InversePrice maps a target-space prediction back to a price, with a zero
// km_driven placeholder.
func (p *Pipeline) InversePrice(predicted float64) (float64, error) {
	out, err := p.power.InverseTransform(powerColumns, []float64{predicted, 0.0})
	if err != nil {
		return 0, fmt.Errorf("inverse power transform: %w", err)
	}
	if len(out) != len(powerColumns) {
		return 0, fmt.Errorf("inverse power transform: %w: %d outputs", transform.ErrShapeMismatch, len(out))
	}
	return out[0], nil
}

// Convert multiplies a price by an exchange rate.
func Convert(price, rate float64) float64 {
	f, _ := decimal.NewFromFloat(price).Mul(decimal.NewFromFloat(rate)).Float64()
	return f
}

// Predict runs the whole chain for one car. The rate is resolved by the
// caller and only used for the final conversion.
func (p *Pipeline) Predict(ctx context.Context, car models.CarAttributes, rate models.ExchangeRate) (models.PredictionResult, error) {
	row, err := p.Features(car)
	if err != nil {
		return models.PredictionResult{}, err
	}

	y, err := p.Invoke(ctx, row)
	if err != nil {
		return models.PredictionResult{}, err
	}

	price, err := p.InversePrice(y)
	if err != nil {
		return models.PredictionResult{}, err
	}

	return models.PredictionResult{
		Input:          car,
		Features:       row,
		PriceOriginal:  price,
		PriceConverted: Convert(price, rate.Value),
		Rate:           rate,
	}, nil
}
