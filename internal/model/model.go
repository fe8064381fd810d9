// Package model invokes the pre-trained price regressor. The model predicts
// in the power-transformed target space; callers invert that themselves.
package model

import (
	"context"
	"errors"

	"carvalue/internal/models"
)

//go:generate mockgen -source=model.go -destination=mocks/mock_regressor.go -package=mocks

var (
	ErrFeatureMismatch = errors.New("feature mismatch")
	ErrUnknownCategory = errors.New("category not seen in training")
	ErrInvalidArtifact = errors.New("invalid model artifact")
	ErrBadResponse     = errors.New("bad scoring response")
)

// Regressor scores a single feature row.
type Regressor interface {
	Predict(ctx context.Context, row models.FeatureRow) (float64, error)
}
