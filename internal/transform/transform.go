// Package transform holds the pre-fitted numeric transforms the regression
// model was trained behind. Parameters are fitted elsewhere and loaded from
// JSON artifacts; this package only applies them.
package transform

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrShapeMismatch means the input columns differ from the columns the
	// transform was fitted on.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrInvalidArtifact means a persisted transform is internally inconsistent.
	ErrInvalidArtifact = errors.New("invalid transform artifact")
)

// checkColumns compares the caller's columns and row width against the
// fitted feature names. Order matters.
func checkColumns(fitted, columns []string, row []float64) error {
	if len(columns) != len(fitted) || len(row) != len(fitted) {
		return fmt.Errorf("%w: expected %d columns %v, got %d columns %v with %d values",
			ErrShapeMismatch, len(fitted), fitted, len(columns), columns, len(row))
	}
	for i := range fitted {
		if columns[i] != fitted[i] {
			return fmt.Errorf("%w: column %d is %q, expected %q", ErrShapeMismatch, i, columns[i], fitted[i])
		}
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrInvalidArtifact, path, err)
	}
	return nil
}
