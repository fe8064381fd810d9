package transform

import (
	"fmt"
	"math"
)

const MethodYeoJohnson = "yeo-johnson"

// Lambdas closer than this to 0 or 2 take the logarithmic branch.
const lambdaEps = 2.220446049250313e-16

// PowerTransformer applies a per-column Yeo-Johnson transform, optionally
// followed by standardisation with the statistics stored at fit time.
type PowerTransformer struct {
	Method       string    `json:"method"`
	Standardize  bool      `json:"standardize"`
	FeatureNames []string  `json:"feature_names"`
	Lambdas      []float64 `json:"lambdas"`
	Mean         []float64 `json:"mean,omitempty"`
	Scale        []float64 `json:"scale,omitempty"`
}

// LoadPowerTransformer reads a power transform artifact from path.
func LoadPowerTransformer(path string) (*PowerTransformer, error) {
	var p PowerTransformer
	if err := readJSON(path, &p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &p, nil
}

func (p *PowerTransformer) Validate() error {
	if p.Method != MethodYeoJohnson {
		return fmt.Errorf("%w: unsupported power transform method %q", ErrInvalidArtifact, p.Method)
	}
	n := len(p.FeatureNames)
	if n == 0 {
		return fmt.Errorf("%w: power transform has no features", ErrInvalidArtifact)
	}
	if len(p.Lambdas) != n {
		return fmt.Errorf("%w: power transform has %d features and %d lambdas", ErrInvalidArtifact, n, len(p.Lambdas))
	}
	if p.Standardize {
		if len(p.Mean) != n || len(p.Scale) != n {
			return fmt.Errorf("%w: power transform has %d features, %d means, %d scales",
				ErrInvalidArtifact, n, len(p.Mean), len(p.Scale))
		}
		for i, sc := range p.Scale {
			if !(sc > 0) || math.IsInf(sc, 0) {
				return fmt.Errorf("%w: power transform scale[%d] = %v", ErrInvalidArtifact, i, sc)
			}
		}
	}
	return nil
}

// Columns returns the fitted feature names.
func (p *PowerTransformer) Columns() []string {
	return p.FeatureNames
}

func (p *PowerTransformer) Transform(columns []string, row []float64) ([]float64, error) {
	if err := checkColumns(p.FeatureNames, columns, row); err != nil {
		return nil, err
	}
	out := make([]float64, len(row))
	for i, x := range row {
		y := yeoJohnson(x, p.Lambdas[i])
		if p.Standardize {
			y = (y - p.Mean[i]) / p.Scale[i]
		}
		out[i] = y
	}
	return out, nil
}

func (p *PowerTransformer) InverseTransform(columns []string, row []float64) ([]float64, error) {
	if err := checkColumns(p.FeatureNames, columns, row); err != nil {
		return nil, err
	}
	out := make([]float64, len(row))
	for i, y := range row {
		if p.Standardize {
			y = y*p.Scale[i] + p.Mean[i]
		}
		out[i] = yeoJohnsonInverse(y, p.Lambdas[i])
	}
	return out, nil
}

func yeoJohnson(x, lambda float64) float64 {
	if x >= 0 {
		if math.Abs(lambda) < lambdaEps {
			return math.Log1p(x)
		}
		return (math.Pow(x+1, lambda) - 1) / lambda
	}
	if math.Abs(lambda-2) > lambdaEps {
		return -(math.Pow(-x+1, 2-lambda) - 1) / (2 - lambda)
	}
	return -math.Log1p(-x)
}

func yeoJohnsonInverse(y, lambda float64) float64 {
	if y >= 0 {
		if math.Abs(lambda) < lambdaEps {
			return math.Expm1(y)
		}
		return math.Pow(y*lambda+1, 1/lambda) - 1
	}
	if math.Abs(lambda-2) > lambdaEps {
		return 1 - math.Pow(-(2-lambda)*y+1, 1/(2-lambda))
	}
	return -math.Expm1(-y)
}
