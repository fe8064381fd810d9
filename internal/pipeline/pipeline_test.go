package pipeline

import (
	"context"
	"errors"
	"math"
	"testing"

	"carvalue/internal/encoder"
	"carvalue/internal/model/mocks"
	"carvalue/internal/models"
	"carvalue/internal/rate"
	ratemocks "carvalue/internal/rate/mocks"
	"carvalue/internal/transform"
	"carvalue/internal/vocab"

	"go.uber.org/mock/gomock"
)

const knownName = "Maruti Swift Dzire VDI"

func testPower() *transform.PowerTransformer {
	return &transform.PowerTransformer{
		Method:       transform.MethodYeoJohnson,
		Standardize:  true,
		FeatureNames: []string{ColumnSellingPrice, ColumnKmDriven},
		Lambdas:      []float64{0.06, 0.41},
		Mean:         []float64{15.2, 101.7},
		Scale:        []float64{0.9, 31.4},
	}
}

// symmetricPower has identical parameters for both columns, so a km value
// pushed forward through column 1 comes back out of column 0.
func symmetricPower() *transform.PowerTransformer {
	return &transform.PowerTransformer{
		Method:       transform.MethodYeoJohnson,
		Standardize:  true,
		FeatureNames: []string{ColumnSellingPrice, ColumnKmDriven},
		Lambdas:      []float64{0.41, 0.41},
		Mean:         []float64{101.7, 101.7},
		Scale:        []float64{31.4, 31.4},
	}
}

func identityScaler() *transform.StandardScaler {
	return &transform.StandardScaler{
		FeatureNames: []string{models.ColumnKmDrivenYJ},
		Mean:         []float64{0},
		Scale:        []float64{1},
	}
}

func testScaler() *transform.StandardScaler {
	return &transform.StandardScaler{
		FeatureNames: []string{models.ColumnKmDrivenYJ},
		Mean:         []float64{0.02},
		Scale:        []float64{0.97},
	}
}

func testCar() models.CarAttributes {
	return models.CarAttributes{
		Year:         2015,
		KmDriven:     50000,
		Fuel:         "Petrol",
		SellerType:   "Individual",
		Transmission: "Manual",
		Owner:        "First Owner",
		Name:         knownName,
	}
}

func names() *vocab.Names {
	return vocab.NewNames([]string{knownName, "Hyundai Verna 1.6 SX"})
}

func TestNew_ShapeMismatch(t *testing.T) {
	t.Run("power columns swapped", func(t *testing.T) {
		p := testPower()
		p.FeatureNames = []string{ColumnKmDriven, ColumnSellingPrice}
		_, err := New(p, testScaler(), nil, names())
		if !errors.Is(err, transform.ErrShapeMismatch) {
			t.Fatalf("expected ErrShapeMismatch, got %v", err)
		}
	})

	t.Run("power has one column", func(t *testing.T) {
		p := testPower()
		p.FeatureNames = []string{ColumnKmDriven}
		_, err := New(p, testScaler(), nil, names())
		if !errors.Is(err, transform.ErrShapeMismatch) {
			t.Fatalf("expected ErrShapeMismatch, got %v", err)
		}
	})

	t.Run("scaler fitted on raw km", func(t *testing.T) {
		s := testScaler()
		s.FeatureNames = []string{ColumnKmDriven}
		_, err := New(testPower(), s, nil, names())
		if !errors.Is(err, transform.ErrShapeMismatch) {
			t.Fatalf("expected ErrShapeMismatch, got %v", err)
		}
	})
}

func TestRoundTripThroughIdentityModel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	reg := mocks.NewMockRegressor(ctrl)
	reg.EXPECT().Predict(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, row models.FeatureRow) (float64, error) {
			return row.KmDrivenScaled, nil
		},
	).AnyTimes()

	p, err := New(symmetricPower(), identityScaler(), reg, names())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, km := range []int{0, 1000, 50000, 120000, 999000, 1000000} {
		car := testCar()
		car.KmDriven = km

		row, err := p.Features(car)
		if err != nil {
			t.Fatalf("km %d: unexpected error: %v", km, err)
		}
		y, err := p.Invoke(context.Background(), row)
		if err != nil {
			t.Fatalf("km %d: unexpected error: %v", km, err)
		}
		got, err := p.InversePrice(y)
		if err != nil {
			t.Fatalf("km %d: unexpected error: %v", km, err)
		}
		if math.Abs(got-float64(km)) > 1e-6*math.Max(1, float64(km)) {
			t.Fatalf("km %d: round trip gave %v", km, got)
		}
	}
}

func TestConvert(t *testing.T) {
	if got := Convert(500000.0, 190.0); got != 95000000.0 {
		t.Fatalf("expected 95000000, got %v", got)
	}
	if got := Convert(1234.5, 0.5); got != 617.25 {
		t.Fatalf("expected 617.25, got %v", got)
	}
}

func TestPredict_EndToEndManualRate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	power, scaler := testPower(), testScaler()

	stage1, err := power.Transform(power.Columns(), []float64{0, 50000})
	if err != nil {
		t.Fatal(err)
	}
	scaled, err := scaler.Transform(scaler.Columns(), []float64{stage1[1]})
	if err != nil {
		t.Fatal(err)
	}
	wantKm := scaled[0]

	const modelOut = 0.37
	reg := mocks.NewMockRegressor(ctrl)
	reg.EXPECT().Predict(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, row models.FeatureRow) (float64, error) {
			cols := row.Columns()
			wantCols := []string{"fuel", "seller_type", "transmission", "owner", "km_driven_yj", "year", "name"}
			for i := range wantCols {
				if cols[i] != wantCols[i] {
					t.Fatalf("column %d: expected %q, got %q", i, wantCols[i], cols[i])
				}
			}
			vals := row.Values()
			want := []any{1, 0, 0, 1, wantKm, 2015, knownName}
			if len(vals) != len(want) {
				t.Fatalf("expected %d values, got %d", len(want), len(vals))
			}
			for i := range want {
				if vals[i] != want[i] {
					t.Fatalf("value %d: expected %v, got %v", i, want[i], vals[i])
				}
			}
			return modelOut, nil
		},
	)

	fetcher := ratemocks.NewMockFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any()).Times(0)
	r := rate.NewProvider(fetcher, nil).Resolve(context.Background(), rate.ModeManual, 190.0)

	p, err := New(power, scaler, reg, names())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := p.Predict(context.Background(), testCar(), r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inv, err := power.InverseTransform(power.Columns(), []float64{modelOut, 0})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.PriceOriginal-inv[0]) > 1e-9*inv[0] {
		t.Fatalf("expected INR price %v, got %v", inv[0], res.PriceOriginal)
	}
	if want := inv[0] * 190.0; math.Abs(res.PriceConverted-want) > 1e-6*want {
		t.Fatalf("expected converted price %v, got %v", want, res.PriceConverted)
	}
	if res.RateUsed() != 190.0 {
		t.Fatalf("expected rate 190, got %v", res.RateUsed())
	}
	if res.Input != testCar() {
		t.Fatalf("expected input echo, got %+v", res.Input)
	}
}

func TestPredict_Errors(t *testing.T) {
	t.Run("unknown name skips the model", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		reg := mocks.NewMockRegressor(ctrl)
		reg.EXPECT().Predict(gomock.Any(), gomock.Any()).Times(0)

		p, err := New(testPower(), testScaler(), reg, names())
		if err != nil {
			t.Fatal(err)
		}
		car := testCar()
		car.Name = "Tata Nano Cx"
		_, err = p.Predict(context.Background(), car, models.ExchangeRate{Value: 190})
		if !errors.Is(err, ErrUnknownCarName) {
			t.Fatalf("expected ErrUnknownCarName, got %v", err)
		}
	})

	t.Run("invalid category", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		reg := mocks.NewMockRegressor(ctrl)

		p, err := New(testPower(), testScaler(), reg, names())
		if err != nil {
			t.Fatal(err)
		}
		car := testCar()
		car.Fuel = "Hydrogen"
		_, err = p.Predict(context.Background(), car, models.ExchangeRate{Value: 190})
		if !errors.Is(err, encoder.ErrInvalidCategory) {
			t.Fatalf("expected ErrInvalidCategory, got %v", err)
		}
	})

	t.Run("model failure surfaces", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		modelErr := errors.New("model exploded")
		reg := mocks.NewMockRegressor(ctrl)
		reg.EXPECT().Predict(gomock.Any(), gomock.Any()).Return(0.0, modelErr).Times(1)

		p, err := New(testPower(), testScaler(), reg, names())
		if err != nil {
			t.Fatal(err)
		}
		_, err = p.Predict(context.Background(), testCar(), models.ExchangeRate{Value: 190})
		if !errors.Is(err, modelErr) {
			t.Fatalf("expected model error, got %v", err)
		}
	})
}
