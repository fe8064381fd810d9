package displayer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"carvalue/internal/models"
	"carvalue/internal/rate"
	"carvalue/internal/report"
)

type fakeResolver struct {
	calls []rate.Mode
}

func (f *fakeResolver) Resolve(_ context.Context, mode rate.Mode, manual float64) models.ExchangeRate {
	f.calls = append(f.calls, mode)
	if mode == rate.ModeManual {
		return models.ExchangeRate{Value: manual, Source: models.RateSourceManual}
	}
	return models.ExchangeRate{
		Value:   models.DefaultExchangeRate,
		Source:  models.RateSourceFallback,
		Warning: "Failed to fetch the automatic rate.",
	}
}

type fakePredictor struct {
	err error
}

func (f *fakePredictor) Predict(_ context.Context, car models.CarAttributes, r models.ExchangeRate) (models.PredictionResult, error) {
	if f.err != nil {
		return models.PredictionResult{}, f.err
	}
	return models.PredictionResult{
		Input:          car,
		PriceOriginal:  500000,
		PriceConverted: 500000 * r.Value,
		Rate:           r,
	}, nil
}

var testNames = []string{"Maruti 800 AC", "Honda City 1.5 V MT"}

func newTestDisplayer(p Predictor, r RateResolver, mode rate.Mode) *Displayer {
	return New(p, r, report.New("INR", "IDR"), testNames, Defaults{
		Car: models.CarAttributes{
			Year:         2015,
			KmDriven:     50000,
			Fuel:         "Petrol",
			SellerType:   "Individual",
			Transmission: "Manual",
			Owner:        "First Owner",
			Name:         "Honda City 1.5 V MT",
		},
		RateMode:   mode,
		ManualRate: 190,
	})
}

func TestReadInputDefaults(t *testing.T) {
	d := newTestDisplayer(&fakePredictor{}, &fakeResolver{}, rate.ModeAuto)

	in, err := d.readInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.RateMode != rate.ModeAuto {
		t.Fatalf("expected auto mode, got %q", in.RateMode)
	}
	want := models.CarAttributes{
		Year:         2015,
		KmDriven:     50000,
		Fuel:         "Petrol",
		SellerType:   "Individual",
		Transmission: "Manual",
		Owner:        "First Owner",
		Name:         "Honda City 1.5 V MT",
	}
	if in.Car != want {
		t.Fatalf("expected %+v, got %+v", want, in.Car)
	}
}

func TestReadInputManualRate(t *testing.T) {
	d := newTestDisplayer(&fakePredictor{}, &fakeResolver{}, rate.ModeManual)
	d.rateField.SetText("85")

	in, err := d.readInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.RateMode != rate.ModeManual || in.ManualRate != 85 {
		t.Fatalf("expected manual 85, got %+v", in)
	}
}

func TestReadInputErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(d *Displayer)
	}{
		{"year out of range", func(d *Displayer) { d.yearField.SetText("1990") }},
		{"empty km", func(d *Displayer) { d.kmField.SetText("") }},
		{"km out of range", func(d *Displayer) { d.kmField.SetText("2000000") }},
		{"manual rate out of range", func(d *Displayer) {
			d.rateModeDrop.SetCurrentOption(1)
			d.rateField.SetText("2500")
		}},
		{"manual rate not a number", func(d *Displayer) {
			d.rateModeDrop.SetCurrentOption(1)
			d.rateField.SetText("-")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDisplayer(&fakePredictor{}, &fakeResolver{}, rate.ModeAuto)
			tt.setup(d)
			if _, err := d.readInput(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestPredictUsesSelectedMode(t *testing.T) {
	resolver := &fakeResolver{}
	d := newTestDisplayer(&fakePredictor{}, resolver, rate.ModeManual)

	in, err := d.readInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := d.predict(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resolver.calls) != 1 || resolver.calls[0] != rate.ModeManual {
		t.Fatalf("expected one manual resolve, got %v", resolver.calls)
	}
	if res.PriceConverted != 95000000 {
		t.Fatalf("expected 95000000, got %v", res.PriceConverted)
	}
}

func TestRender(t *testing.T) {
	d := newTestDisplayer(&fakePredictor{}, &fakeResolver{}, rate.ModeAuto)

	in, err := d.readInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := d.predict(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d.render(res)

	if got := d.summary.GetCell(6, 1).Text; got != "Honda City 1.5 V MT" {
		t.Fatalf("expected car name in summary, got %q", got)
	}
	text := d.resultText.GetText(true)
	for _, want := range []string{
		"Estimated price (INR): ₹ 500,000.00",
		"Estimated price (IDR): Rp 95,000,000",
		"1 INR = Rp 190.00",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in result, got:\n%s", want, text)
		}
	}
	if !strings.Contains(d.warningText.GetText(true), "Failed to fetch") {
		t.Fatalf("expected the rate warning to be shown")
	}
}

func TestRenderError(t *testing.T) {
	d := newTestDisplayer(&fakePredictor{err: errors.New("shape mismatch")}, &fakeResolver{}, rate.ModeAuto)

	in, err := d.readInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = d.predict(in)
	if err == nil {
		t.Fatalf("expected error")
	}
	d.renderError(err)

	if !strings.Contains(d.resultText.GetText(true), "shape mismatch") {
		t.Fatalf("expected the error in the result pane")
	}
}
