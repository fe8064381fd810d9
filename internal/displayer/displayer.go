package displayer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"carvalue/internal/config"
	"carvalue/internal/encoder"
	"carvalue/internal/models"
	"carvalue/internal/rate"
	"carvalue/internal/report"
	"carvalue/pkg/log"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

const (
	labelRateAuto   = "Automatic (API)"
	labelRateManual = "Manual"
)

// Predictor runs the prediction chain for one car.
type Predictor interface {
	Predict(ctx context.Context, car models.CarAttributes, r models.ExchangeRate) (models.PredictionResult, error)
}

// RateResolver picks the exchange rate for a prediction.
type RateResolver interface {
	Resolve(ctx context.Context, mode rate.Mode, manual float64) models.ExchangeRate
}

// Defaults pre-fills the form.
type Defaults struct {
	Car        models.CarAttributes
	RateMode   rate.Mode
	ManualRate float64
}

// Input is one submission of the form.
type Input struct {
	Car        models.CarAttributes
	RateMode   rate.Mode
	ManualRate float64
}

// Displayer is the prediction form and result pane.
type Displayer struct {
	app       *tview.Application
	predictor Predictor
	rates     RateResolver
	formatter *report.Formatter
	names     []string
	ctx       context.Context
	cancel    context.CancelFunc

	mu   sync.Mutex
	busy bool

	form         *tview.Form
	yearField    *tview.InputField
	kmField      *tview.InputField
	fuelDrop     *tview.DropDown
	sellerDrop   *tview.DropDown
	transDrop    *tview.DropDown
	ownerDrop    *tview.DropDown
	nameDrop     *tview.DropDown
	rateModeDrop *tview.DropDown
	rateField    *tview.InputField

	statusText  *tview.TextView
	summary     *tview.Table
	resultText  *tview.TextView
	warningText *tview.TextView
}

func New(predictor Predictor, rates RateResolver, formatter *report.Formatter, names []string, defaults Defaults) *Displayer {
	ctx, cancel := context.WithCancel(context.Background())
	d := &Displayer{
		app:       tview.NewApplication(),
		predictor: predictor,
		rates:     rates,
		formatter: formatter,
		names:     names,
		ctx:       ctx,
		cancel:    cancel,
	}
	d.buildForm(defaults)
	d.buildResult()
	return d
}

func (d *Displayer) Run() error {
	title := tview.NewTextView().SetTextAlign(tview.AlignCenter).SetText("carvalue - used car price estimator")
	help := tview.NewTextView().SetTextAlign(tview.AlignCenter).SetText("[Tab - Next field] [Ctrl-P - Predict] [Ctrl-Q - Quit]")

	header := tview.NewFlex().SetDirection(tview.FlexRow)
	header.AddItem(title, 1, 0, false)
	header.AddItem(d.statusText, 1, 0, false)
	header.AddItem(help, 1, 0, false)

	results := tview.NewFlex().SetDirection(tview.FlexRow)
	results.AddItem(d.summary, 15, 0, false)
	results.AddItem(d.warningText, 1, 0, false)
	results.AddItem(d.resultText, 0, 1, false)

	body := tview.NewFlex()
	body.AddItem(d.form, 60, 0, true)
	body.AddItem(results, 0, 1, false)

	layout := tview.NewFlex().SetDirection(tview.FlexRow)
	layout.AddItem(header, 3, 0, false)
	layout.AddItem(body, 0, 1, true)

	d.app.SetRoot(layout, true).SetFocus(d.form)
	d.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlQ:
			d.Shutdown()
			return nil
		case tcell.KeyCtrlP:
			d.submit()
			return nil
		}
		return event
	})

	return d.app.Run()
}

func (d *Displayer) Shutdown() {
	d.cancel()
	d.app.Stop()
}

func (d *Displayer) buildForm(def Defaults) {
	d.yearField = tview.NewInputField().
		SetLabel("Year (1992-2020)").
		SetText(strconv.Itoa(def.Car.Year)).
		SetFieldWidth(6).
		SetAcceptanceFunc(tview.InputFieldInteger)
	d.kmField = tview.NewInputField().
		SetLabel("Km Driven").
		SetText(strconv.Itoa(def.Car.KmDriven)).
		SetFieldWidth(10).
		SetAcceptanceFunc(tview.InputFieldInteger)

	d.fuelDrop = newDropDown("Fuel Type", encoder.FuelLabels(), def.Car.Fuel)
	d.sellerDrop = newDropDown("Seller Type", encoder.SellerTypeLabels(), def.Car.SellerType)
	d.transDrop = newDropDown("Transmission", encoder.TransmissionLabels(), def.Car.Transmission)
	d.ownerDrop = newDropDown("Previous Owners", encoder.OwnerLabels(), def.Car.Owner)
	d.nameDrop = newDropDown("Car Name", d.names, def.Car.Name)

	manual := def.ManualRate
	if manual == 0 {
		manual = models.DefaultExchangeRate
	}
	d.rateField = tview.NewInputField().
		SetLabel("Manual Rate").
		SetText(strconv.FormatFloat(manual, 'f', -1, 64)).
		SetFieldWidth(10).
		SetAcceptanceFunc(tview.InputFieldFloat)

	modeLabel := labelRateAuto
	if def.RateMode == rate.ModeManual {
		modeLabel = labelRateManual
	}
	d.rateModeDrop = newDropDown("Rate Source", []string{labelRateAuto, labelRateManual}, modeLabel)
	d.rateModeDrop.SetSelectedFunc(func(text string, _ int) {
		d.rateField.SetDisabled(text != labelRateManual)
	})
	d.rateField.SetDisabled(modeLabel != labelRateManual)

	d.form = tview.NewForm().
		AddFormItem(d.yearField).
		AddFormItem(d.kmField).
		AddFormItem(d.fuelDrop).
		AddFormItem(d.sellerDrop).
		AddFormItem(d.transDrop).
		AddFormItem(d.ownerDrop).
		AddFormItem(d.nameDrop).
		AddFormItem(d.rateModeDrop).
		AddFormItem(d.rateField).
		AddButton("Predict", d.submit).
		AddButton("Quit", d.Shutdown)
	d.form.SetBorder(true).SetTitle(" Car Details ")
}

func newDropDown(label string, options []string, current string) *tview.DropDown {
	dd := tview.NewDropDown().SetLabel(label).SetOptions(options, nil)
	idx := 0
	for i, o := range options {
		if o == current {
			idx = i
			break
		}
	}
	if len(options) > 0 {
		dd.SetCurrentOption(idx)
	}
	return dd
}

func (d *Displayer) buildResult() {
	d.statusText = tview.NewTextView().SetTextAlign(tview.AlignCenter).SetDynamicColors(true)
	d.statusText.SetText("[green]ready[white]")

	d.summary = tview.NewTable().SetBorders(true)
	d.summary.SetTitle(" Your Input ")

	d.warningText = tview.NewTextView().SetDynamicColors(true)

	d.resultText = tview.NewTextView().SetDynamicColors(true).SetWordWrap(true)
	d.resultText.SetBorder(true).SetTitle(" Price Estimate ")
}

func optionText(dd *tview.DropDown) string {
	_, text := dd.GetCurrentOption()
	return text
}

// readInput collects and checks the form values.
func (d *Displayer) readInput() (Input, error) {
	year, err := strconv.Atoi(strings.TrimSpace(d.yearField.GetText()))
	if err != nil {
		return Input{}, fmt.Errorf("year must be a whole number")
	}
	km, err := strconv.Atoi(strings.TrimSpace(d.kmField.GetText()))
	if err != nil {
		return Input{}, fmt.Errorf("km driven must be a whole number")
	}

	in := Input{
		Car: models.CarAttributes{
			Year:         year,
			KmDriven:     km,
			Fuel:         optionText(d.fuelDrop),
			SellerType:   optionText(d.sellerDrop),
			Transmission: optionText(d.transDrop),
			Owner:        optionText(d.ownerDrop),
			Name:         optionText(d.nameDrop),
		},
		RateMode: rate.ModeAuto,
	}
	if err := config.ValidateCar(in.Car); err != nil {
		return Input{}, err
	}

	if optionText(d.rateModeDrop) == labelRateManual {
		v, err := strconv.ParseFloat(strings.TrimSpace(d.rateField.GetText()), 64)
		if err != nil {
			return Input{}, fmt.Errorf("manual rate must be a number")
		}
		if err := config.ValidateManualRate(v); err != nil {
			return Input{}, err
		}
		in.RateMode = rate.ModeManual
		in.ManualRate = v
	}
	return in, nil
}

// predict resolves the rate and runs the prediction.
func (d *Displayer) predict(in Input) (models.PredictionResult, error) {
	r := d.rates.Resolve(d.ctx, in.RateMode, in.ManualRate)
	return d.predictor.Predict(d.ctx, in.Car, r)
}

func (d *Displayer) submit() {
	d.mu.Lock()
	if d.busy {
		d.mu.Unlock()
		return
	}
	in, err := d.readInput()
	if err != nil {
		d.mu.Unlock()
		d.statusText.SetText(fmt.Sprintf("[red]%s[white]", tview.Escape(err.Error())))
		return
	}
	d.busy = true
	d.mu.Unlock()

	d.statusText.SetText("[yellow]predicting...[white]")
	go func() {
		res, err := d.predict(in)
		d.app.QueueUpdateDraw(func() {
			if err != nil {
				d.renderError(err)
			} else {
				d.render(res)
			}
			d.mu.Lock()
			d.busy = false
			d.mu.Unlock()
		})
	}()
}

func (d *Displayer) render(res models.PredictionResult) {
	d.summary.Clear()
	for i, row := range d.formatter.SummaryRows(res.Input) {
		d.summary.SetCell(i, 0, tview.NewTableCell(row[0]).SetSelectable(false))
		d.summary.SetCell(i, 1, tview.NewTableCell(tview.Escape(row[1])))
	}

	if res.Rate.Warning != "" {
		d.warningText.SetText(fmt.Sprintf("[yellow]%s[white]", tview.Escape(res.Rate.Warning)))
	} else {
		d.warningText.SetText(fmt.Sprintf("[green]rate source: %s[white]", res.Rate.Source))
	}

	var b strings.Builder
	for _, line := range d.formatter.PriceLines(res) {
		fmt.Fprintf(&b, "[green]%s[white]\n", tview.Escape(line))
	}
	b.WriteString("\nNotes:\n")
	for _, n := range report.Notes {
		fmt.Fprintf(&b, " * %s\n", n)
	}
	d.resultText.SetText(b.String())
	d.statusText.SetText("[green]done[white]")

	log.Info("prediction shown",
		zap.String("name", res.Input.Name),
		zap.Float64("price_original", res.PriceOriginal),
		zap.Float64("price_converted", res.PriceConverted),
		zap.Float64("rate", res.RateUsed()),
		zap.String("rate_source", string(res.Rate.Source)),
	)
}

func (d *Displayer) renderError(err error) {
	log.Error("prediction failed", zap.Error(err))
	d.resultText.SetText(fmt.Sprintf("[red]Prediction failed:[white]\n%s", tview.Escape(err.Error())))
	d.statusText.SetText("[red]error[white]")
}
