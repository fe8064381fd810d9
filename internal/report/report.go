package report

import (
	"fmt"
	"io"
	"strings"

	"carvalue/internal/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var symbols = map[string]string{
	"INR": "₹",
	"IDR": "Rp",
	"USD": "$",
	"EUR": "€",
}

// Notes are shown under every result.
var Notes = []string{
	"This prediction is an estimate.",
	"Condition, location and extra features of the car can change the real price.",
	"The model was trained on CarDekho (India) listings.",
}

// Formatter renders results for one currency pair.
type Formatter struct {
	from, to string
	p        *message.Printer
}

func New(from, to string) *Formatter {
	return &Formatter{
		from: strings.ToUpper(from),
		to:   strings.ToUpper(to),
		p:    message.NewPrinter(language.English),
	}
}

func symbol(code string) string {
	if s, ok := symbols[code]; ok {
		return s
	}
	return code
}

// SummaryRows echoes the input as label/value pairs.
func (f *Formatter) SummaryRows(car models.CarAttributes) [][2]string {
	return [][2]string{
		{"Year", fmt.Sprintf("%d", car.Year)},
		{"Km Driven", f.p.Sprintf("%d", car.KmDriven)},
		{"Fuel Type", car.Fuel},
		{"Seller Type", car.SellerType},
		{"Transmission", car.Transmission},
		{"Owner", car.Owner},
		{"Car Name", car.Name},
	}
}

// PriceOriginal formats the price with two decimals, e.g. "₹ 1,234,567.89".
func (f *Formatter) PriceOriginal(v float64) string {
	return f.p.Sprintf("%s %.2f", symbol(f.from), v)
}

// PriceConverted formats the price without decimals, e.g. "Rp 234,567,890".
func (f *Formatter) PriceConverted(v float64) string {
	return f.p.Sprintf("%s %.0f", symbol(f.to), v)
}

// RateLine describes the rate, e.g. "1 INR = Rp 190.00".
func (f *Formatter) RateLine(r models.ExchangeRate) string {
	return f.p.Sprintf("1 %s = %s %.2f", f.from, symbol(f.to), r.Value)
}

func (f *Formatter) PriceLines(res models.PredictionResult) []string {
	return []string{
		fmt.Sprintf("Estimated price (%s): %s", f.from, f.PriceOriginal(res.PriceOriginal)),
		fmt.Sprintf("Estimated price (%s): %s", f.to, f.PriceConverted(res.PriceConverted)),
		fmt.Sprintf("Exchange rate used: %s", f.RateLine(res.Rate)),
	}
}

// Write prints the full output surface as plain text.
func (f *Formatter) Write(w io.Writer, res models.PredictionResult) error {
	var b strings.Builder

	b.WriteString("Your input:\n")
	for _, row := range f.SummaryRows(res.Input) {
		fmt.Fprintf(&b, "  %-14s %s\n", row[0]+":", row[1])
	}

	b.WriteString("\nPrediction:\n")
	if res.Rate.Warning != "" {
		fmt.Fprintf(&b, "  warning: %s\n", res.Rate.Warning)
	}
	for _, line := range f.PriceLines(res) {
		fmt.Fprintf(&b, "  %s\n", line)
	}

	b.WriteString("\nNotes:\n")
	for _, n := range Notes {
		fmt.Fprintf(&b, "  * %s\n", n)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
