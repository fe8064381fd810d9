package models

// PredictionResult is everything the output surface renders for one action.
type PredictionResult struct {
	Input          CarAttributes
	Features       FeatureRow
	PriceOriginal  float64
	PriceConverted float64
	Rate           ExchangeRate
}

// RateUsed is the rate the converted price was computed with.
func (p PredictionResult) RateUsed() float64 {
	return p.Rate.Value
}
