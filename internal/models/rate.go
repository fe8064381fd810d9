package models

const (
	// DefaultExchangeRate is used whenever the automatic rate cannot be fetched.
	DefaultExchangeRate = 190.0

	MinManualRate = 1.0
	MaxManualRate = 2000.0
)

type RateSource string

const (
	RateSourceAuto     RateSource = "auto"
	RateSourceManual   RateSource = "manual"
	RateSourceFallback RateSource = "fallback"
)

// ExchangeRate is the conversion factor from the source to the target currency.
type ExchangeRate struct {
	Value   float64
	Source  RateSource
	Warning string
}
