package models

// CarAttributes is what the user enters on the form.
type CarAttributes struct {
	Year         int    `validate:"gte=1992,lte=2020"`
	KmDriven     int    `validate:"gte=0,lte=1000000"`
	Fuel         string `validate:"required"`
	SellerType   string `validate:"required"`
	Transmission string `validate:"required"`
	Owner        string `validate:"required"`
	Name         string `validate:"required"`
}

// Feature column names, in the order the regression model was trained on.
const (
	ColumnFuel         = "fuel"
	ColumnSellerType   = "seller_type"
	ColumnTransmission = "transmission"
	ColumnOwner        = "owner"
	ColumnKmDrivenYJ   = "km_driven_yj"
	ColumnYear         = "year"
	ColumnName         = "name"
)

// FeatureColumns is the fixed model input layout.
var FeatureColumns = []string{
	ColumnFuel,
	ColumnSellerType,
	ColumnTransmission,
	ColumnOwner,
	ColumnKmDrivenYJ,
	ColumnYear,
	ColumnName,
}

// FeatureRow is a single model-ready input row.
type FeatureRow struct {
	Fuel           int
	SellerType     int
	Transmission   int
	Owner          int
	KmDrivenScaled float64
	Year           int
	Name           string
}

// Columns returns the column names of the row.
func (r FeatureRow) Columns() []string {
	cols := make([]string, len(FeatureColumns))
	copy(cols, FeatureColumns)
	return cols
}

// Values returns the row cells in column order.
func (r FeatureRow) Values() []any {
	return []any{
		r.Fuel,
		r.SellerType,
		r.Transmission,
		r.Owner,
		r.KmDrivenScaled,
		r.Year,
		r.Name,
	}
}
