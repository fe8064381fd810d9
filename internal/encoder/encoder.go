package encoder

import (
	"errors"
	"fmt"

	"carvalue/internal/models"
)

// ErrInvalidCategory is returned for a label that has no code in its table.
var ErrInvalidCategory = errors.New("invalid category")

type entry struct {
	label string
	code  int
}

// Codes match the label encoding used when the model was trained.
var (
	fuelTable = []entry{
		{"Diesel", 0},
		{"Petrol", 1},
		{"CNG", 2},
		{"LPG", 3},
		{"Electric", 4},
	}
	sellerTypeTable = []entry{
		{"Individual", 0},
		{"Dealer", 1},
		{"Trustmark Dealer", 2},
	}
	transmissionTable = []entry{
		{"Manual", 0},
		{"Automatic", 1},
	}
	ownerTable = []entry{
		{"Test Drive Car", 0},
		{"First Owner", 1},
		{"Second Owner", 2},
		{"Third Owner", 3},
		{"Fourth & Above Owner", 4},
	}
)

// Codes holds the four encoded categorical inputs.
type Codes struct {
	Fuel         int
	SellerType   int
	Transmission int
	Owner        int
}

func Fuel(label string) (int, error) {
	return lookup("fuel", fuelTable, label)
}

func SellerType(label string) (int, error) {
	return lookup("seller_type", sellerTypeTable, label)
}

func Transmission(label string) (int, error) {
	return lookup("transmission", transmissionTable, label)
}

func Owner(label string) (int, error) {
	return lookup("owner", ownerTable, label)
}

// Encode looks up all four categorical attributes of a car.
func Encode(car models.CarAttributes) (Codes, error) {
	var (
		c   Codes
		err error
	)
	if c.Fuel, err = Fuel(car.Fuel); err != nil {
		return Codes{}, err
	}
	if c.SellerType, err = SellerType(car.SellerType); err != nil {
		return Codes{}, err
	}
	if c.Transmission, err = Transmission(car.Transmission); err != nil {
		return Codes{}, err
	}
	if c.Owner, err = Owner(car.Owner); err != nil {
		return Codes{}, err
	}
	return c, nil
}

// Label lists, ordered by code, for populating selection widgets.
func FuelLabels() []string         { return labels(fuelTable) }
func SellerTypeLabels() []string   { return labels(sellerTypeTable) }
func TransmissionLabels() []string { return labels(transmissionTable) }
func OwnerLabels() []string        { return labels(ownerTable) }

func lookup(table string, entries []entry, label string) (int, error) {
	for _, e := range entries {
		if e.label == label {
			return e.code, nil
		}
	}
	return 0, fmt.Errorf("%s %q: %w", table, label, ErrInvalidCategory)
}

func labels(entries []entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.label
	}
	return out
}
