package jqdata

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Decimal is a numeric column decoded without float rounding.
type Decimal struct {
	decimal.Decimal
}

// UnmarshalCSV implements csvutil.Unmarshaler.
func (d *Decimal) UnmarshalCSV(b []byte) error {
	v, err := decimal.NewFromString(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	d.Decimal = v
	return nil
}

// NullDecimal is an optional numeric column; empty cells are not Valid.
type NullDecimal struct {
	decimal.NullDecimal
}

// UnmarshalCSV implements csvutil.Unmarshaler.
func (d *NullDecimal) UnmarshalCSV(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "nan" || s == "NaN" {
		d.NullDecimal = decimal.NullDecimal{}
		return nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	d.NullDecimal = decimal.NewNullDecimal(v)
	return nil
}
