package service

import (
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Column widths of the schema, in characters
const (
	maxNameLen  = 100
	maxPhoneLen = 20
	maxEmailLen = 255

	maxProductNameLen = 255
	maxProductCodeLen = 100
	maxBadgeLen       = 50
)

const (
	maxQuantity = 10000
	// bcrypt refuses longer inputs; measured in bytes
	maxPasswordBytes = 72
)

// maxMoney is the largest NUMERIC(10,2) value
var maxMoney = decimal.RequireFromString("99999999.99")

// checkLength rejects a value longer than max characters
func checkLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return invalid("%s must be at most %d characters", field, max)
	}
	return nil
}

// firstError returns the first non-nil error
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
