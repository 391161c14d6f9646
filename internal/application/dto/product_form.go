// internal/application/dto/product_form.go
package dto

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Error codes produced by ProductForm validation. The core only emits
// codes; mapping to display strings is the localizer's job.
const (
	ErrorMissingName = "ErrorMissingName"

	ErrorMissingStock            = "ErrorMissingStock"
	ErrorStockNotAnInteger       = "ErrorStockNotAnInteger"
	ErrorStockNotGreaterThanZero = "ErrorStockNotGreaterThanZero"

	ErrorMissingPrice            = "ErrorMissingPrice"
	ErrorPriceNotANumber         = "ErrorPriceNotANumber"
	ErrorPriceNotGreaterThanZero = "ErrorPriceNotGreaterThanZero"
)

var (
	stockPattern = regexp.MustCompile(`^-?\d+$`)
	pricePattern = regexp.MustCompile(`^-?\d+(\.\d{1,2})?$`)
)

var minPrice = decimal.NewFromFloat(0.01)

// FieldError is one violated rule, attached to the submitted field.
type FieldError struct {
	Field string `json:"field"`
	Code  string `json:"code"`
}

// ProductForm is the admin input shape for creating a product.
// Price and Stock arrive as strings and are converted only after
// validation passes.
//
// ID is server-assigned and never bound from the request.
type ProductForm struct {
	ID          int64  `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Details     string `json:"details"`
	Price       string `json:"price"`
	Stock       string `json:"stock"`
}

// Validate runs every rule and collects every violation (not fail-fast).
// A fully empty submission yields exactly one error per required field.
//
// Pattern and range rules on the same field are independent: a value
// failing the pattern is reported under the pattern code only.
func (f ProductForm) Validate() []FieldError {
	var errs []FieldError

	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, FieldError{Field: "Name", Code: ErrorMissingName})
	}

	price := strings.TrimSpace(f.Price)
	switch {
	case price == "":
		errs = append(errs, FieldError{Field: "Price", Code: ErrorMissingPrice})
	case !pricePattern.MatchString(price):
		errs = append(errs, FieldError{Field: "Price", Code: ErrorPriceNotANumber})
	default:
		if v, err := decimal.NewFromString(price); err != nil || v.Cmp(minPrice) < 0 {
			errs = append(errs, FieldError{Field: "Price", Code: ErrorPriceNotGreaterThanZero})
		}
	}

	stock := strings.TrimSpace(f.Stock)
	switch {
	case stock == "":
		errs = append(errs, FieldError{Field: "Stock", Code: ErrorMissingStock})
	case !stockPattern.MatchString(stock):
		errs = append(errs, FieldError{Field: "Stock", Code: ErrorStockNotAnInteger})
	default:
		if v, err := strconv.Atoi(stock); err != nil || v < 1 {
			errs = append(errs, FieldError{Field: "Stock", Code: ErrorStockNotGreaterThanZero})
		}
	}

	return errs
}

// PriceValue converts the validated price string.
// Callers must run Validate first; conversion of an unvalidated value
// returns an error instead of garbage numeric state.
func (f ProductForm) PriceValue() (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(f.Price))
}

// StockValue converts the validated stock string.
func (f ProductForm) StockValue() (int, error) {
	return strconv.Atoi(strings.TrimSpace(f.Stock))
}
