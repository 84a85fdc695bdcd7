package domain

import (
	"encoding/json"
	"fmt"

	"open-payments-bridge/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Amount is the canonical {value, assetCode, assetScale} triple used by the
// Open Payments APIs. Value is an integer string in the asset's minor unit.
type Amount struct {
	Value      string `json:"value" validate:"required"`
	AssetCode  string `json:"assetCode" validate:"required,min=3,max=12"`
	AssetScale int    `json:"assetScale" validate:"gte=0,lte=18"`
}

// AmountDefaults supplies the asset hints applied when a caller sends a bare
// scalar amount or omits fields from a structured one.
type AmountDefaults struct {
	AssetCode  string
	AssetScale int
}

var amountValidate = validator.New()

// NormalizeAmount validates and canonicalizes a caller-supplied amount.
// Accepted inputs: a bare string/number (minor units, defaults applied), a
// structured map with a value field, or an Amount. Anything else fails with
// an invalid-amount error.
func NormalizeAmount(input any, defaults AmountDefaults) (Amount, error) {
	if defaults.AssetCode == "" {
		defaults.AssetCode = "USD"
	}

	var amt Amount
	switch v := input.(type) {
	case string:
		amt = Amount{Value: v, AssetCode: defaults.AssetCode, AssetScale: defaults.AssetScale}
	case json.Number:
		amt = Amount{Value: v.String(), AssetCode: defaults.AssetCode, AssetScale: defaults.AssetScale}
	case int:
		amt = Amount{Value: fmt.Sprintf("%d", v), AssetCode: defaults.AssetCode, AssetScale: defaults.AssetScale}
	case int64:
		amt = Amount{Value: fmt.Sprintf("%d", v), AssetCode: defaults.AssetCode, AssetScale: defaults.AssetScale}
	case float64:
		d := decimal.NewFromFloat(v)
		amt = Amount{Value: d.String(), AssetCode: defaults.AssetCode, AssetScale: defaults.AssetScale}
	case map[string]any:
		structured, err := amountFromMap(v, defaults)
		if err != nil {
			return Amount{}, err
		}
		amt = structured
	case Amount:
		amt = v
		if amt.AssetCode == "" {
			amt.AssetCode = defaults.AssetCode
		}
	case *Amount:
		if v == nil {
			return Amount{}, apperror.ErrInvalidAmount("Invalid amount supplied")
		}
		amt = *v
		if amt.AssetCode == "" {
			amt.AssetCode = defaults.AssetCode
		}
	default:
		return Amount{}, apperror.ErrInvalidAmount("Invalid amount supplied")
	}

	if err := validateValue(amt.Value); err != nil {
		return Amount{}, err
	}
	if err := amountValidate.Struct(amt); err != nil {
		return Amount{}, apperror.ErrInvalidAmount(err.Error())
	}
	return amt, nil
}

func amountFromMap(m map[string]any, defaults AmountDefaults) (Amount, error) {
	raw, ok := m["value"]
	if !ok || raw == nil {
		return Amount{}, apperror.ErrInvalidAmount("Amount object must include a value field")
	}

	amt := Amount{AssetCode: defaults.AssetCode, AssetScale: defaults.AssetScale}
	switch v := raw.(type) {
	case string:
		amt.Value = v
	case json.Number:
		amt.Value = v.String()
	case float64:
		amt.Value = decimal.NewFromFloat(v).String()
	default:
		amt.Value = fmt.Sprintf("%v", v)
	}

	if code, ok := m["assetCode"].(string); ok && code != "" {
		amt.AssetCode = code
	}
	switch scale := m["assetScale"].(type) {
	case float64:
		amt.AssetScale = int(scale)
	case json.Number:
		if n, err := scale.Int64(); err == nil {
			amt.AssetScale = int(n)
		}
	case int:
		amt.AssetScale = scale
	}
	return amt, nil
}

// validateValue requires a non-negative integer string in minor units.
func validateValue(value string) error {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return apperror.ErrInvalidAmount(fmt.Sprintf("amount value %q is not numeric", value))
	}
	if d.IsNegative() {
		return apperror.ErrInvalidAmount("amount value must not be negative")
	}
	if !d.IsInteger() {
		return apperror.ErrInvalidAmount("amount value must be an integer in the asset's minor unit")
	}
	return nil
}
