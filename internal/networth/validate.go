package networth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/mmynk/wealthwise/internal/models"
)

// Code identifies why a field was rejected.
type Code string

const (
	CodeMissingField       Code = "MissingField"
	CodeBlankField         Code = "BlankField"
	CodeFieldTooLong       Code = "FieldTooLong"
	CodeInvalidFormat      Code = "InvalidFormat"
	CodeInvalidValueFormat Code = "InvalidValueFormat"
	CodeNegativeValue      Code = "NegativeValue"
	CodeInvalidCategory    Code = "InvalidCategory"
	CodeMissingCategory    Code = "MissingCategory"
	CodeCategoryNotAllowed Code = "CategoryNotAllowed"
)

const (
	MaxNameLength    = 255
	maxIntegerDigits = 13
	maxDecimalPlaces = 2
	maxValueLength   = 64
	fieldName        = "name"
	fieldValue       = "value"
	fieldCategory    = "asset_category"
	fieldDescription = "description"
)

var valueLimit = decimal.New(1, maxIntegerDigits)

// FieldError is a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// ValidationError carries every field error found in one payload.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Code)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Has reports whether the error contains code for field.
func (e *ValidationError) Has(field string, code Code) bool {
	for _, fe := range e.Errors {
		if fe.Field == field && fe.Code == code {
			return true
		}
	}
	return false
}

// Fields is a decoded item payload keyed by JSON field name. A key that is
// absent was not supplied; a key holding the literal null was supplied as null.
//
// Keys other than name, value, asset_category and description are ignored.
// In particular group, group_id and item_type can never be set by a caller.
type Fields map[string]json.RawMessage

// DecodeFields parses a JSON object payload.
func DecodeFields(body []byte) (Fields, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("empty request body")
	}
	var fields Fields
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if fields == nil {
		return nil, fmt.Errorf("request body must be a JSON object")
	}
	return fields, nil
}

func (f Fields) lookup(key string) (raw json.RawMessage, present, null bool) {
	raw, present = f[key]
	if !present {
		return nil, false, false
	}
	return raw, true, bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// str decodes key as a JSON string. ok is false when the key holds another type.
func (f Fields) str(key string) (s string, ok bool) {
	raw := f[key]
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// ParseValue parses a monetary value. It accepts at most two decimal places
// and thirteen integer digits, and rejects negative values.
//
// Exponent notation is accepted only while the exponent stays within the
// digits a plain literal of maxValueLength could have. Rounding and comparing
// rescale to the exponent, so larger ones are rejected before either runs.
func ParseValue(s string) (decimal.Decimal, *FieldError) {
	s = strings.TrimSpace(s)
	if len(s) > maxValueLength {
		return decimal.Zero, &FieldError{fieldValue, CodeInvalidValueFormat, "A valid number is required."}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &FieldError{fieldValue, CodeInvalidValueFormat, "A valid number is required."}
	}
	if exp := d.Exponent(); exp < -(maxDecimalPlaces+maxValueLength) || exp > maxIntegerDigits {
		return decimal.Zero, &FieldError{fieldValue, CodeInvalidValueFormat, "A valid number is required."}
	}
	if !d.Equal(d.Round(maxDecimalPlaces)) {
		return decimal.Zero, &FieldError{fieldValue, CodeInvalidValueFormat,
			fmt.Sprintf("Ensure that there are no more than %d decimal places.", maxDecimalPlaces)}
	}
	if d.Abs().GreaterThanOrEqual(valueLimit) {
		return decimal.Zero, &FieldError{fieldValue, CodeInvalidValueFormat,
			fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.", maxIntegerDigits)}
	}
	if d.IsNegative() {
		return decimal.Zero, &FieldError{fieldValue, CodeNegativeValue, "Value must not be negative."}
	}
	return d, nil
}

func parseRawValue(raw json.RawMessage) (decimal.Decimal, *FieldError) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, &FieldError{fieldValue, CodeInvalidValueFormat, "A valid number is required."}
		}
		return ParseValue(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return decimal.Zero, &FieldError{fieldValue, CodeInvalidValueFormat, "A valid number is required."}
	}
	return ParseValue(n.String())
}

// apply validates f and writes the accepted fields onto item. When creating,
// required fields must be present; when updating, absent fields keep their
// current value. item is left untouched if any field is rejected.
func apply(item *models.NetWorthItem, f Fields, creating bool) error {
	next := *item
	var errs []FieldError
	reject := func(fe FieldError) { errs = append(errs, fe) }

	// name
	if _, present, null := f.lookup(fieldName); !present || null {
		if creating || null {
			reject(FieldError{fieldName, CodeMissingField, "This field is required."})
		}
	} else if s, ok := f.str(fieldName); !ok {
		reject(FieldError{fieldName, CodeInvalidFormat, "Not a valid string."})
	} else if strings.TrimSpace(s) == "" {
		reject(FieldError{fieldName, CodeBlankField, "This field may not be blank."})
	} else if utf8.RuneCountInString(s) > MaxNameLength {
		reject(FieldError{fieldName, CodeFieldTooLong,
			fmt.Sprintf("Ensure this field has no more than %d characters.", MaxNameLength)})
	} else {
		next.Name = strings.TrimSpace(s)
	}

	// value
	if raw, present, null := f.lookup(fieldValue); !present || null {
		if creating || null {
			reject(FieldError{fieldValue, CodeMissingField, "This field is required."})
		}
	} else if d, fe := parseRawValue(raw); fe != nil {
		reject(*fe)
	} else {
		next.Value = d
	}

	// asset_category
	_, present, null := f.lookup(fieldCategory)
	switch next.Type {
	case models.ItemTypeAsset:
		switch {
		case !present || null:
			if creating {
				reject(FieldError{fieldCategory, CodeMissingCategory, "Assets must have an asset category."})
			} else if null {
				reject(FieldError{fieldCategory, CodeInvalidCategory, "Assets must have an asset category."})
			}
		default:
			s, ok := f.str(fieldCategory)
			cat := models.AssetCategory(s)
			if ok && s == "" && creating {
				reject(FieldError{fieldCategory, CodeMissingCategory, "Assets must have an asset category."})
			} else if !cat.Valid() {
				reject(FieldError{fieldCategory, CodeInvalidCategory,
					fmt.Sprintf("%q is not a valid choice.", s)})
			} else {
				next.AssetCategory = cat
			}
		}
	case models.ItemTypeLiability:
		if present && !null {
			reject(FieldError{fieldCategory, CodeCategoryNotAllowed, "Liabilities cannot have an asset category."})
		}
		next.AssetCategory = ""
	}

	// description
	if _, present, null := f.lookup(fieldDescription); present {
		if null {
			next.Description = ""
		} else if s, ok := f.str(fieldDescription); !ok {
			reject(FieldError{fieldDescription, CodeInvalidFormat, "Not a valid string."})
		} else {
			next.Description = s
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	*item = next
	return nil
}
