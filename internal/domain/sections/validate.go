package sections

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FieldError reports a validation failure scoped to a single payload field,
// so the editing surface can highlight exactly the offending control.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

var (
	alignmentValues  = []string{AlignLeft, AlignCenter, AlignRight}
	fontWeightValues = []string{WeightNormal, WeightBold}
	formatValues     = []string{FormatDateTime, FormatDate, FormatTime}
	symbologyValues  = []string{SymbologyCode128, SymbologyEAN13, SymbologyUPC, SymbologyCode39}
)

// Validate checks a settings payload against the rules for its section kind
// and returns the validated payload or the list of field errors.
//
// Missing fields fall back to the kind's documented defaults. Bounded
// numeric fields are clamped to the nearest bound, matching the editor's
// slider semantics; enumerated fields outside their set are rejected with a
// field-scoped error. The asymmetry is documented policy. The input payload
// is never mutated.
func Validate(t Type, payload Settings) (Settings, []FieldError) {
	out, err := DefaultsFor(t)
	if err != nil {
		return nil, []FieldError{{Field: "type", Message: err.Error()}}
	}
	for k, v := range payload.Clone() {
		out[k] = v
	}

	var errs []FieldError

	switch t {
	case TypeHeader:
		clampNumber(out, "logo_size", LogoSizeMin, LogoSizeMax, &errs)
		checkEnum(out, "alignment", AlignCenter, alignmentValues, &errs)
		checkString(out, "business_name", &errs)
		checkString(out, "address", &errs)
		checkString(out, "phone", &errs)
		checkString(out, "email", &errs)
		checkString(out, "website", &errs)
		checkString(out, "logo_url", &errs)

	case TypeCustomMessage:
		checkEnum(out, "alignment", AlignCenter, alignmentValues, &errs)
		checkEnum(out, "font_weight", WeightNormal, fontWeightValues, &errs)
		checkString(out, "message", &errs)

	case TypeItemsList:
		checkBool(out, "show_quantity", &errs)
		checkItems(out, &errs)

	case TypePayment:
		checkEnum(out, "alignment", AlignRight, alignmentValues, &errs)
		checkDecimalText(out, "subtotal", &errs)
		checkDecimalText(out, "tax", &errs)
		checkDecimalText(out, "total", &errs)
		checkString(out, "payment_method", &errs)

	case TypeDateTime:
		checkEnum(out, "format", FormatDateTime, formatValues, &errs)
		checkEnum(out, "alignment", AlignCenter, alignmentValues, &errs)

	case TypeBarcode:
		clampNumber(out, "width", BarcodeWidthMin, BarcodeWidthMax, &errs)
		clampNumber(out, "height", BarcodeHeightMin, BarcodeHeightMax, &errs)
		checkEnum(out, "symbology", SymbologyCode128, symbologyValues, &errs)
		checkBool(out, "show_value", &errs)
		checkString(out, "value", &errs)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

// clampNumber clamps a numeric field to [min, max]. A non-numeric value is
// a field error, not a silent substitution.
func clampNumber(s Settings, field string, min, max float64, errs *[]FieldError) {
	n, ok := numberValue(s[field])
	if !ok {
		*errs = append(*errs, FieldError{Field: field, Message: "must be a number"})
		return
	}
	if n < min {
		n = min
	}
	if n > max {
		n = max
	}
	s[field] = n
}

// checkEnum verifies a field is one of the allowed values. An empty value
// falls back to the default; anything else outside the set is rejected.
func checkEnum(s Settings, field, def string, allowed []string, errs *[]FieldError) {
	v, ok := s[field].(string)
	if !ok {
		*errs = append(*errs, FieldError{Field: field, Message: "must be a string"})
		return
	}
	if v == "" {
		s[field] = def
		return
	}
	for _, a := range allowed {
		if v == a {
			return
		}
	}
	*errs = append(*errs, FieldError{
		Field:   field,
		Message: fmt.Sprintf("must be one of %s", strings.Join(allowed, ", ")),
	})
}

func checkString(s Settings, field string, errs *[]FieldError) {
	if _, ok := s[field].(string); !ok {
		*errs = append(*errs, FieldError{Field: field, Message: "must be a string"})
	}
}

func checkBool(s Settings, field string, errs *[]FieldError) {
	if _, ok := s[field].(bool); !ok {
		*errs = append(*errs, FieldError{Field: field, Message: "must be a boolean"})
	}
}

// checkDecimalText verifies a monetary field is well-formed decimal text.
// The text itself is preserved verbatim; parsing only proves it is a valid
// decimal so downstream rendering and storage never see rounding drift.
func checkDecimalText(s Settings, field string, errs *[]FieldError) {
	v, ok := s[field].(string)
	if !ok {
		*errs = append(*errs, FieldError{Field: field, Message: "must be decimal text"})
		return
	}
	if _, err := decimal.NewFromString(v); err != nil {
		*errs = append(*errs, FieldError{Field: field, Message: "must be a valid decimal amount"})
	}
}

// checkItems validates each line item's shape and decimal fields.
func checkItems(s Settings, errs *[]FieldError) {
	arr, ok := s["items"].([]interface{})
	if !ok {
		*errs = append(*errs, FieldError{Field: "items", Message: "must be a list of line items"})
		return
	}

	for i, raw := range arr {
		item, ok := raw.(map[string]interface{})
		if !ok {
			*errs = append(*errs, FieldError{
				Field:   fmt.Sprintf("items[%d]", i),
				Message: "must be a line item object",
			})
			continue
		}
		checkItemDecimal(item, i, "quantity", errs)
		checkItemDecimal(item, i, "price", errs)
		if _, ok := item["name"].(string); !ok {
			*errs = append(*errs, FieldError{
				Field:   fmt.Sprintf("items[%d].name", i),
				Message: "must be a string",
			})
		}
	}
}

func checkItemDecimal(item map[string]interface{}, i int, key string, errs *[]FieldError) {
	field := fmt.Sprintf("items[%d].%s", i, key)
	v, ok := item[key].(string)
	if !ok {
		*errs = append(*errs, FieldError{Field: field, Message: "must be decimal text"})
		return
	}
	if _, err := decimal.NewFromString(v); err != nil {
		*errs = append(*errs, FieldError{Field: field, Message: "must be a valid decimal amount"})
	}
}

// numberValue extracts a float64 from the JSON-decoded forms a numeric
// field can arrive in.
func numberValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
