// Package sections defines the receipt template section model: the closed
// set of section kinds, the canonical default settings payload for each
// kind, the field-level update contract used by the template editor, and the
// validation rules applied before a payload is persisted.
//
// Settings payloads travel as their wire JSON form (Settings, an untyped
// map) between the editor, the API layer and the store. The typed structs in
// this file are the canonical record shapes; defaults are built from them so
// the two forms cannot drift apart.
package sections

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Type tags a section with one of the fixed receipt section kinds.
type Type string

const (
	TypeHeader        Type = "header"
	TypeCustomMessage Type = "custom_message"
	TypeItemsList     Type = "items_list"
	TypePayment       Type = "payment"
	TypeDateTime      Type = "date_time"
	TypeBarcode       Type = "barcode"
)

// Types returns all concrete section kinds in canonical order.
func Types() []Type {
	return []Type{
		TypeHeader,
		TypeCustomMessage,
		TypeItemsList,
		TypePayment,
		TypeDateTime,
		TypeBarcode,
	}
}

// Valid reports whether t is one of the concrete section kinds.
func (t Type) Valid() bool {
	switch t {
	case TypeHeader, TypeCustomMessage, TypeItemsList, TypePayment, TypeDateTime, TypeBarcode:
		return true
	}
	return false
}

// ErrUnknownType is returned when a section type tag is outside the closed
// set. Callers render a fallback state; the tag is never silently ignored.
var ErrUnknownType = errors.New("unknown section type")

// Alignment values for text-bearing sections.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// Font weights for the custom message section.
const (
	WeightNormal = "normal"
	WeightBold   = "bold"
)

// Date/time display formats.
const (
	FormatDateTime = "datetime"
	FormatDate     = "date"
	FormatTime     = "time"
)

// Barcode symbologies.
const (
	SymbologyCode128 = "CODE128"
	SymbologyEAN13   = "EAN13"
	SymbologyUPC     = "UPC"
	SymbologyCode39  = "CODE39"
)

// Bounds for clamped numeric fields.
const (
	LogoSizeMin      = 10.0
	LogoSizeMax      = 100.0
	BarcodeWidthMin  = 0.5
	BarcodeWidthMax  = 10.0
	BarcodeHeightMin = 20.0
	BarcodeHeightMax = 200.0
)

// Settings is the wire JSON form of a section settings payload.
type Settings map[string]interface{}

// Clone returns a deep copy of the settings payload. Update and validation
// operations work on clones so the caller's payload is never mutated.
func (s Settings) Clone() Settings {
	if s == nil {
		return Settings{}
	}
	raw, err := json.Marshal(s)
	if err != nil {
		// Settings originate from JSON; a marshal failure means a caller
		// put a non-serializable value in the map. Fall back to a shallow
		// copy rather than losing the payload.
		out := make(Settings, len(s))
		for k, v := range s {
			out[k] = v
		}
		return out
	}
	out := make(Settings, len(s))
	if err := json.Unmarshal(raw, &out); err != nil {
		return Settings{}
	}
	return out
}

// LineItem is one purchasable row of an items list. Quantity and price are
// decimal text, preserving the user's exact formatting; the store must never
// round-trip them through floating point.
type LineItem struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
}

// HeaderSettings is the payload for the header section.
type HeaderSettings struct {
	BusinessName string  `json:"business_name"`
	Address      string  `json:"address"`
	Phone        string  `json:"phone"`
	Email        string  `json:"email"`
	Website      string  `json:"website"`
	LogoURL      string  `json:"logo_url"`
	LogoSize     float64 `json:"logo_size"`
	Alignment    string  `json:"alignment"`
}

// CustomMessageSettings is the payload for the custom message section.
type CustomMessageSettings struct {
	Message    string `json:"message"`
	Alignment  string `json:"alignment"`
	FontWeight string `json:"font_weight"`
}

// ItemsListSettings is the payload for the items list section.
type ItemsListSettings struct {
	Items        []LineItem `json:"items"`
	ShowQuantity bool       `json:"show_quantity"`
}

// PaymentSettings is the payload for the payment totals section. All
// monetary fields are decimal text.
type PaymentSettings struct {
	Subtotal      string `json:"subtotal"`
	Tax           string `json:"tax"`
	Total         string `json:"total"`
	PaymentMethod string `json:"payment_method"`
	Alignment     string `json:"alignment"`
}

// DateTimeSettings is the payload for the date/time section.
type DateTimeSettings struct {
	Format    string `json:"format"`
	Alignment string `json:"alignment"`
}

// BarcodeSettings is the payload for the barcode section.
type BarcodeSettings struct {
	Value     string  `json:"value"`
	Symbology string  `json:"symbology"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	ShowValue bool    `json:"show_value"`
}

// DefaultsFor returns the canonical default settings payload for a section
// kind. For a tag outside the closed set it returns ErrUnknownType so
// callers can render an explicit fallback state instead of an empty section.
func DefaultsFor(t Type) (Settings, error) {
	var payload interface{}

	switch t {
	case TypeHeader:
		payload = HeaderSettings{
			BusinessName: "Business Name",
			Address:      "123 Main Street\nCity, ST 00000",
			LogoSize:     60,
			Alignment:    AlignCenter,
		}
	case TypeCustomMessage:
		payload = CustomMessageSettings{
			Message:    "Thank you for your purchase!",
			Alignment:  AlignCenter,
			FontWeight: WeightNormal,
		}
	case TypeItemsList:
		payload = ItemsListSettings{
			Items:        []LineItem{{Name: "Item", Quantity: "1", Price: "0.00"}},
			ShowQuantity: true,
		}
	case TypePayment:
		payload = PaymentSettings{
			Subtotal:      "0.00",
			Tax:           "0.00",
			Total:         "0.00",
			PaymentMethod: "Cash",
			Alignment:     AlignRight,
		}
	case TypeDateTime:
		payload = DateTimeSettings{
			Format:    FormatDateTime,
			Alignment: AlignCenter,
		}
	case TypeBarcode:
		payload = BarcodeSettings{
			Value:     "0123456789",
			Symbology: SymbologyCode128,
			Width:     2,
			Height:    60,
			ShowValue: true,
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, string(t))
	}

	return toSettings(payload), nil
}

// toSettings converts a typed payload struct into its wire map form.
func toSettings(payload interface{}) Settings {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Settings{}
	}
	out := Settings{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return Settings{}
	}
	return out
}
