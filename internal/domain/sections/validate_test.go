package sections_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/receiptforge/receiptforge/internal/domain/sections"
)

func TestValidateClampsLogoSize(t *testing.T) {
	validated, errs := sections.Validate(sections.TypeHeader, sections.Settings{"logo_size": 500})
	require.Nil(t, errs)
	assert.InDelta(t, 100, validated["logo_size"].(float64), 0.001)

	validated, errs = sections.Validate(sections.TypeHeader, sections.Settings{"logo_size": -5})
	require.Nil(t, errs)
	assert.InDelta(t, 10, validated["logo_size"].(float64), 0.001)

	// In-range values pass through untouched.
	validated, errs = sections.Validate(sections.TypeHeader, sections.Settings{"logo_size": 42.5})
	require.Nil(t, errs)
	assert.InDelta(t, 42.5, validated["logo_size"].(float64), 0.001)
}

func TestValidateClampsBarcodeDimensions(t *testing.T) {
	validated, errs := sections.Validate(sections.TypeBarcode, sections.Settings{
		"width":  0.1,
		"height": 500,
	})
	require.Nil(t, errs)
	assert.InDelta(t, 0.5, validated["width"].(float64), 0.001)
	assert.InDelta(t, 200, validated["height"].(float64), 0.001)
}

func TestValidateRejectsEnumViolations(t *testing.T) {
	validated, errs := sections.Validate(sections.TypeDateTime, sections.Settings{"format": "bogus"})
	assert.Nil(t, validated)
	require.Len(t, errs, 1)
	assert.Equal(t, "format", errs[0].Field)
	assert.Contains(t, errs[0].Message, "datetime")

	_, errs = sections.Validate(sections.TypeBarcode, sections.Settings{"symbology": "QR"})
	require.Len(t, errs, 1)
	assert.Equal(t, "symbology", errs[0].Field)

	_, errs = sections.Validate(sections.TypeCustomMessage, sections.Settings{"font_weight": "heavy"})
	require.Len(t, errs, 1)
	assert.Equal(t, "font_weight", errs[0].Field)
}

func TestValidateEmptyEnumFallsBackToDefault(t *testing.T) {
	validated, errs := sections.Validate(sections.TypeDateTime, sections.Settings{"format": ""})
	require.Nil(t, errs)
	assert.Equal(t, "datetime", validated["format"])
}

func TestValidateMissingFieldsGetDefaults(t *testing.T) {
	validated, errs := sections.Validate(sections.TypePayment, sections.Settings{"total": "12.50"})
	require.Nil(t, errs)
	assert.Equal(t, "12.50", validated["total"])
	assert.Equal(t, "0.00", validated["subtotal"])
	assert.Equal(t, "right", validated["alignment"])
}

func TestValidateRejectsMalformedDecimalText(t *testing.T) {
	_, errs := sections.Validate(sections.TypePayment, sections.Settings{"total": "12,50 EUR"})
	require.Len(t, errs, 1)
	assert.Equal(t, "total", errs[0].Field)

	_, errs = sections.Validate(sections.TypeItemsList, sections.Settings{
		"items": []interface{}{
			map[string]interface{}{"name": "Widget", "quantity": "2", "price": "9.99"},
			map[string]interface{}{"name": "Gadget", "quantity": "one", "price": "19.99"},
		},
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "items[1].quantity", errs[0].Field)
}

func TestValidatePreservesDecimalTextVerbatim(t *testing.T) {
	validated, errs := sections.Validate(sections.TypeItemsList, sections.Settings{
		"items": []interface{}{
			map[string]interface{}{"name": "Widget", "quantity": "2.0", "price": "09.990"},
		},
	})
	require.Nil(t, errs)
	item := validated["items"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "2.0", item["quantity"])
	assert.Equal(t, "09.990", item["price"])
}

func TestValidateUnknownType(t *testing.T) {
	validated, errs := sections.Validate(sections.Type("sticker"), sections.Settings{})
	assert.Nil(t, validated)
	require.Len(t, errs, 1)
	assert.Equal(t, "type", errs[0].Field)
}

func TestValidateCollectsMultipleFieldErrors(t *testing.T) {
	_, errs := sections.Validate(sections.TypeBarcode, sections.Settings{
		"symbology":  "QR",
		"width":      "wide",
		"show_value": "yes",
	})
	require.Len(t, errs, 3)

	fields := make(map[string]bool)
	for _, fe := range errs {
		fields[fe.Field] = true
	}
	assert.True(t, fields["symbology"])
	assert.True(t, fields["width"])
	assert.True(t, fields["show_value"])
}

func TestValidateDoesNotMutateInput(t *testing.T) {
	payload := sections.Settings{"logo_size": 500}
	_, errs := sections.Validate(sections.TypeHeader, payload)
	require.Nil(t, errs)
	assert.Equal(t, 500, payload["logo_size"])
}
