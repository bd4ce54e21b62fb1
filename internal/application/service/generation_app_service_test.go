package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/receiptforge/receiptforge/internal/infrastructure/vision"
	"github.com/receiptforge/receiptforge/pkg/constants"
	apperrors "github.com/receiptforge/receiptforge/pkg/errors"
	"github.com/receiptforge/receiptforge/pkg/logger"
)

func TestAnalyzeReceiptBuildsStandardLayout(t *testing.T) {
	visionClient := new(MockVisionClient)
	svc := NewGenerationAppService(visionClient, newTestMetrics(), logger.NewNoopLogger())

	visionClient.On("AnalyzeReceipt", mock.Anything, []byte("img"), "image/jpeg").Return(&vision.Extraction{
		BusinessName: "Bean There",
		Address:      "42 Roast Road",
		Phone:        "555-0100",
		Items: []vision.ExtractedItem{
			{Name: "Latte", Quantity: "2", Price: "4.50"},
			{Name: "Croissant", Quantity: "1", Price: "3.25"},
		},
		Subtotal:      "12.25",
		Tax:           "1.02",
		Total:         "13.27",
		PaymentMethod: "Credit Card",
	}, nil)

	resp, err := svc.AnalyzeReceipt(context.Background(), []byte("img"), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "Bean There", resp.BusinessName)
	assert.Equal(t, "13.27", resp.Total)

	require.Len(t, resp.Sections, 4)
	assert.Equal(t, "header", resp.Sections[0].Type)
	assert.Equal(t, "items_list", resp.Sections[1].Type)
	assert.Equal(t, "payment", resp.Sections[2].Type)
	assert.Equal(t, "date_time", resp.Sections[3].Type)

	header := resp.Sections[0].Settings
	assert.Equal(t, "Bean There", header["business_name"])
	assert.Equal(t, "42 Roast Road", header["address"])

	items, ok := resp.Sections[1].Settings["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 2)
	first, ok := items[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Latte", first["name"])
	assert.Equal(t, "4.50", first["price"])

	payment := resp.Sections[2].Settings
	assert.Equal(t, "12.25", payment["subtotal"])
	assert.Equal(t, "Credit Card", payment["payment_method"])
}

func TestAnalyzeReceiptEmptyExtractionKeepsDefaults(t *testing.T) {
	visionClient := new(MockVisionClient)
	svc := NewGenerationAppService(visionClient, newTestMetrics(), logger.NewNoopLogger())

	visionClient.On("AnalyzeReceipt", mock.Anything, mock.Anything, mock.Anything).Return(&vision.Extraction{}, nil)

	resp, err := svc.AnalyzeReceipt(context.Background(), []byte("img"), "image/png")
	require.NoError(t, err)

	header := resp.Sections[0].Settings
	assert.Equal(t, "Business Name", header["business_name"])

	payment := resp.Sections[2].Settings
	assert.Equal(t, "0.00", payment["subtotal"])
}

func TestAnalyzeReceiptSanitizesMalformedDecimals(t *testing.T) {
	visionClient := new(MockVisionClient)
	svc := NewGenerationAppService(visionClient, newTestMetrics(), logger.NewNoopLogger())

	visionClient.On("AnalyzeReceipt", mock.Anything, mock.Anything, mock.Anything).Return(&vision.Extraction{
		Subtotal: "about twelve",
		Total:    "13.27",
	}, nil)

	resp, err := svc.AnalyzeReceipt(context.Background(), []byte("img"), "image/png")
	require.NoError(t, err)

	payment := resp.Sections[2].Settings
	assert.Equal(t, "0.00", payment["subtotal"], "unparseable amounts fall back to the default")
	assert.Equal(t, "13.27", payment["total"])
}

func TestAnalyzeReceiptVisionFailure(t *testing.T) {
	visionClient := new(MockVisionClient)
	svc := NewGenerationAppService(visionClient, newTestMetrics(), logger.NewNoopLogger())

	visionClient.On("AnalyzeReceipt", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("upstream timeout"))

	_, err := svc.AnalyzeReceipt(context.Background(), []byte("img"), "image/png")
	require.Error(t, err)
	assert.Equal(t, constants.ErrCodeServiceUnavailable, apperrors.AsAppError(err).Code)
}
