// Package handlers implements the HTTP handlers for the ReceiptForge API.
package handlers

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/receiptforge/receiptforge/internal/application/dto"
	"github.com/receiptforge/receiptforge/pkg/errors"
)

// traceID extracts the current trace ID for response envelopes.
func traceID(c *gin.Context) string {
	spanCtx := trace.SpanContextFromContext(c.Request.Context())
	if !spanCtx.HasTraceID() {
		return ""
	}
	return spanCtx.TraceID().String()
}

// respondOK writes data in the standard envelope.
func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, dto.SuccessResponse(data, traceID(c)))
}

// respondError maps an error onto its HTTP status and writes the standard
// error envelope.
func respondError(c *gin.Context, err error) {
	appErr := errors.AsAppError(err)
	c.JSON(appErr.HTTPStatus, dto.ErrorResponse(appErr, traceID(c)))
}
