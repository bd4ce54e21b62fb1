package service

import (
	"context"
	"time"

	"github.com/receiptforge/receiptforge/internal/application/dto"
	"github.com/receiptforge/receiptforge/internal/domain/sections"
	"github.com/receiptforge/receiptforge/internal/infrastructure/monitoring"
	"github.com/receiptforge/receiptforge/internal/infrastructure/vision"
	"github.com/receiptforge/receiptforge/pkg/errors"
	"github.com/receiptforge/receiptforge/pkg/logger"
)

// GenerationAppService turns a receipt photo into a validated section set
// ready to seed a template.
type GenerationAppService interface {
	AnalyzeReceipt(ctx context.Context, image []byte, mimeType string) (*dto.AnalyzeResponse, error)
}

type generationAppServiceImpl struct {
	vision  vision.Client
	metrics *monitoring.Metrics
	logger  logger.Logger
}

// NewGenerationAppService creates a GenerationAppService.
func NewGenerationAppService(visionClient vision.Client, metrics *monitoring.Metrics, log logger.Logger) GenerationAppService {
	return &generationAppServiceImpl{
		vision:  visionClient,
		metrics: metrics,
		logger:  log.WithComponent("GenerationAppService"),
	}
}

func (s *generationAppServiceImpl) AnalyzeReceipt(ctx context.Context, image []byte, mimeType string) (*dto.AnalyzeResponse, error) {
	start := time.Now()
	extraction, err := s.vision.AnalyzeReceipt(ctx, image, mimeType)
	s.metrics.RecordAnalyze(time.Since(start))
	if err != nil {
		s.logger.Error(ctx, "receipt analysis failed", err)
		return nil, errors.ErrServiceUnavailable("receipt analysis is unavailable").WithCause(err)
	}

	generated, err := sectionsFromExtraction(extraction)
	if err != nil {
		return nil, errors.ErrInternal("failed to build sections from extraction").WithCause(err)
	}

	s.logger.Info(ctx, "receipt analyzed",
		logger.String("business_name", extraction.BusinessName),
		logger.Int("items", len(extraction.Items)),
	)
	return &dto.AnalyzeResponse{
		BusinessName:  extraction.BusinessName,
		Address:       extraction.Address,
		Phone:         extraction.Phone,
		Subtotal:      extraction.Subtotal,
		Tax:           extraction.Tax,
		Total:         extraction.Total,
		PaymentMethod: extraction.PaymentMethod,
		Sections:      generated,
	}, nil
}

// sectionsFromExtraction maps an extraction onto the standard receipt
// layout. Each section starts from its defaults, takes the extracted values
// as single-field updates, and is validated before it leaves the service,
// so a sloppy model answer (an out-of-range value, a malformed decimal)
// never reaches the editor unchecked.
func sectionsFromExtraction(ex *vision.Extraction) ([]dto.GeneratedSectionDTO, error) {
	header, err := buildSection(sections.TypeHeader, map[string]interface{}{
		"business_name": ex.BusinessName,
		"address":       ex.Address,
		"phone":         ex.Phone,
	})
	if err != nil {
		return nil, err
	}

	items := make([]sections.LineItem, 0, len(ex.Items))
	for _, item := range ex.Items {
		items = append(items, sections.LineItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	itemsList, err := buildSection(sections.TypeItemsList, map[string]interface{}{
		sections.ItemsTextField: sections.ItemsText(items),
	})
	if err != nil {
		return nil, err
	}

	payment, err := buildSection(sections.TypePayment, map[string]interface{}{
		"subtotal":       ex.Subtotal,
		"tax":            ex.Tax,
		"total":          ex.Total,
		"payment_method": ex.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}

	dateTime, err := buildSection(sections.TypeDateTime, nil)
	if err != nil {
		return nil, err
	}

	return []dto.GeneratedSectionDTO{header, itemsList, payment, dateTime}, nil
}

// buildSection applies the given field updates over the kind's defaults and
// validates the result. Invalid extracted values fall back to the default
// for that field rather than failing the whole analysis.
func buildSection(typ sections.Type, fields map[string]interface{}) (dto.GeneratedSectionDTO, error) {
	settings, err := sections.DefaultsFor(typ)
	if err != nil {
		return dto.GeneratedSectionDTO{}, err
	}

	for field, value := range fields {
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		candidate := sections.ApplyFieldUpdate(typ, settings, field, value)
		if validated, fieldErrs := sections.Validate(typ, candidate); len(fieldErrs) == 0 {
			settings = validated
		}
	}

	return dto.GeneratedSectionDTO{Type: string(typ), Settings: settings}, nil
}
