package service

import (
	"context"
	"fmt"

	"github.com/receiptforge/receiptforge/internal/application/dto"
	"github.com/receiptforge/receiptforge/internal/config"
	"github.com/receiptforge/receiptforge/internal/infrastructure/email"
	"github.com/receiptforge/receiptforge/internal/infrastructure/monitoring"
	"github.com/receiptforge/receiptforge/pkg/errors"
	"github.com/receiptforge/receiptforge/pkg/logger"
)

// ContactAppService forwards contact form submissions to the site owner.
type ContactAppService interface {
	Submit(ctx context.Context, req *dto.ContactRequest) error
}

type contactAppServiceImpl struct {
	mailer    email.Mailer
	recipient string
	metrics   *monitoring.Metrics
	logger    logger.Logger
}

// NewContactAppService creates a ContactAppService.
func NewContactAppService(mailer email.Mailer, cfg *config.EmailConfig, metrics *monitoring.Metrics, log logger.Logger) ContactAppService {
	return &contactAppServiceImpl{
		mailer:    mailer,
		recipient: cfg.ContactRecipient,
		metrics:   metrics,
		logger:    log.WithComponent("ContactAppService"),
	}
}

func (s *contactAppServiceImpl) Submit(ctx context.Context, req *dto.ContactRequest) error {
	msg := email.Message{
		To:      s.recipient,
		ReplyTo: req.Email,
		Subject: fmt.Sprintf("Contact form: %s", req.Name),
		Text:    fmt.Sprintf("From: %s <%s>\n\n%s", req.Name, req.Email, req.Message),
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		s.metrics.RecordEmail("error")
		s.logger.Error(ctx, "failed to deliver contact message", err)
		return errors.ErrServiceUnavailable("could not deliver message").WithCause(err)
	}

	s.metrics.RecordEmail("success")
	s.logger.Info(ctx, "contact message delivered", logger.String("from", req.Email))
	return nil
}
