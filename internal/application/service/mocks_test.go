package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"

	"github.com/receiptforge/receiptforge/internal/domain/models"
	"github.com/receiptforge/receiptforge/internal/infrastructure/email"
	"github.com/receiptforge/receiptforge/internal/infrastructure/events"
	"github.com/receiptforge/receiptforge/internal/infrastructure/monitoring"
	"github.com/receiptforge/receiptforge/internal/infrastructure/vision"
)

// Mock implementations for dependencies

type MockTemplateRepo struct {
	mock.Mock
}

func (m *MockTemplateRepo) Save(ctx context.Context, template *models.Template) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Template), args.Error(1)
}

func (m *MockTemplateRepo) FindBySlug(ctx context.Context, slug string) (*models.Template, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Template), args.Error(1)
}

func (m *MockTemplateRepo) FindAll(ctx context.Context, limit, offset int) ([]*models.Template, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Template), args.Get(1).(int64), args.Error(2)
}

func (m *MockTemplateRepo) Update(ctx context.Context, template *models.Template) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTemplateRepo) SaveSection(ctx context.Context, section *models.Section) error {
	args := m.Called(ctx, section)
	return args.Error(0)
}

func (m *MockTemplateRepo) DeleteSection(ctx context.Context, templateID, sectionID uuid.UUID) error {
	args := m.Called(ctx, templateID, sectionID)
	return args.Error(0)
}

func (m *MockTemplateRepo) ReorderSections(ctx context.Context, templateID uuid.UUID, orderedIDs []uuid.UUID) error {
	args := m.Called(ctx, templateID, orderedIDs)
	return args.Error(0)
}

type MockBlogPostRepo struct {
	mock.Mock
}

func (m *MockBlogPostRepo) Upsert(ctx context.Context, post *models.BlogPost) (bool, error) {
	args := m.Called(ctx, post)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlogPostRepo) FindBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlogPost), args.Error(1)
}

func (m *MockBlogPostRepo) FindAll(ctx context.Context, limit, offset int) ([]*models.BlogPost, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.BlogPost), args.Get(1).(int64), args.Error(2)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockVisionClient struct {
	mock.Mock
}

func (m *MockVisionClient) AnalyzeReceipt(ctx context.Context, image []byte, mimeType string) (*vision.Extraction, error) {
	args := m.Called(ctx, image, mimeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vision.Extraction), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg email.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// newTestMetrics creates metrics on a throwaway registry so repeated test
// setup never collides with the default registry.
func newTestMetrics() *monitoring.Metrics {
	return monitoring.NewMetricsWithRegistry(prometheus.NewRegistry())
}
