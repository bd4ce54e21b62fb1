package gormdb_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/receiptforge/receiptforge/internal/config"
	"github.com/receiptforge/receiptforge/internal/domain/models"
	"github.com/receiptforge/receiptforge/internal/domain/repository"
	"github.com/receiptforge/receiptforge/internal/domain/sections"
	"github.com/receiptforge/receiptforge/internal/infrastructure/persistence/gormdb"
	"github.com/receiptforge/receiptforge/pkg/constants"
	apperrors "github.com/receiptforge/receiptforge/pkg/errors"
	"github.com/receiptforge/receiptforge/pkg/logger"
)

func newTestRepos(t *testing.T) (repository.TemplateRepository, repository.BlogPostRepository) {
	t.Helper()
	conn, err := gormdb.NewDBConnection(&config.DatabaseConfig{
		Driver: "sqlite",
		Path:   ":memory:",
	}, logger.NewNoopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return gormdb.NewTemplateRepository(conn, logger.NewNoopLogger()),
		gormdb.NewBlogPostRepository(conn, logger.NewNoopLogger())
}

func newTemplate(t *testing.T, slug string, sectionTypes ...sections.Type) *models.Template {
	t.Helper()
	template := &models.Template{
		ID:       uuid.New(),
		Name:     "Test " + slug,
		Slug:     slug,
		Settings: models.DefaultTemplateSettings(),
	}
	for i, typ := range sectionTypes {
		section, err := models.NewSection(template.ID, typ, i)
		require.NoError(t, err)
		template.Sections = append(template.Sections, *section)
	}
	return template
}

func TestTemplateRepositorySaveAndFind(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	template := newTemplate(t, "coffee-shop", sections.TypeHeader, sections.TypeItemsList, sections.TypePayment)
	require.NoError(t, repo.Save(ctx, template))

	found, err := repo.FindBySlug(ctx, "coffee-shop")
	require.NoError(t, err)
	assert.Equal(t, template.ID, found.ID)
	require.Len(t, found.Sections, 3)

	// Section order is significant and preserved.
	assert.Equal(t, sections.TypeHeader, found.Sections[0].Type)
	assert.Equal(t, sections.TypeItemsList, found.Sections[1].Type)
	assert.Equal(t, sections.TypePayment, found.Sections[2].Type)

	// Settings payload round-trips through JSON text storage.
	settings, err := found.Sections[2].Settings()
	require.NoError(t, err)
	assert.Equal(t, "0.00", settings["total"])

	byID, err := repo.FindByID(ctx, template.ID)
	require.NoError(t, err)
	assert.Equal(t, "coffee-shop", byID.Slug)
}

func TestTemplateRepositorySlugUniqueness(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTemplate(t, "dup-slug")))

	err := repo.Save(ctx, newTemplate(t, "dup-slug"))
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, constants.ErrCodeConflict, appErr.Code)
}

func TestTemplateRepositoryFindMissing(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	_, err := repo.FindBySlug(ctx, "nope")
	require.Error(t, err)
	assert.Equal(t, constants.ErrCodeNotFound, apperrors.AsAppError(err).Code)

	_, err = repo.FindByID(ctx, uuid.New())
	require.Error(t, err)
	assert.Equal(t, constants.ErrCodeNotFound, apperrors.AsAppError(err).Code)
}

func TestTemplateRepositoryReorderSections(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	template := newTemplate(t, "reorder-me", sections.TypeHeader, sections.TypeItemsList, sections.TypeBarcode)
	require.NoError(t, repo.Save(ctx, template))

	reversed := []uuid.UUID{
		template.Sections[2].ID,
		template.Sections[1].ID,
		template.Sections[0].ID,
	}
	require.NoError(t, repo.ReorderSections(ctx, template.ID, reversed))

	found, err := repo.FindByID(ctx, template.ID)
	require.NoError(t, err)
	require.Len(t, found.Sections, 3)
	assert.Equal(t, sections.TypeBarcode, found.Sections[0].Type)
	assert.Equal(t, sections.TypeHeader, found.Sections[2].Type)

	// Reordering with an unknown section ID fails and changes nothing.
	err = repo.ReorderSections(ctx, template.ID, []uuid.UUID{uuid.New()})
	require.Error(t, err)
}

func TestTemplateRepositorySectionLifecycle(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	template := newTemplate(t, "sections", sections.TypeHeader)
	require.NoError(t, repo.Save(ctx, template))

	added, err := models.NewSection(template.ID, sections.TypeBarcode, 1)
	require.NoError(t, err)
	require.NoError(t, repo.SaveSection(ctx, added))

	found, err := repo.FindByID(ctx, template.ID)
	require.NoError(t, err)
	require.Len(t, found.Sections, 2)

	require.NoError(t, repo.DeleteSection(ctx, template.ID, added.ID))
	found, err = repo.FindByID(ctx, template.ID)
	require.NoError(t, err)
	assert.Len(t, found.Sections, 1)

	err = repo.DeleteSection(ctx, template.ID, added.ID)
	require.Error(t, err)
	assert.Equal(t, constants.ErrCodeNotFound, apperrors.AsAppError(err).Code)
}

func TestTemplateRepositoryDeleteCascades(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	template := newTemplate(t, "doomed", sections.TypeHeader, sections.TypeDateTime)
	require.NoError(t, repo.Save(ctx, template))
	require.NoError(t, repo.Delete(ctx, template.ID))

	_, err := repo.FindByID(ctx, template.ID)
	require.Error(t, err)

	err = repo.Delete(ctx, template.ID)
	require.Error(t, err)
	assert.Equal(t, constants.ErrCodeNotFound, apperrors.AsAppError(err).Code)
}

func TestTemplateRepositoryPagination(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	for _, slug := range []string{"one", "two", "three"} {
		require.NoError(t, repo.Save(ctx, newTemplate(t, slug)))
	}

	page, total, err := repo.FindAll(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)

	rest, _, err := repo.FindAll(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestBlogPostRepositoryUpsert(t *testing.T) {
	_, repo := newTestRepos(t)
	ctx := context.Background()

	post := &models.BlogPost{
		Slug:     "how-to-design-receipts",
		Title:    "How to Design Receipts",
		BodyHTML: "<p>original</p>",
		Source:   "cms",
	}
	created, err := repo.Upsert(ctx, post)
	require.NoError(t, err)
	assert.True(t, created)

	update := &models.BlogPost{
		Slug:     "how-to-design-receipts",
		Title:    "How to Design Receipts (updated)",
		BodyHTML: "<p>revised</p>",
		Source:   "cms",
	}
	created, err = repo.Upsert(ctx, update)
	require.NoError(t, err)
	assert.False(t, created)

	found, err := repo.FindBySlug(ctx, "how-to-design-receipts")
	require.NoError(t, err)
	assert.Equal(t, post.ID, found.ID)
	assert.Equal(t, "<p>revised</p>", found.BodyHTML)

	posts, total, err := repo.FindAll(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, posts, 1)
}
