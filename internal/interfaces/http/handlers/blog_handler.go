package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/receiptforge/receiptforge/internal/application/service"
	"github.com/receiptforge/receiptforge/pkg/logger"
)

// BlogHandler serves the public blog read endpoints.
type BlogHandler struct {
	blogService service.BlogAppService
	logger      logger.Logger
}

// NewBlogHandler creates a BlogHandler.
func NewBlogHandler(blogService service.BlogAppService, log logger.Logger) *BlogHandler {
	return &BlogHandler{
		blogService: blogService,
		logger:      log,
	}
}

// ListPosts handles GET /api/v1/blog/posts.
func (h *BlogHandler) ListPosts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	posts, err := h.blogService.ListPosts(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, posts)
}

// GetPost handles GET /api/v1/blog/posts/:slug.
func (h *BlogHandler) GetPost(c *gin.Context) {
	post, err := h.blogService.GetPost(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, post)
}
