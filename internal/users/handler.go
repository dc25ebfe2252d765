package users

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/edulingo/backend/internal/models"
	"github.com/edulingo/backend/pkg/response"
)

// UserLister reads users from the record store.
type UserLister interface {
	List(ctx context.Context) ([]models.User, error)
}

// Handler handles user HTTP endpoints.
type Handler struct {
	repo   UserLister
	logger *zap.Logger
}

// NewHandler creates a users handler.
func NewHandler(repo UserLister, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /api/users.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		response.Internal(c)
		return
	}
	if list == nil {
		list = []models.User{}
	}
	response.OK(c, list)
}
