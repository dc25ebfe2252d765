package materials

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edulingo/backend/internal/apperr"
	"github.com/edulingo/backend/internal/models"
	"github.com/edulingo/backend/pkg/response"
)

// Processor runs the ingestion pipeline for one URL.
type Processor interface {
	Process(ctx context.Context, youtubeURL string) (*Result, error)
}

// RecordReader reads persisted material records.
type RecordReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.LearningMaterial, error)
	List(ctx context.Context) ([]models.LearningMaterial, error)
}

// CreateRequest is the POST /api/learning-materials body.
type CreateRequest struct {
	YoutubeURL string `json:"youtubeUrl"`
}

// CreateResponse is the 201 body for a completed ingestion.
type CreateResponse struct {
	ID         string `json:"id"`
	YoutubeURL string `json:"youtubeUrl"`
	VideoURL   string `json:"videoUrl"`
	AudioURL   string `json:"audioUrl"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
}

// Handler handles learning-material HTTP endpoints.
type Handler struct {
	processor Processor
	records   RecordReader
	logger    *zap.Logger
	timeout   time.Duration
}

// NewHandler creates a materials handler. A zero timeout leaves requests
// unbounded, matching the source behavior.
func NewHandler(processor Processor, records RecordReader, logger *zap.Logger, timeout time.Duration) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{processor: processor, records: records, logger: logger, timeout: timeout}
}

// Create handles POST /api/learning-materials.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "missing required field: youtubeUrl")
		return
	}
	if strings.TrimSpace(req.YoutubeURL) == "" {
		response.BadRequest(c, "youtubeUrl must be a non-empty string")
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result, err := h.processor.Process(ctx, req.YoutubeURL)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Created(c, CreateResponse{
		ID:         result.ID.String(),
		YoutubeURL: strings.TrimSpace(req.YoutubeURL),
		VideoURL:   result.VideoURL,
		AudioURL:   result.AudioURL,
		Status:     models.MaterialStatusCompleted,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	})
}

// List handles GET /api/learning-materials.
func (h *Handler) List(c *gin.Context) {
	list, err := h.records.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if list == nil {
		list = []models.LearningMaterial{}
	}
	response.OK(c, list)
}

// GetByID handles GET /api/learning-materials/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid material id")
		return
	}
	m, err := h.records.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.OK(c, m)
}

// respondError maps error kinds onto HTTP statuses. Unclassified errors get
// a fixed 500 body; the cause is only logged.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		response.BadRequest(c, apperr.PublicMessage(err))
	case apperr.KindRateLimited:
		response.TooManyRequests(c, "YouTube rate limit exceeded. Please try again later.")
	case apperr.KindNotFound:
		response.NotFound(c, apperr.PublicMessage(err))
	default:
		h.logger.Error("learning material request failed",
			zap.String("error_kind", apperr.KindOf(err).String()),
			zap.Error(err),
		)
		response.Internal(c)
	}
}
