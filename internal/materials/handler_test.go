package materials

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulingo/backend/internal/apperr"
	"github.com/edulingo/backend/internal/models"
)

type fakeProcessor struct {
	result *Result
	err    error

	gotURL string
}

func (f *fakeProcessor) Process(ctx context.Context, url string) (*Result, error) {
	f.gotURL = url
	return f.result, f.err
}

type fakeRecordReader struct {
	byID    *models.LearningMaterial
	byIDErr error
	list    []models.LearningMaterial
	listErr error
}

func (f *fakeRecordReader) GetByID(ctx context.Context, id uuid.UUID) (*models.LearningMaterial, error) {
	return f.byID, f.byIDErr
}

func (f *fakeRecordReader) List(ctx context.Context) ([]models.LearningMaterial, error) {
	return f.list, f.listErr
}

func newTestRouter(processor Processor, records RecordReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(processor, records, nil, 0)
	r := gin.New()
	r.POST("/api/learning-materials", h.Create)
	r.GET("/api/learning-materials", h.List)
	r.GET("/api/learning-materials/:id", h.GetByID)
	return r
}

func postMaterial(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/learning-materials", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateCompleted(t *testing.T) {
	id := uuid.New()
	processor := &fakeProcessor{result: &Result{
		ID:       id,
		VideoURL: "https://blob.test/" + id.String() + "/video_1735689600123.mp4",
		AudioURL: "https://blob.test/" + id.String() + "/audio_1735689600123.wav",
	}}
	r := newTestRouter(processor, &fakeRecordReader{})

	w := postMaterial(t, r, `{"youtubeUrl": "https://www.youtube.com/watch?v=abc123"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp CreateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, id.String(), resp.ID)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", resp.YoutubeURL)
	assert.Contains(t, resp.VideoURL, "/video_")
	assert.Contains(t, resp.AudioURL, "/audio_")
	assert.Equal(t, "completed", resp.Status)
	assert.NotEmpty(t, resp.CreatedAt)
}

func TestCreateBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no body", ``},
		{"not json", `youtubeUrl=x`},
		{"missing field", `{}`},
		{"empty url", `{"youtubeUrl": ""}`},
		{"whitespace url", `{"youtubeUrl": "   "}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor := &fakeProcessor{}
			r := newTestRouter(processor, &fakeRecordReader{})

			w := postMaterial(t, r, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, processor.gotURL, "pipeline must not run")
		})
	}
}

func TestCreateMapsErrorKinds(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", apperr.New(apperr.KindValidation, "invalid YouTube URL"), http.StatusBadRequest},
		{"rate limited", apperr.New(apperr.KindRateLimited, "youtube rate limit exceeded"), http.StatusTooManyRequests},
		{"extraction", apperr.New(apperr.KindExtraction, "ffmpeg exited with code 2"), http.StatusInternalServerError},
		{"storage", apperr.New(apperr.KindStorage, "upload artifact failed"), http.StatusInternalServerError},
		{"storage config", apperr.New(apperr.KindStorageConfig, "blob storage is not configured"), http.StatusInternalServerError},
		{"store", apperr.New(apperr.KindStore, "insert material record"), http.StatusInternalServerError},
		{"unclassified", plainError(), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&fakeProcessor{err: tt.err}, &fakeRecordReader{})

			w := postMaterial(t, r, `{"youtubeUrl": "https://www.youtube.com/watch?v=abc123"}`)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusInternalServerError {
				assert.JSONEq(t, `{"error": "internal server error"}`, w.Body.String(),
					"500 body must never leak internals")
			}
		})
	}
}

func plainError() error { return bytes.ErrTooLarge }

// End-to-end through the real service with faked collaborators.

func TestCreateEndToEndCompleted(t *testing.T) {
	res := &fakeResolver{data: bytes.Repeat([]byte{1}, 1000)}
	ext := &fakeExtractor{out: bytes.Repeat([]byte{2}, 200)}
	records := &fakeRecordStore{}
	svc := newTestService(res, ext, &fakeArtifactStore{}, records)
	r := newTestRouter(svc, &fakeRecordReader{})

	w := postMaterial(t, r, `{"youtubeUrl": "https://www.youtube.com/watch?v=abc123"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp CreateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "completed", resp.Status)
	assert.Regexp(t, `^https://blob\.test/.+/video_\d+\.mp4$`, resp.VideoURL)
	assert.Regexp(t, `^https://blob\.test/.+/audio_\d+\.wav$`, resp.AudioURL)

	require.Len(t, records.inserted, 1)
	assert.Equal(t, int64(1000), records.inserted[0].VideoSizeBytes)
	assert.Equal(t, int64(200), records.inserted[0].AudioSizeBytes)
}

func TestCreateEndToEndRateLimited(t *testing.T) {
	records := &fakeRecordStore{}
	svc := newTestService(
		&fakeResolver{err: apperr.New(apperr.KindRateLimited, "youtube rate limit exceeded")},
		&fakeExtractor{}, &fakeArtifactStore{}, records)
	r := newTestRouter(svc, &fakeRecordReader{})

	w := postMaterial(t, r, `{"youtubeUrl": "https://www.youtube.com/watch?v=abc123"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	require.Len(t, records.upserted, 1)
	assert.Equal(t, models.MaterialStatusFailed, records.upserted[0].Status)
	assert.Contains(t, records.upserted[0].ErrorMessage, "rate limit")
}

func TestListMaterials(t *testing.T) {
	t.Run("rows", func(t *testing.T) {
		reader := &fakeRecordReader{list: []models.LearningMaterial{
			{ID: uuid.New(), YoutubeURL: "https://youtu.be/a", Status: models.MaterialStatusCompleted},
		}}
		r := newTestRouter(&fakeProcessor{}, reader)

		req := httptest.NewRequest(http.MethodGet, "/api/learning-materials", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		var list []models.LearningMaterial
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Len(t, list, 1)
	})
	t.Run("empty list is an array", func(t *testing.T) {
		r := newTestRouter(&fakeProcessor{}, &fakeRecordReader{})
		req := httptest.NewRequest(http.MethodGet, "/api/learning-materials", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
	})
}

func TestGetMaterialByID(t *testing.T) {
	id := uuid.New()
	t.Run("found", func(t *testing.T) {
		reader := &fakeRecordReader{byID: &models.LearningMaterial{ID: id, Status: models.MaterialStatusCompleted}}
		r := newTestRouter(&fakeProcessor{}, reader)

		req := httptest.NewRequest(http.MethodGet, "/api/learning-materials/"+id.String(), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
	t.Run("not found", func(t *testing.T) {
		reader := &fakeRecordReader{byIDErr: apperr.New(apperr.KindNotFound, "learning material not found")}
		r := newTestRouter(&fakeProcessor{}, reader)

		req := httptest.NewRequest(http.MethodGet, "/api/learning-materials/"+id.String(), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
	t.Run("invalid id", func(t *testing.T) {
		r := newTestRouter(&fakeProcessor{}, &fakeRecordReader{})
		req := httptest.NewRequest(http.MethodGet, "/api/learning-materials/not-a-uuid", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
