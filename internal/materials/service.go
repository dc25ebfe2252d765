// Package materials implements the media-acquisition pipeline: YouTube URL →
// downloaded video buffer → extracted WAV audio → two blob artifacts → one
// terminal database record.
package materials

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edulingo/backend/internal/apperr"
	"github.com/edulingo/backend/internal/models"
	"github.com/edulingo/backend/internal/resolver"
	"github.com/edulingo/backend/pkg/storage"
)

// Resolver turns a source URL into a downloadable byte stream.
type Resolver interface {
	Resolve(ctx context.Context, url string) (*resolver.Source, error)
}

// Extractor derives the normalized audio buffer from a video buffer.
type Extractor interface {
	Extract(ctx context.Context, video []byte) ([]byte, error)
}

// ArtifactStore uploads a named buffer and returns its retrieval URL.
type ArtifactStore interface {
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// RecordStore persists terminal material records. Insert fails on an
// existing id; UpsertFailed always leaves exactly one row for the id.
type RecordStore interface {
	Insert(ctx context.Context, m *models.LearningMaterial) error
	UpsertFailed(ctx context.Context, m *models.LearningMaterial) error
}

// Result is returned to the HTTP layer on a completed run.
type Result struct {
	ID       uuid.UUID
	VideoURL string
	AudioURL string
}

// Service orchestrates one ingestion run per call. It owns the record
// lifecycle: after validation, every run ends in exactly one terminal
// record — a completed insert or a failed upsert, never both.
type Service struct {
	resolver  Resolver
	extractor Extractor
	artifacts ArtifactStore
	records   RecordStore
	logger    *zap.Logger

	now   func() time.Time
	newID func() uuid.UUID
}

// NewService wires the pipeline from its injected collaborators.
func NewService(res Resolver, ext Extractor, artifacts ArtifactStore, records RecordStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		resolver:  res,
		extractor: ext,
		artifacts: artifacts,
		records:   records,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.New,
	}
}

// Process runs the full pipeline for one URL. Validation failures are caller
// errors and write no record; any later failure writes one failed record and
// propagates the original error.
func (s *Service) Process(ctx context.Context, youtubeURL string) (*Result, error) {
	url := strings.TrimSpace(youtubeURL)
	if url == "" {
		return nil, apperr.New(apperr.KindValidation, "youtubeUrl must be a non-empty string")
	}
	if err := resolver.ValidateURL(url); err != nil {
		return nil, err
	}

	// Identity and keys are minted once and reused on both the success and
	// failure paths.
	id := s.newID()
	ts := s.now().UnixMilli()
	videoKey := storage.VideoKey(id.String(), ts)
	audioKey := storage.AudioKey(id.String(), ts)

	s.logger.Info("processing youtube video",
		zap.String("material_id", id.String()),
		zap.String("youtube_url", url),
	)

	result, err := s.run(ctx, id, url, videoKey, audioKey)
	if err != nil {
		s.recordFailure(ctx, id, url, videoKey, audioKey, err)
		return nil, err
	}
	return result, nil
}

func (s *Service) run(ctx context.Context, id uuid.UUID, url, videoKey, audioKey string) (*Result, error) {
	src, err := s.resolver.Resolve(ctx, url)
	if err != nil {
		return nil, err
	}
	defer src.Body.Close()

	video, err := materialize(src.Body)
	if err != nil {
		return nil, err
	}
	s.logger.Info("video downloaded", zap.String("material_id", id.String()), zap.Int("bytes", len(video)))

	audio, err := s.extractor.Extract(ctx, video)
	if err != nil {
		return nil, err
	}
	s.logger.Info("audio extracted", zap.String("material_id", id.String()), zap.Int("bytes", len(audio)))

	// The two uploads are independent; run them concurrently but join both
	// before propagating the first failure, so no upload is left in flight.
	var wg sync.WaitGroup
	var videoURL, audioURL string
	var videoErr, audioErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		videoURL, videoErr = s.artifacts.Upload(ctx, videoKey, "video/mp4", video)
	}()
	go func() {
		defer wg.Done()
		audioURL, audioErr = s.artifacts.Upload(ctx, audioKey, "audio/wav", audio)
	}()
	wg.Wait()
	if videoErr != nil {
		return nil, videoErr
	}
	if audioErr != nil {
		return nil, audioErr
	}

	now := s.now().UTC()
	rec := &models.LearningMaterial{
		ID:             id,
		YoutubeURL:     url,
		VideoBlobURL:   videoURL,
		AudioBlobURL:   audioURL,
		VideoFilename:  videoKey,
		AudioFilename:  audioKey,
		VideoSizeBytes: int64(len(video)),
		AudioSizeBytes: int64(len(audio)),
		Status:         models.MaterialStatusCompleted,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if src.DurationSeconds > 0 {
		d := src.DurationSeconds
		rec.DurationSeconds = &d
	}
	if err := s.records.Insert(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("learning material completed",
		zap.String("material_id", id.String()),
		zap.String("video_url", videoURL),
		zap.String("audio_url", audioURL),
	)
	return &Result{ID: id, VideoURL: videoURL, AudioURL: audioURL}, nil
}

// recordFailure writes the terminal failed record. Its own failure is logged
// and suppressed: the reconciliation write must never mask the root cause.
func (s *Service) recordFailure(ctx context.Context, id uuid.UUID, url, videoKey, audioKey string, cause error) {
	now := s.now().UTC()
	rec := &models.LearningMaterial{
		ID:            id,
		YoutubeURL:    url,
		VideoFilename: videoKey,
		AudioFilename: audioKey,
		Status:        models.MaterialStatusFailed,
		ErrorMessage:  cause.Error(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	// The run may have failed because ctx was cancelled; the bookkeeping
	// write still has to go through.
	if err := s.records.UpsertFailed(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.Error("failure record write failed",
			zap.String("material_id", id.String()),
			zap.NamedError("cause", cause),
			zap.Error(err),
		)
		return
	}
	s.logger.Warn("learning material failed",
		zap.String("material_id", id.String()),
		zap.String("error_kind", apperr.KindOf(cause).String()),
		zap.Error(cause),
	)
}
