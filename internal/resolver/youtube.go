// Package resolver turns a YouTube URL into a downloadable byte stream.
package resolver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"
	"go.uber.org/zap"

	"github.com/edulingo/backend/internal/apperr"
)

// Source is a resolved stream plus the metadata the pipeline records.
type Source struct {
	Body            io.ReadCloser
	ContentLength   int64
	DurationSeconds int
}

// ValidateURL rejects input that is not shaped like a YouTube video URL.
// It is deliberately lenient about the video id itself: a well-shaped URL
// for a missing video fails later, at resolution, and is recorded as a
// pipeline failure rather than a caller error.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperr.New(apperr.KindValidation, "invalid YouTube URL")
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		if u.Query().Get("v") != "" {
			return nil
		}
		for _, prefix := range []string{"/shorts/", "/embed/", "/live/", "/v/"} {
			if strings.HasPrefix(u.Path, prefix) && len(u.Path) > len(prefix) {
				return nil
			}
		}
		return apperr.New(apperr.KindValidation, "invalid YouTube URL")
	case "youtu.be":
		if strings.Trim(u.Path, "/") == "" {
			return apperr.New(apperr.KindValidation, "invalid YouTube URL")
		}
		return nil
	default:
		return apperr.New(apperr.KindValidation, "invalid YouTube URL")
	}
}

// YouTube resolves video URLs into the highest-quality combined
// audio+video stream.
type YouTube struct {
	client youtube.Client
	logger *zap.Logger
}

// NewYouTube creates a resolver backed by the public YouTube endpoints.
func NewYouTube(logger *zap.Logger) *YouTube {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YouTube{logger: logger}
}

// Resolve fetches video metadata and opens the stream. The stream body is
// lazy: read errors surface when the caller drains it.
func (y *YouTube) Resolve(ctx context.Context, rawURL string) (*Source, error) {
	video, err := y.client.GetVideoContext(ctx, rawURL)
	if err != nil {
		return nil, classify(err)
	}

	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return nil, apperr.New(apperr.KindInternal, "no combined audio+video stream available")
	}
	formats.Sort() // best quality first
	format := &formats[0]

	body, size, err := y.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, classify(err)
	}

	y.logger.Debug("resolved youtube stream",
		zap.String("video_id", video.ID),
		zap.String("quality", format.Quality),
		zap.Int64("content_length", size),
	)
	return &Source{
		Body:            body,
		ContentLength:   size,
		DurationSeconds: int(video.Duration / time.Second),
	}, nil
}

// classify maps upstream failures onto error kinds at the boundary, so the
// orchestrator and the HTTP layer never inspect message text.
func classify(err error) error {
	var status youtube.ErrUnexpectedStatusCode
	if errors.As(err, &status) && int(status) == http.StatusTooManyRequests {
		return apperr.Wrap(apperr.KindRateLimited, "youtube rate limit exceeded", err)
	}
	var playability *youtube.ErrPlayabiltyStatus
	if errors.As(err, &playability) {
		return apperr.Wrap(apperr.KindInternal, "video is not playable", err)
	}
	return apperr.Wrap(apperr.KindInternal, "resolve youtube video", err)
}
