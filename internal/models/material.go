package models

import (
	"time"

	"github.com/google/uuid"
)

// Material status values. Only completed and failed are ever persisted;
// processing is the implicit in-flight state of a running pipeline.
const (
	MaterialStatusProcessing = "processing"
	MaterialStatusCompleted  = "completed"
	MaterialStatusFailed     = "failed"
)

// LearningMaterial is the durable record of one ingestion request
// (YouTube source → video + audio artifacts in blob storage).
type LearningMaterial struct {
	ID              uuid.UUID `json:"id"`
	YoutubeURL      string    `json:"youtube_url"`
	VideoBlobURL    string    `json:"video_blob_url,omitempty"`
	AudioBlobURL    string    `json:"audio_blob_url,omitempty"`
	VideoFilename   string    `json:"video_filename,omitempty"`
	AudioFilename   string    `json:"audio_filename,omitempty"`
	VideoSizeBytes  int64     `json:"video_size_bytes"`
	AudioSizeBytes  int64     `json:"audio_size_bytes"`
	DurationSeconds *int      `json:"duration_seconds,omitempty"`
	Status          string    `json:"status"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
