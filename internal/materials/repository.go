package materials

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edulingo/backend/internal/apperr"
	"github.com/edulingo/backend/internal/models"
)

const pgUniqueViolation = "23505"

const materialColumns = `id, youtube_url, COALESCE(video_blob_url,''), COALESCE(audio_blob_url,''),
	COALESCE(video_filename,''), COALESCE(audio_filename,''), video_size_bytes, audio_size_bytes,
	duration_seconds, status, COALESCE(error_message,''), created_at, updated_at`

// Repository transports learning-material records to and from PostgreSQL.
// It never mutates record fields.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a materials repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert persists a completed record. The identity must not already exist.
func (r *Repository) Insert(ctx context.Context, m *models.LearningMaterial) error {
	const q = `INSERT INTO learning_materials
		(id, youtube_url, video_blob_url, audio_blob_url, video_filename, audio_filename,
		 video_size_bytes, audio_size_bytes, duration_seconds, status, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12, $13)`
	_, err := r.pool.Exec(ctx, q,
		m.ID, m.YoutubeURL, m.VideoBlobURL, m.AudioBlobURL, m.VideoFilename, m.AudioFilename,
		m.VideoSizeBytes, m.AudioSizeBytes, m.DurationSeconds, m.Status, m.ErrorMessage, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperr.Wrap(apperr.KindConflict, "material record already exists", err)
		}
		return apperr.Wrap(apperr.KindStore, "insert material record", err)
	}
	return nil
}

// UpsertFailed writes the terminal failed record, overwriting any prior row
// for the identity so exactly one row remains.
func (r *Repository) UpsertFailed(ctx context.Context, m *models.LearningMaterial) error {
	const q = `INSERT INTO learning_materials
		(id, youtube_url, video_filename, audio_filename, status, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			error_message = EXCLUDED.error_message,
			updated_at = EXCLUDED.updated_at`
	_, err := r.pool.Exec(ctx, q,
		m.ID, m.YoutubeURL, m.VideoFilename, m.AudioFilename, m.Status, m.ErrorMessage, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return apperr.Wrap(apperr.KindStore, "upsert failed material record", err)
	}
	return nil
}

// GetByID returns one material record.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.LearningMaterial, error) {
	const q = `SELECT ` + materialColumns + ` FROM learning_materials WHERE id = $1`
	var m models.LearningMaterial
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&m.ID, &m.YoutubeURL, &m.VideoBlobURL, &m.AudioBlobURL, &m.VideoFilename, &m.AudioFilename,
		&m.VideoSizeBytes, &m.AudioSizeBytes, &m.DurationSeconds, &m.Status, &m.ErrorMessage, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.New(apperr.KindNotFound, "learning material not found")
		}
		return nil, apperr.Wrap(apperr.KindStore, "get material record", err)
	}
	return &m, nil
}

// List returns all material records, newest first.
func (r *Repository) List(ctx context.Context) ([]models.LearningMaterial, error) {
	const q = `SELECT ` + materialColumns + ` FROM learning_materials ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "list material records", err)
	}
	defer rows.Close()
	var list []models.LearningMaterial
	for rows.Next() {
		var m models.LearningMaterial
		if err := rows.Scan(
			&m.ID, &m.YoutubeURL, &m.VideoBlobURL, &m.AudioBlobURL, &m.VideoFilename, &m.AudioFilename,
			&m.VideoSizeBytes, &m.AudioSizeBytes, &m.DurationSeconds, &m.Status, &m.ErrorMessage, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, apperr.Wrap(apperr.KindStore, "scan material record", err)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "list material records", err)
	}
	return list, nil
}
