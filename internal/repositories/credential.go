package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sdi-labs/tubewise/internal/models"
	"github.com/sdi-labs/tubewise/internal/shared"
)

// CredentialRepository persists [models.Credential] records in SQLite.
type CredentialRepository struct {
	db *sql.DB
}

// NewCredentialRepository creates a new [CredentialRepository] with the given database connection
func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Get retrieves the credential record for a user.
//
// Returns [shared.ErrNotConfigured] (wrapped) when no record exists.
func (r *CredentialRepository) Get(ctx context.Context, userID string) (*models.Credential, error) {
	query := `
		SELECT user_id, gemini_api_key, youtube_api_key, google_client_id, google_client_secret, is_configured, created_at, updated_at
		FROM credentials
		WHERE user_id = ?
	`

	var cred models.Credential
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&cred.UserID,
		&cred.GeminiAPIKey,
		&cred.YouTubeAPIKey,
		&cred.GoogleClientID,
		&cred.GoogleClientSecret,
		&cred.IsConfigured,
		&cred.CreatedAt,
		&cred.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no credential record for user %s: %w", userID, shared.ErrNotConfigured)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query credential: %w", err)
	}

	return &cred, nil
}

// Save creates or overwrites the credential record for cred.UserID.
//
// All four key fields are written in full on every save; is_configured is
// recomputed from the fields, and updated_at is refreshed. created_at is
// preserved for existing rows.
func (r *CredentialRepository) Save(ctx context.Context, cred *models.Credential) error {
	if cred.UserID == "" {
		return fmt.Errorf("%w: user id is required", shared.ErrInvalidInput)
	}

	now := time.Now().UTC()
	cred.IsConfigured = cred.Configured()
	cred.UpdatedAt = now
	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = now
	}

	query := `
		INSERT INTO credentials (user_id, gemini_api_key, youtube_api_key, google_client_id, google_client_secret, is_configured, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			gemini_api_key = excluded.gemini_api_key,
			youtube_api_key = excluded.youtube_api_key,
			google_client_id = excluded.google_client_id,
			google_client_secret = excluded.google_client_secret,
			is_configured = excluded.is_configured,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		cred.UserID,
		cred.GeminiAPIKey,
		cred.YouTubeAPIKey,
		cred.GoogleClientID,
		cred.GoogleClientSecret,
		cred.IsConfigured,
		cred.CreatedAt,
		cred.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}

	return nil
}

// Status returns the masked credential projection for a user. A missing
// record yields the zero status rather than an error.
func (r *CredentialRepository) Status(ctx context.Context, userID string) (models.CredentialStatus, error) {
	cred, err := r.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotConfigured) {
			return models.CredentialStatus{}, nil
		}
		return models.CredentialStatus{}, err
	}
	return cred.Status(), nil
}
