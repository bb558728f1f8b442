// package services implements HTTP clients for the upstream Google APIs
//
// Gemini (generative text), YouTube Data (channels, search), OAuth identity
package services

import (
	"context"

	"github.com/sdi-labs/tubewise/internal/models"
)

// KeySource resolves stored credential records for per-user API key lookup.
// [repositories.CredentialRepository] is the production implementation.
type KeySource interface {
	Get(ctx context.Context, userID string) (*models.Credential, error)
}

// googleError is the error envelope returned by Google APIs on non-2xx
// responses.
type googleError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
