// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/sdi-labs/tubewise/internal/models"
	"github.com/sdi-labs/tubewise/internal/shared"
)

// MemCredentials is an in-memory credential store used as a test double for
// [repositories.CredentialRepository].
type MemCredentials struct {
	mu      sync.Mutex
	records map[string]*models.Credential
}

func NewMemCredentials() *MemCredentials {
	return &MemCredentials{records: make(map[string]*models.Credential)}
}

func (m *MemCredentials) Get(ctx context.Context, userID string) (*models.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cred, ok := m.records[userID]
	if !ok {
		return nil, shared.ErrNotConfigured
	}
	copied := *cred
	return &copied, nil
}

func (m *MemCredentials) Save(ctx context.Context, cred *models.Credential) error {
	if cred.UserID == "" {
		return shared.ErrInvalidInput
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cred.IsConfigured = cred.Configured()
	copied := *cred
	m.records[cred.UserID] = &copied
	return nil
}

func (m *MemCredentials) Status(ctx context.Context, userID string) (models.CredentialStatus, error) {
	cred, err := m.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotConfigured) {
			return models.CredentialStatus{}, nil
		}
		return models.CredentialStatus{}, err
	}
	return cred.Status(), nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = (*FCloser)(nil)
