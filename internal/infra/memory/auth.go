package memory

import (
	"context"
	"sync"

	"github.com/GuilhermeIgnacio/BrainTappers-sub000/internal/domain"
	"github.com/google/uuid"
)

// AuthProvider is a minimal in-process identity source. The real managed
// auth service stays an external collaborator; the session layer only needs
// a stable user ID to key history writes.
type AuthProvider struct {
	mu     sync.RWMutex
	userID string
}

// NewAuthProvider returns a signed-out provider.
func NewAuthProvider() *AuthProvider {
	return &AuthProvider{}
}

// NewStaticAuthProvider returns a provider already signed in as userID.
func NewStaticAuthProvider(userID string) *AuthProvider {
	return &AuthProvider{userID: userID}
}

// SignInAnonymously mints a fresh anonymous identity if none is active and
// returns the current user ID.
func (a *AuthProvider) SignInAnonymously() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.userID == "" {
		a.userID = "anon-" + uuid.NewString()
	}
	return a.userID
}

// SignOut drops the current identity.
func (a *AuthProvider) SignOut() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userID = ""
}

func (a *AuthProvider) CurrentUserID(context.Context) (string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.userID == "" {
		return "", domain.ErrNotSignedIn
	}
	return a.userID, nil
}
