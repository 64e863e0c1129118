package auth

import (
	"context"

	"github.com/apnakhata/apnakhata/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different credential schemes
// (password, passkeys, OAuth, etc.) without changing the handler layer.
type Authenticator interface {
	// Register creates a new user account with the given profile and
	// credential. Returns the created user or an error if registration
	// fails.
	Register(ctx context.Context, email, phoneNumber, name, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user
	// if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the
	// implementation's requirements.
	ValidateCredential(credential string) error
}
