package ports

import (
	"context"

	"github.com/teamtrack/project-management/internal/core/domain"
)

// SignupInput is the first-admin bootstrap payload.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// RegisterInput is the admin-invited user creation payload.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

type AuthService interface {
	// Signup creates the bootstrap Admin. Fails with domain.ErrAdminExists
	// once any Admin is present.
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	// Register creates a Manager or Employee account.
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Login verifies credentials and returns a signed session token.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
