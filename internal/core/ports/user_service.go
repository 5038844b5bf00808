package ports

import (
	"context"

	"github.com/teamtrack/project-management/internal/core/domain"
)

// UpdateUserInput carries the fields an Admin may edit on a user. Empty
// fields are left untouched.
type UpdateUserInput struct {
	ID       string
	Username string
	Email    string
	Role     string
}

type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	// AssignRole switches a user to Manager or Employee.
	AssignRole(ctx context.Context, id, role string) error
}
