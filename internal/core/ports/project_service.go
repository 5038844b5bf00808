package ports

import (
	"context"
	"time"

	"github.com/teamtrack/project-management/internal/core/domain"
)

// UserRef is a user reference expanded for project payloads.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ProjectDetail is a project with its user references resolved to usernames.
type ProjectDetail struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   UserRef   `json:"created_by"`
	AssignedTo  []UserRef `json:"assigned_to"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateProjectInput struct {
	Name        string
	Description string
	AssignedTo  []string
	CreatedBy   string
}

// UpdateProjectInput uses nil to mean "leave unchanged". CreatedBy is never
// part of an update.
type UpdateProjectInput struct {
	ID          string
	Name        *string
	Description *string
	AssignedTo  *[]string
}

type ProjectService interface {
	Create(ctx context.Context, in CreateProjectInput) (*ProjectDetail, error)
	// List returns every project for Admins and only assigned projects for
	// other roles.
	List(ctx context.Context, actor *domain.User) ([]*ProjectDetail, error)
	// Get enforces assignment for non-admin actors.
	Get(ctx context.Context, id string, actor *domain.User) (*ProjectDetail, error)
	Update(ctx context.Context, in UpdateProjectInput) (*ProjectDetail, error)
	Delete(ctx context.Context, id string) error
}
