package ports

import (
	"context"

	"github.com/teamtrack/project-management/internal/core/domain"
)

// ProjectRepository defines the persistence contract for projects.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	FindAll(ctx context.Context) ([]*domain.Project, error)
	FindByAssignee(ctx context.Context, userID string) ([]*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id string) error
}
