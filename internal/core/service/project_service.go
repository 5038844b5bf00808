package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/teamtrack/project-management/internal/core/domain"
	"github.com/teamtrack/project-management/internal/core/ports"
)

// ProjectService implements project CRUD with role-scoped visibility.
type ProjectService struct {
	projects ports.ProjectRepository
	users    ports.UserRepository
	log      zerolog.Logger
}

func NewProjectService(projects ports.ProjectRepository, users ports.UserRepository, log zerolog.Logger) *ProjectService {
	return &ProjectService{projects: projects, users: users, log: log}
}

// Create stores a new project. Every assignee id must reference an existing
// user; CreatedBy is taken from the acting admin and never changes again.
func (s *ProjectService) Create(ctx context.Context, in ports.CreateProjectInput) (*ports.ProjectDetail, error) {
	if err := s.validateAssignees(ctx, in.AssignedTo); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	project := &domain.Project{
		Name:        in.Name,
		Description: in.Description,
		CreatedBy:   in.CreatedBy,
		AssignedTo:  in.AssignedTo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if project.AssignedTo == nil {
		project.AssignedTo = []string{}
	}

	created, err := s.projects.Create(ctx, project)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create project")
		return nil, err
	}

	s.log.Info().Str("project_id", created.ID).Str("created_by", created.CreatedBy).Msg("project created")
	return s.expand(ctx, created)
}

// List returns all projects for Admins and only assigned projects otherwise.
func (s *ProjectService) List(ctx context.Context, actor *domain.User) ([]*ports.ProjectDetail, error) {
	var (
		projects []*domain.Project
		err      error
	)
	if actor.Role == domain.RoleAdmin {
		projects, err = s.projects.FindAll(ctx)
	} else {
		projects, err = s.projects.FindByAssignee(ctx, actor.ID)
	}
	if err != nil {
		return nil, err
	}

	details := make([]*ports.ProjectDetail, 0, len(projects))
	for _, p := range projects {
		detail, err := s.expand(ctx, p)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

// Get returns a single project. Non-admin actors must be assigned to it.
func (s *ProjectService) Get(ctx context.Context, id string, actor *domain.User) (*ports.ProjectDetail, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && !project.IsAssigned(actor.ID) {
		return nil, domain.ErrForbidden
	}
	return s.expand(ctx, project)
}

// Update applies the provided fields. CreatedBy is never touched.
func (s *ProjectService) Update(ctx context.Context, in ports.UpdateProjectInput) (*ports.ProjectDetail, error) {
	if in.Name == nil && in.Description == nil && in.AssignedTo == nil {
		return nil, domain.ErrEmptyUpdate
	}

	project, err := s.projects.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.AssignedTo != nil {
		if err := s.validateAssignees(ctx, *in.AssignedTo); err != nil {
			return nil, err
		}
		project.AssignedTo = *in.AssignedTo
	}
	if in.Name != nil {
		project.Name = *in.Name
	}
	if in.Description != nil {
		project.Description = *in.Description
	}
	project.UpdatedAt = time.Now().UTC()

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	s.log.Info().Str("project_id", project.ID).Msg("project updated")
	return s.expand(ctx, project)
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("project_id", id).Msg("project deleted")
	return nil
}

// validateAssignees fails unless every id references an existing user.
func (s *ProjectService) validateAssignees(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(users) != len(uniqueIDs(ids)) {
		return domain.ErrInvalidAssignees
	}
	return nil
}

// expand resolves the project's user ids into {id, username} references.
// Users deleted after assignment are silently omitted.
func (s *ProjectService) expand(ctx context.Context, p *domain.Project) (*ports.ProjectDetail, error) {
	ids := append([]string{p.CreatedBy}, p.AssignedTo...)
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	detail := &ports.ProjectDetail{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedBy:   ports.UserRef{ID: p.CreatedBy},
		AssignedTo:  make([]ports.UserRef, 0, len(p.AssignedTo)),
		CreatedAt:   p.CreatedAt,
	}
	if creator, ok := byID[p.CreatedBy]; ok {
		detail.CreatedBy.Username = creator.Username
	}
	for _, id := range p.AssignedTo {
		if u, ok := byID[id]; ok {
			detail.AssignedTo = append(detail.AssignedTo, ports.UserRef{ID: id, Username: u.Username})
		}
	}
	return detail, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
