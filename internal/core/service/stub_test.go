package service

import (
	"context"
	"fmt"

	"github.com/teamtrack/project-management/internal/core/domain"
)

// stubUserRepo is an in-memory ports.UserRepository.
type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	seen := make(map[string]struct{}, len(ids))
	found := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if u, ok := r.users[id]; ok {
			found = append(found, cloneUser(u))
		}
	}
	return found, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByRole(_ context.Context, role domain.Role) (*domain.User, error) {
	for _, u := range r.users {
		if u.Role == role {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	all := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, cloneUser(u))
	}
	return all, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// stubProjectRepo is an in-memory ports.ProjectRepository.
type stubProjectRepo struct {
	projects map[string]*domain.Project
	nextID   int
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{projects: make(map[string]*domain.Project)}
}

func cloneProject(p *domain.Project) *domain.Project {
	if p == nil {
		return nil
	}
	clone := *p
	clone.AssignedTo = append([]string(nil), p.AssignedTo...)
	return &clone
}

func (r *stubProjectRepo) Create(_ context.Context, p *domain.Project) (*domain.Project, error) {
	r.nextID++
	created := cloneProject(p)
	created.ID = fmt.Sprintf("project-%d", r.nextID)
	r.projects[created.ID] = cloneProject(created)
	return created, nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	if p, ok := r.projects[id]; ok {
		return cloneProject(p), nil
	}
	return nil, domain.ErrProjectNotFound
}

func (r *stubProjectRepo) FindAll(_ context.Context) ([]*domain.Project, error) {
	all := make([]*domain.Project, 0, len(r.projects))
	for _, p := range r.projects {
		all = append(all, cloneProject(p))
	}
	return all, nil
}

func (r *stubProjectRepo) FindByAssignee(_ context.Context, userID string) ([]*domain.Project, error) {
	assigned := make([]*domain.Project, 0)
	for _, p := range r.projects {
		if p.IsAssigned(userID) {
			assigned = append(assigned, cloneProject(p))
		}
	}
	return assigned, nil
}

func (r *stubProjectRepo) Update(_ context.Context, p *domain.Project) error {
	if _, ok := r.projects[p.ID]; !ok {
		return domain.ErrProjectNotFound
	}
	r.projects[p.ID] = cloneProject(p)
	return nil
}

func (r *stubProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.projects[id]; !ok {
		return domain.ErrProjectNotFound
	}
	delete(r.projects, id)
	return nil
}

// stubGuard is a single-process BootstrapGuard.
type stubGuard struct {
	held     bool
	acquires int
	failWith error
}

func (g *stubGuard) Acquire(_ context.Context) (bool, error) {
	g.acquires++
	if g.failWith != nil {
		return false, g.failWith
	}
	if g.held {
		return false, nil
	}
	g.held = true
	return true, nil
}

func (g *stubGuard) Release(_ context.Context) error {
	g.held = false
	return nil
}
