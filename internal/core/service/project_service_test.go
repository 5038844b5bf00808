package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/teamtrack/project-management/internal/core/domain"
	"github.com/teamtrack/project-management/internal/core/ports"
)

type projectFixture struct {
	svc      *ProjectService
	users    *stubUserRepo
	projects *stubProjectRepo
	admin    *domain.User
	employee *domain.User
}

func newProjectFixture(t *testing.T) *projectFixture {
	t.Helper()
	users := newStubUserRepo()
	projects := newStubProjectRepo()
	return &projectFixture{
		svc:      NewProjectService(projects, users, zerolog.Nop()),
		users:    users,
		projects: projects,
		admin:    seedUser(t, users, "admin", domain.RoleAdmin),
		employee: seedUser(t, users, "worker", domain.RoleEmployee),
	}
}

func TestProjectService_Create(t *testing.T) {
	f := newProjectFixture(t)

	detail, err := f.svc.Create(context.Background(), ports.CreateProjectInput{
		Name:        "Rollout",
		Description: "Q3 rollout",
		AssignedTo:  []string{f.employee.ID},
		CreatedBy:   f.admin.ID,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if detail.CreatedBy.ID != f.admin.ID || detail.CreatedBy.Username != "admin" {
		t.Fatalf("unexpected creator: %+v", detail.CreatedBy)
	}
	if len(detail.AssignedTo) != 1 || detail.AssignedTo[0].Username != "worker" {
		t.Fatalf("unexpected assignees: %+v", detail.AssignedTo)
	}
}

func TestProjectService_Create_InvalidAssignees(t *testing.T) {
	f := newProjectFixture(t)

	_, err := f.svc.Create(context.Background(), ports.CreateProjectInput{
		Name:        "Rollout",
		Description: "Q3 rollout",
		AssignedTo:  []string{f.employee.ID, "no-such-user"},
		CreatedBy:   f.admin.ID,
	})
	if !errors.Is(err, domain.ErrInvalidAssignees) {
		t.Fatalf("expected ErrInvalidAssignees, got %v", err)
	}
}

func TestProjectService_List_Scoping(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	mustCreate := func(name string, assignees []string) {
		t.Helper()
		if _, err := f.svc.Create(ctx, ports.CreateProjectInput{
			Name: name, Description: "d", AssignedTo: assignees, CreatedBy: f.admin.ID,
		}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	mustCreate("mine", []string{f.employee.ID})
	mustCreate("not-mine", nil)

	adminView, err := f.svc.List(ctx, f.admin)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(adminView) != 2 {
		t.Fatalf("admin should see all projects, got %d", len(adminView))
	}

	employeeView, err := f.svc.List(ctx, f.employee)
	if err != nil {
		t.Fatalf("employee list: %v", err)
	}
	if len(employeeView) != 1 || employeeView[0].Name != "mine" {
		t.Fatalf("employee should see only assigned projects, got %+v", employeeView)
	}
}

func TestProjectService_Get_ForbiddenWhenUnassigned(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, ports.CreateProjectInput{
		Name: "private", Description: "d", CreatedBy: f.admin.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.svc.Get(ctx, created.ID, f.employee); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.Get(ctx, created.ID, f.admin); err != nil {
		t.Fatalf("admin access should succeed: %v", err)
	}
}

func TestProjectService_Get_NotFound(t *testing.T) {
	f := newProjectFixture(t)
	if _, err := f.svc.Get(context.Background(), "missing", f.admin); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestProjectService_Update_EmptyInput(t *testing.T) {
	f := newProjectFixture(t)
	_, err := f.svc.Update(context.Background(), ports.UpdateProjectInput{ID: "whatever"})
	if !errors.Is(err, domain.ErrEmptyUpdate) {
		t.Fatalf("expected ErrEmptyUpdate, got %v", err)
	}
}

func TestProjectService_Update_CreatorImmutable(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, ports.CreateProjectInput{
		Name: "p", Description: "d", CreatedBy: f.admin.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "renamed"
	assignees := []string{f.employee.ID}
	updated, err := f.svc.Update(ctx, ports.UpdateProjectInput{
		ID: created.ID, Name: &name, AssignedTo: &assignees,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "renamed" {
		t.Fatalf("name not applied: %s", updated.Name)
	}
	if updated.Description != "d" {
		t.Fatalf("description should be untouched: %s", updated.Description)
	}
	if updated.CreatedBy.ID != f.admin.ID {
		t.Fatalf("createdBy must never change, got %s", updated.CreatedBy.ID)
	}
}

func TestProjectService_Update_InvalidAssignees(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, ports.CreateProjectInput{
		Name: "p", Description: "d", CreatedBy: f.admin.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	bad := []string{"ghost"}
	if _, err := f.svc.Update(ctx, ports.UpdateProjectInput{ID: created.ID, AssignedTo: &bad}); !errors.Is(err, domain.ErrInvalidAssignees) {
		t.Fatalf("expected ErrInvalidAssignees, got %v", err)
	}
}

func TestProjectService_Delete(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, ports.CreateProjectInput{
		Name: "p", Description: "d", CreatedBy: f.admin.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.svc.Delete(ctx, created.ID); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}
