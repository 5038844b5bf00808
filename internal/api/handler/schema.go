package handler

import "github.com/teamtrack/project-management/internal/core/ports"

// messageResponse is the envelope for every success message and error body.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Users ---

// userResponse is the outward shape of a user. The password hash has no
// field here at all.
type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type updateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type updateUserResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type assignRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// --- Projects ---

type createProjectRequest struct {
	Name        string   `json:"name"        validate:"required"`
	Description string   `json:"description" validate:"required"`
	AssignedTo  []string `json:"assigned_to"`
}

// updateProjectRequest uses pointers so "field absent" and "field empty"
// stay distinguishable.
type updateProjectRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	AssignedTo  *[]string `json:"assigned_to"`
}

type projectResponse struct {
	Message string               `json:"message,omitempty"`
	Project *ports.ProjectDetail `json:"project"`
}

type projectListResponse struct {
	Projects []*ports.ProjectDetail `json:"projects"`
}
