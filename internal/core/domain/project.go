package domain

import (
	"errors"
	"time"
)

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrInvalidAssignees = errors.New("some user ids are invalid")
	ErrEmptyUpdate      = errors.New("no data provided to update")
)

// Project is a unit of work created by an Admin and visible to its assignees.
// CreatedBy is immutable after creation.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by"`
	AssignedTo  []string  `json:"assigned_to"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsAssigned reports whether the user id appears in AssignedTo.
func (p *Project) IsAssigned(userID string) bool {
	for _, id := range p.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}
