package dto

import (
	"time"

	"github.com/marfund-ai-apps/vacations/internal/domain/identity"
)

// AssertionRequest is the body posted by the identity proxy after it has
// authenticated a user.
type AssertionRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Subject   string `json:"subject" binding:"required"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url" binding:"omitempty,url"`
}

// SessionResponse is returned after a successful login
type SessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse renders a directory user
type UserResponse struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	FullName         string    `json:"full_name"`
	EmployeeNumber   string    `json:"employee_number,omitempty"`
	Position         string    `json:"position,omitempty"`
	AvatarURL        string    `json:"avatar_url,omitempty"`
	Role             string    `json:"role"`
	ManagerID        *string   `json:"manager_id,omitempty"`
	BaseVacationDays int       `json:"base_vacation_days"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// FromUser maps a directory user to its wire representation
func FromUser(u *identity.User) UserResponse {
	resp := UserResponse{
		ID:               u.ID.String(),
		Email:            u.Email,
		FullName:         u.FullName,
		EmployeeNumber:   u.EmployeeNumber,
		Position:         u.Position,
		AvatarURL:        u.AvatarURL,
		Role:             string(u.Role),
		BaseVacationDays: u.BaseVacationDays,
		IsActive:         u.IsActive,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
	if u.ManagerID != nil {
		id := u.ManagerID.String()
		resp.ManagerID = &id
	}
	return resp
}

// FromUsers maps a list of directory users
func FromUsers(users []*identity.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i, u := range users {
		responses[i] = FromUser(u)
	}
	return responses
}

// CreateUserRequest is the body for provisioning a user
type CreateUserRequest struct {
	Email            string  `json:"email" binding:"required,email"`
	FullName         string  `json:"full_name" binding:"required,max=200"`
	EmployeeNumber   string  `json:"employee_number" binding:"max=50"`
	Position         string  `json:"position" binding:"max=100"`
	Role             string  `json:"role" binding:"omitempty,oneof=employee manager hr_admin super_admin"`
	ManagerID        *string `json:"manager_id" binding:"omitempty,uuid"`
	BaseVacationDays *int    `json:"base_vacation_days" binding:"omitempty,min=0"`
}

// UpdateUserRequest is the body for editing a user. Omitted fields keep
// their current values; clear_manager removes the manager assignment.
type UpdateUserRequest struct {
	FullName         *string `json:"full_name" binding:"omitempty,max=200"`
	EmployeeNumber   *string `json:"employee_number" binding:"omitempty,max=50"`
	Position         *string `json:"position" binding:"omitempty,max=100"`
	Role             *string `json:"role" binding:"omitempty,oneof=employee manager hr_admin super_admin"`
	ManagerID        *string `json:"manager_id" binding:"omitempty,uuid"`
	ClearManager     bool    `json:"clear_manager"`
	BaseVacationDays *int    `json:"base_vacation_days" binding:"omitempty,min=0"`
}
