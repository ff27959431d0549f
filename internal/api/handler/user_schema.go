package handler

import (
	"time"

	"github.com/parnasoft/blog-platform/internal/core/domain"
	"github.com/parnasoft/blog-platform/internal/core/ports"
)

type createUserRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"     validate:"required"`
	UserType string `json:"userType" validate:"required,oneof=internal admin super_admin"`
	IsActive *bool  `json:"isActive"`
}

func (r createUserRequest) toInput() ports.CreateUserInput {
	return ports.CreateUserInput{
		Email:    r.Email,
		Password: r.Password,
		Name:     r.Name,
		Role:     domain.Role(r.UserType),
		IsActive: r.IsActive,
	}
}

// updateUserRequest is a partial update: absent fields keep their stored
// values, an empty password means unchanged.
type updateUserRequest struct {
	Email    string `json:"email"    validate:"omitempty,email"`
	Name     string `json:"name"`
	UserType string `json:"userType" validate:"omitempty,oneof=internal admin super_admin"`
	IsActive *bool  `json:"isActive"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

func (r updateUserRequest) toInput() ports.UpdateUserInput {
	return ports.UpdateUserInput{
		Email:    r.Email,
		Name:     r.Name,
		Role:     domain.Role(r.UserType),
		IsActive: r.IsActive,
		Password: r.Password,
	}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=8"`
}

type userResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	UserType    string     `json:"userType"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

func toUserResponse(u *domain.User) userResponse {
	resp := userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		UserType:  string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if !u.LastLoginAt.IsZero() {
		t := u.LastLoginAt
		resp.LastLoginAt = &t
	}
	return resp
}

type userListResponse struct {
	Success bool           `json:"success"`
	Users   []userResponse `json:"users"`
}

type userEnvelope struct {
	Success bool         `json:"success"`
	User    userResponse `json:"user"`
}

type userStatsResponse struct {
	Total        int64            `json:"total"`
	Active       int64            `json:"active"`
	Inactive     int64            `json:"inactive"`
	ByType       map[string]int64 `json:"byType"`
	RecentLogins int64            `json:"recentLogins"`
}

func toUserStatsResponse(s *ports.UserStats) userStatsResponse {
	byType := make(map[string]int64, len(s.ByRole))
	for role, n := range s.ByRole {
		byType[string(role)] = n
	}
	return userStatsResponse{
		Total:        s.Total,
		Active:       s.Active,
		Inactive:     s.Inactive,
		ByType:       byType,
		RecentLogins: s.RecentLogins,
	}
}
