package dto

import (
	"time"

	"github.com/Caqil/iprofit-admin-sub008/internal/core/domain"
)

// CreateUserRequest is the payload for creating an admin-panel user.
type CreateUserRequest struct {
	LoginName string `json:"loginName" binding:"required,min=3"`
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role" binding:"required,oneof=SUPER_ADMIN ADMIN VIEWER"`
}

// UserResponse is the API representation of a user; it never carries credential material.
type UserResponse struct {
	UserID    string    `json:"userID"`
	LoginName string    `json:"loginName"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListUsersResponse is a page of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToUserResponse converts a domain user to its API representation.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:    user.UserID,
		LoginName: user.LoginName,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserResponses converts a slice of users.
func ToUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out
}
