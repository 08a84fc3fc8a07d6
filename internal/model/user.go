package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account that owns short links
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Mobile       string    `json:"mobile"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SignupRequest represents the request body for account creation
type SignupRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Mobile          string `json:"mobile" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and basic user identity
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserIdentity `json:"user"`
}

// UserIdentity is the subset of User returned on login
type UserIdentity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// ModifyUserRequest represents a partial profile update.
// Nil fields are left unchanged.
type ModifyUserRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Mobile *string `json:"mobile"`
}

// ModifyUserResponse reports the updated profile and which
// identity-relevant fields changed.
type ModifyUserResponse struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Mobile       string `json:"mobile"`
	EmailChanged bool   `json:"emailChanged"`
	NameChanged  bool   `json:"nameChanged"`
}

// GreetingResponse carries the time-of-day greeting shown on the dashboard
type GreetingResponse struct {
	Greeting  string `json:"greeting"`
	FirstName string `json:"firstName"`
	Initials  string `json:"initials"`
}
