package models

import "github.com/pigeonworks-llc/campus-budget/pkg/budget"

// LoginRequest represents the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest represents the body of POST /api/auth/signup.
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by login and signup.
type AuthResponse struct {
	User  budget.User `json:"user"`
	Token string      `json:"token"`
}

// SuccessResponse acknowledges logout and delete calls.
type SuccessResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
}
