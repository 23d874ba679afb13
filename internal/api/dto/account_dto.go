package dto

import (
	"time"

	"github.com/craftelio/storefront/internal/domain"
)

// RegisterRequest payload for self-service registration.
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	Name            string `json:"name" validate:"required"`
	PhoneNumber     string `json:"phone_number"`
	StreetAddress   string `json:"street_address"`
	City            string `json:"city"`
	State           string `json:"state"`
	PostalCode      string `json:"postal_code"`
	Role            string `json:"role"`
	CompanyID       *int64 `json:"company_id"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID            string   `json:"id"`
	UserName      string   `json:"user_name"`
	Email         string   `json:"email"`
	Name          string   `json:"name"`
	PhoneNumber   string   `json:"phone_number,omitempty"`
	StreetAddress string   `json:"street_address,omitempty"`
	City          string   `json:"city,omitempty"`
	State         string   `json:"state,omitempty"`
	PostalCode    string   `json:"postal_code,omitempty"`
	CompanyID     *int64   `json:"company_id,omitempty"`
	Roles         []string `json:"roles,omitempty"`
}

// NewUserResponse maps a user and its roles.
func NewUserResponse(u *domain.User, roles []string) UserResponse {
	return UserResponse{
		ID:            u.ID,
		UserName:      u.UserName,
		Email:         u.Email,
		Name:          u.Name,
		PhoneNumber:   u.PhoneNumber,
		StreetAddress: u.StreetAddress,
		City:          u.City,
		State:         u.State,
		PostalCode:    u.PostalCode,
		CompanyID:     u.CompanyID,
		Roles:         roles,
	}
}
