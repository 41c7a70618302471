package dto

import "invently_backend/internal/models"

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Photo    string `json:"photo,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned on register and login. The token also
// travels as an httpOnly cookie; the body copy serves non-browser
// clients.
type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	Password    string `json:"password" binding:"required,min=6"`
}

// UserDTO is the outward-facing projection of a user record. There is
// deliberately no password field to map.
type UserDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`
	Phone string `json:"phone"`
	Bio   string `json:"bio"`
	Role  string `json:"role"`
}

func NewUserDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Photo: user.Photo,
		Phone: user.Phone,
		Bio:   user.Bio,
		Role:  user.Role,
	}
}
