package User

import (
	"strings"

	"github.com/kigongo-vincent/invai-backend/internal/model"
)

type UserRole string

const (
	Admin    UserRole = "Admin"
	Manager  UserRole = "Manager"
	Employee UserRole = "Employee"
)

var validRoles = []UserRole{Admin, Manager, Employee}

func (r UserRole) Valid() bool {
	for _, v := range validRoles {
		if r == v {
			return true
		}
	}
	return false
}

type UserModel struct {
	model.Base
	Username   string   `json:"username" gorm:"uniqueIndex;not null"`
	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	Email      string   `json:"email" gorm:"uniqueIndex;not null"`
	Password   string   `json:"-" gorm:"not null"`
	Role       UserRole `json:"role" gorm:"not null;default:Employee;index"`
	Phone      *string  `json:"phone"`
	ProfilePic *string  `json:"profile_pic"`
}

// FullName falls back to the username when no name parts are set.
func (u *UserModel) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	User    UserModel `json:"user"`
	Message string    `json:"message"`
	Token   string    `json:"token"`
}

type CreateUserRequest struct {
	Username   string   `json:"username" binding:"required"`
	Email      string   `json:"email" binding:"required,email"`
	Password   string   `json:"password" binding:"required,min=6"`
	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	Role       UserRole `json:"role"`
	Phone      *string  `json:"phone"`
	ProfilePic *string  `json:"profile_pic"`
}

type UpdateUserRequest struct {
	Username   *string   `json:"username"`
	Email      *string   `json:"email" binding:"omitempty,email"`
	Password   *string   `json:"password" binding:"omitempty,min=6"`
	FirstName  *string   `json:"first_name"`
	LastName   *string   `json:"last_name"`
	Role       *UserRole `json:"role"`
	Phone      *string   `json:"phone"`
	ProfilePic *string   `json:"profile_pic"`
}

// UpdateProfileRequest is the self-service subset of UpdateUserRequest.
// ProfilePic accepts an http(s) URL or a base64 data URI.
type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Phone      *string `json:"phone"`
	ProfilePic *string `json:"profile_pic"`
}
