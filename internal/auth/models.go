package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RolePending  Role = "pending"
)

type User struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username             string             `bson:"username" json:"username"`
	Email                string             `bson:"email" json:"email"`
	PasswordHash         string             `bson:"password" json:"-"`
	Name                 string             `bson:"name" json:"name"`
	Role                 Role               `bson:"role" json:"role"`
	IsApproved           bool               `bson:"is_approved" json:"isApproved"`
	ResetPasswordToken   string             `bson:"reset_password_token,omitempty" json:"-"`
	ResetPasswordExpires time.Time          `bson:"reset_password_expires,omitempty" json:"-"`
}

type RegisterRequest struct {
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Name        string `json:"name" validate:"required"`
	SecretToken string `json:"secretToken"`
}

type Credential struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type ApproveRequest struct {
	NewRole string `json:"newRole"`
}

type UpdateUserRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	NewRole     string `json:"newRole"`
	NewPassword string `json:"newPassword"`
}

type UpdateInfoRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SessionUser is the identity snapshot returned by login and check-auth.
type SessionUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}
