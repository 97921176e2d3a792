package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"taskflow/internal/config"
	"taskflow/internal/httpx"
)

// UserStore is the persistence surface the service needs. *UserRepository
// satisfies it; tests substitute an in-memory fake.
type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByResetToken(ctx context.Context, token string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Approve(ctx context.Context, id primitive.ObjectID) (*User, error)
	FindPending(ctx context.Context) ([]*User, error)
	FindApproved(ctx context.Context) ([]*User, error)
	FindApprovedEmployees(ctx context.Context) ([]*User, error)
}

// TaskPurger removes all tasks assigned to a user. Declared here so the auth
// package does not import the task package; task.Repository satisfies it.
type TaskPurger interface {
	DeleteByAssignee(ctx context.Context, userID primitive.ObjectID) error
}

type UserService struct {
	users  UserStore
	tasks  TaskPurger
	mailer config.Mailer
	cfg    *config.Config
	log    *zap.Logger
}

func NewUserService(users UserStore, tasks TaskPurger, mailer config.Mailer, cfg *config.Config, log *zap.Logger) *UserService {
	return &UserService{users: users, tasks: tasks, mailer: mailer, cfg: cfg, log: log}
}

// RegisterUser creates an account. A matching admin secret token yields an
// approved admin; a wrong one aborts before anything is persisted; no token
// yields a pending account awaiting approval. The returned bool reports
// whether the new user is approved (and should be logged in immediately).
func (s *UserService) RegisterUser(ctx context.Context, req RegisterRequest) (*User, bool, error) {
	role := RolePending
	approved := false
	if req.SecretToken != "" {
		if s.cfg.AdminSecretToken == "" || req.SecretToken != s.cfg.AdminSecretToken {
			return nil, false, httpx.Authentication("Invalid secret token for Admin registration.")
		}
		role = RoleAdmin
		approved = true
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if existing, err := s.users.FindByUsername(ctx, req.Username); err != nil {
		return nil, false, httpx.Internal(err)
	} else if existing != nil {
		return nil, false, httpx.Conflict("Username or Email already exists.")
	}
	if existing, err := s.users.FindByEmail(ctx, email); err != nil {
		return nil, false, httpx.Internal(err)
	} else if existing != nil {
		return nil, false, httpx.Conflict("Username or Email already exists.")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, false, httpx.Internal(err)
	}

	user := &User{
		ID:           primitive.NewObjectID(),
		Username:     strings.TrimSpace(req.Username),
		Email:        email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         role,
		IsApproved:   approved,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if httpx.IsKind(err, httpx.KindConflict) {
			return nil, false, err
		}
		return nil, false, httpx.Internal(err)
	}
	return user, approved, nil
}

// AuthenticateUser checks credentials and the approval gate. Unknown user and
// wrong password are indistinguishable; an unapproved account is reported
// separately so the client can show the waiting-for-approval message.
func (s *UserService) AuthenticateUser(ctx context.Context, cred Credential) (*User, error) {
	user, err := s.users.FindByUsername(ctx, cred.Username)
	if err != nil {
		return nil, httpx.Internal(err)
	}
	if user == nil || !CheckPasswordHash(cred.Password, user.PasswordHash) {
		return nil, httpx.Authentication("Invalid Credentials.")
	}
	if !user.IsApproved {
		return nil, httpx.Authorization("Account not yet approved. Please wait for authorization.")
	}
	return user, nil
}

// ForgotPassword never reveals whether the email exists. When it does, a
// one-hour reset token is stored and the link emailed; a mail failure is
// logged and still answered with the generic message.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return httpx.Internal(err)
	}
	if user == nil {
		return nil
	}

	token, err := GenerateResetToken()
	if err != nil {
		return httpx.Internal(err)
	}
	user.ResetPasswordToken = token
	user.ResetPasswordExpires = time.Now().Add(time.Hour)
	if err := s.users.Update(ctx, user); err != nil {
		return httpx.Internal(err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.FrontendURL, token)
	body := fmt.Sprintf("Please click on the following link, or paste this into your browser to complete the process:\n\n%s\n", resetURL)
	if err := s.mailer.SendEmail(user.Email, "TaskFlow Password Reset", body); err != nil {
		s.log.Error("failed to send password reset email", zap.String("email", user.Email), zap.Error(err))
	}
	return nil
}

func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 6 {
		return httpx.Validation("New password must be at least 6 characters long.")
	}
	user, err := s.users.FindByResetToken(ctx, token)
	if err != nil {
		return httpx.Internal(err)
	}
	if user == nil {
		return httpx.Validation("Password reset token is invalid or has expired.")
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return httpx.Internal(err)
	}
	user.PasswordHash = hash
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = time.Time{}
	if err := s.users.Update(ctx, user); err != nil {
		return httpx.Internal(err)
	}
	return nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, httpx.NotFound("User not found.")
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, httpx.Internal(err)
	}
	if user == nil {
		return nil, httpx.NotFound("User not found.")
	}
	return user, nil
}

// UpdateInfo lets a caller change their own name and email.
func (s *UserService) UpdateInfo(ctx context.Context, userID string, req UpdateInfoRequest) (*User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if err := s.users.Update(ctx, user); err != nil {
		if httpx.IsKind(err, httpx.KindConflict) {
			return nil, err
		}
		return nil, httpx.Internal(err)
	}
	return user, nil
}

func (s *UserService) PendingUsers(ctx context.Context) ([]*User, error) {
	users, err := s.users.FindPending(ctx)
	if err != nil {
		return nil, httpx.Internal(err)
	}
	return users, nil
}

func (s *UserService) ApprovedUsers(ctx context.Context) ([]*User, error) {
	users, err := s.users.FindApproved(ctx)
	if err != nil {
		return nil, httpx.Internal(err)
	}
	return users, nil
}

func (s *UserService) ApprovedEmployees(ctx context.Context) ([]*User, error) {
	users, err := s.users.FindApprovedEmployees(ctx)
	if err != nil {
		return nil, httpx.Internal(err)
	}
	return users, nil
}

// ApproveUser promotes a pending account. The only role an admin may grant
// through approval is "employee".
func (s *UserService) ApproveUser(ctx context.Context, userID, newRole string) (*User, error) {
	if newRole != string(RoleEmployee) {
		return nil, httpx.Authorization(`Admin can only approve users as "employee".`)
	}
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, httpx.NotFound("User not found.")
	}
	user, err := s.users.Approve(ctx, id)
	if err != nil {
		if httpx.IsKind(err, httpx.KindNotFound) {
			return nil, err
		}
		return nil, httpx.Internal(err)
	}
	return user, nil
}

// UpdateUser is the admin-side edit of another account: name, email, role
// (admin or employee only) and password reset.
func (s *UserService) UpdateUser(ctx context.Context, userID string, req UpdateUserRequest) (*User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if req.NewRole == string(RoleAdmin) || req.NewRole == string(RoleEmployee) {
		user.Role = Role(req.NewRole)
	}
	if req.NewPassword != "" {
		hash, err := HashPassword(req.NewPassword)
		if err != nil {
			return nil, httpx.Internal(err)
		}
		user.PasswordHash = hash
	}
	if err := s.users.Update(ctx, user); err != nil {
		if httpx.IsKind(err, httpx.KindConflict) || httpx.IsKind(err, httpx.KindNotFound) {
			return nil, err
		}
		return nil, httpx.Internal(err)
	}
	return user, nil
}

// DeleteUser removes an account and then purges every task assigned to it.
// The two writes are deliberately separate steps so a failure between them
// stays visible in the logs.
func (s *UserService) DeleteUser(ctx context.Context, callerID, userID string) error {
	if callerID == userID {
		return httpx.Validation("Cannot delete own Admin account.")
	}
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return httpx.NotFound("User not found.")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if httpx.IsKind(err, httpx.KindNotFound) {
			return err
		}
		return httpx.Internal(err)
	}
	if err := s.tasks.DeleteByAssignee(ctx, id); err != nil {
		s.log.Error("failed to purge tasks for deleted user", zap.String("userId", userID), zap.Error(err))
		return httpx.Internal(err)
	}
	return nil
}
