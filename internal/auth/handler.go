package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"taskflow/internal/config"
	"taskflow/internal/httpx"
)

type AuthHandler struct {
	service *UserService
	cfg     *config.Config
	log     *zap.Logger
}

func NewAuthHandler(service *UserService, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{service: service, cfg: cfg, log: log}
}

// Caller extracts the session claims placed in the context by the session
// middleware.
func Caller(c echo.Context) (*SessionClaims, error) {
	claims, ok := c.Get("user").(*SessionClaims)
	if !ok || claims == nil {
		return nil, httpx.Authentication("Unauthorized: Please log in.")
	}
	return claims, nil
}

func (h *AuthHandler) establishSession(c echo.Context, user *User) error {
	token, err := GenerateSessionToken([]byte(h.cfg.SessionSecret), user.ID.Hex(), user.Name, user.Role)
	if err != nil {
		return err
	}
	SetSessionCookie(c, token, h.cfg.Production())
	return nil
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "All required fields are missing."})
	}

	user, approved, err := h.service.RegisterUser(c.Request().Context(), req)
	if err != nil {
		return httpx.WriteError(c, err)
	}

	if approved {
		if err := h.establishSession(c, user); err != nil {
			h.log.Error("failed to establish session after registration", zap.Error(err))
			return httpx.WriteError(c, httpx.Internal(err))
		}
		return c.JSON(http.StatusCreated, map[string]interface{}{
			"message": "Admin account created and logged in.",
			"user":    SessionUser{ID: user.ID.Hex(), Name: user.Name, Role: user.Role},
		})
	}
	return c.JSON(http.StatusAccepted, map[string]string{
		"message": "Registration successful. Your account is pending Admin approval.",
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var cred Credential
	if err := c.Bind(&cred); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&cred); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	user, err := h.service.AuthenticateUser(c.Request().Context(), cred)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	if err := h.establishSession(c, user); err != nil {
		h.log.Error("failed to establish session", zap.Error(err))
		return httpx.WriteError(c, httpx.Internal(err))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    SessionUser{ID: user.ID.Hex(), Name: user.Name, Role: user.Role},
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	ClearSessionCookie(c, h.cfg.Production())
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// CheckAuth never fails; it reports whether a valid session cookie is present.
func (h *AuthHandler) CheckAuth(c echo.Context) error {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusOK, map[string]interface{}{"isAuthenticated": false})
	}
	claims, err := ValidateSessionToken([]byte(h.cfg.SessionSecret), cookie.Value)
	if err != nil {
		return c.JSON(http.StatusOK, map[string]interface{}{"isAuthenticated": false})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"isAuthenticated": true,
		"user":            SessionUser{ID: claims.UserID, Name: claims.Name, Role: claims.Role},
	})
}

func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := h.service.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return httpx.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "If the email is registered, a password reset link has been sent.",
	})
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := h.service.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return httpx.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Password has been successfully reset. You can now log in.",
	})
}

// --- Admin user management ---

func (h *AuthHandler) PendingUsers(c echo.Context) error {
	users, err := h.service.PendingUsers(c.Request().Context())
	if err != nil {
		return httpx.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"users": users})
}

func (h *AuthHandler) AllEmployees(c echo.Context) error {
	users, err := h.service.ApprovedUsers(c.Request().Context())
	if err != nil {
		return httpx.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"employees": users})
}

func (h *AuthHandler) ApproveUser(c echo.Context) error {
	var req ApproveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	user, err := h.service.ApproveUser(c.Request().Context(), c.Param("userId"), req.NewRole)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "User " + user.Name + " approved as " + string(user.Role) + ".",
		"user":    user,
	})
}

func (h *AuthHandler) DeleteUser(c echo.Context) error {
	claims, err := Caller(c)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	if err := h.service.DeleteUser(c.Request().Context(), claims.UserID, c.Param("userId")); err != nil {
		return httpx.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Employee deleted and associated tasks cleared successfully!",
	})
}

func (h *AuthHandler) UpdateUser(c echo.Context) error {
	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	user, err := h.service.UpdateUser(c.Request().Context(), c.Param("userId"), req)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Employee profile updated successfully!",
		"user":    user,
	})
}

// --- Employee profile ---

func (h *AuthHandler) Me(c echo.Context) error {
	claims, err := Caller(c)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	user, err := h.service.GetUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"user": user})
}

func (h *AuthHandler) UpdateInfo(c echo.Context) error {
	claims, err := Caller(c)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	var req UpdateInfoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	user, err := h.service.UpdateInfo(c.Request().Context(), claims.UserID, req)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	// Display name may have changed; refresh the session so the badge shows it.
	if err := h.establishSession(c, user); err != nil {
		h.log.Error("failed to refresh session after profile update", zap.Error(err))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully!",
		"user":    user,
	})
}
