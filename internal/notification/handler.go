package notification

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskflow/internal/auth"
	"taskflow/internal/httpx"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c echo.Context) error {
	claims, err := auth.Caller(c)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	notifications, err := h.service.List(c.Request().Context(), claims.UserID)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"notifications": notifications})
}

func (h *Handler) MarkAllRead(c echo.Context) error {
	claims, err := auth.Caller(c)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	if err := h.service.MarkAllRead(c.Request().Context(), claims.UserID); err != nil {
		return httpx.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Notifications marked as read."})
}

func (h *Handler) Delete(c echo.Context) error {
	claims, err := auth.Caller(c)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	if err := h.service.Delete(c.Request().Context(), claims.UserID, c.Param("notificationId")); err != nil {
		return httpx.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Notification deleted."})
}

func (h *Handler) DeleteAll(c echo.Context) error {
	claims, err := auth.Caller(c)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	if err := h.service.DeleteAll(c.Request().Context(), claims.UserID); err != nil {
		return httpx.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "All notifications cleared."})
}
