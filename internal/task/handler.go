package task

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

// --- Admin endpoints ---

func (h *Handler) AdminDashboard(c echo.Context) error {
	claims, err := auth.Caller(c)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	tasks, employees, err := h.service.AdminDashboard(c.Request().Context())
	if err != nil {
		return httpx.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"tasks":     tasks,
		"employees": employees,
		"adminName": claims.Name,
	})
}

func (h *Handler) CreateTask(c echo.Context) error {
	claims, err := auth.Caller(c)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "All task fields are required."})
	}
	if _, err := h.service.CreateTask(c.Request().Context(), claims.UserID, req); err != nil {
		return httpx.WriteError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "Task created successfully!"})
}

func (h *Handler) DeleteTask(c echo.Context) error {
	if err := h.service.DeleteTask(c.Request().Context(), c.Param("taskId")); err != nil {
		return httpx.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Task deleted successfully!"})
}

// --- Employee endpoints ---

func (h *Handler) EmployeeDashboard(c echo.Context) error {
	claims, err := auth.Caller(c)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	tasks, err := h.service.EmployeeDashboard(c.Request().Context(), claims.UserID)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"tasks":        tasks,
		"employeeName": claims.Name,
	})
}

func (h *Handler) UpdateTaskStatus(c echo.Context) error {
	claims, err := auth.Caller(c)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	var req UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	updated, err := h.service.ApplyAction(c.Request().Context(), c.Param("taskId"), claims.UserID, claims.Name, req.Action)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Task status updated to " + string(updated.Status),
		"task":    updated,
	})
}

func (h *Handler) UnreadCount(c echo.Context) error {
	claims, err := auth.Caller(c)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	tasks, err := h.service.UnreadTasks(c.Request().Context(), claims.UserID)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"tasks": tasks,
		"count": len(tasks),
	})
}

func (h *Handler) MarkRead(c echo.Context) error {
	claims, err := auth.Caller(c)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	if err := h.service.MarkTasksRead(c.Request().Context(), claims.UserID); err != nil {
		return httpx.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Notifications marked as read."})
}
