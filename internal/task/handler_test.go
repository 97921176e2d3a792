package task

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskflow/internal/auth"
	"taskflow/internal/httpx"
)

func newTestHandler() (*Handler, *fakeStore, *fakeRecorder, *echo.Echo) {
	svc, store, _, rec := newTestService()
	e := echo.New()
	e.Validator = httpx.NewRequestValidator()
	return NewHandler(svc), store, rec, e
}

func employeeContext(e *echo.Echo, method, path, body string, claims *auth.SessionClaims) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", claims)
	return c, rec
}

func TestUpdateTaskStatusEndpoint(t *testing.T) {
	h, store, recorder, e := newTestHandler()
	employee := primitive.NewObjectID()
	admin := primitive.NewObjectID()
	task := seedTask(store, employee, admin, StatusPending)
	claims := &auth.SessionClaims{UserID: employee.Hex(), Name: "Eve", Role: auth.RoleEmployee}

	c, rec := employeeContext(e, http.MethodPost, "/api/employee/tasks/"+task.ID.Hex()+"/update", `{"action":"accept"}`, claims)
	c.SetParamNames("taskId")
	c.SetParamValues(task.ID.Hex())
	require.NoError(t, h.UpdateTaskStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Task status updated to Accepted")
	assert.Len(t, recorder.records, 1)

	// Unknown action is a 400.
	c, rec = employeeContext(e, http.MethodPost, "/api/employee/tasks/"+task.ID.Hex()+"/update", `{"action":"escalate"}`, claims)
	c.SetParamNames("taskId")
	c.SetParamValues(task.ID.Hex())
	require.NoError(t, h.UpdateTaskStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Someone else's task reads as missing.
	other := &auth.SessionClaims{UserID: primitive.NewObjectID().Hex(), Name: "Mallory", Role: auth.RoleEmployee}
	c, rec = employeeContext(e, http.MethodPost, "/api/employee/tasks/"+task.ID.Hex()+"/update", `{"action":"complete"}`, other)
	c.SetParamNames("taskId")
	c.SetParamValues(task.ID.Hex())
	require.NoError(t, h.UpdateTaskStatus(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTaskEndpoint(t *testing.T) {
	h, store, _, e := newTestHandler()
	admin := &auth.SessionClaims{UserID: primitive.NewObjectID().Hex(), Name: "Root", Role: auth.RoleAdmin}

	c, rec := employeeContext(e, http.MethodPost, "/api/admin/tasks", `{"title":"Write report"}`, admin)
	require.NoError(t, h.CreateTask(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "All task fields are required.")
	assert.Empty(t, store.tasks)

	assignee := primitive.NewObjectID().Hex()
	c, rec = employeeContext(e, http.MethodPost, "/api/admin/tasks",
		`{"title":"Write report","description":"Quarterly numbers","deadline":"2025-01-01","assignedTo":"`+assignee+`"}`, admin)
	require.NoError(t, h.CreateTask(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, store.tasks, 1)
}

func TestEmployeeDashboardEndpoint(t *testing.T) {
	h, store, _, e := newTestHandler()
	employee := primitive.NewObjectID()
	seedTask(store, employee, primitive.NewObjectID(), StatusPending)
	claims := &auth.SessionClaims{UserID: employee.Hex(), Name: "Eve", Role: auth.RoleEmployee}

	c, rec := employeeContext(e, http.MethodGet, "/api/employee/dashboard", "", claims)
	require.NoError(t, h.EmployeeDashboard(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"employeeName":"Eve"`)
	assert.Contains(t, rec.Body.String(), "Write report")
}
