package task

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"taskflow/internal/auth"
	"taskflow/internal/httpx"
)

type fakeStore struct {
	tasks map[primitive.ObjectID]*Task
}

func newFakeStore() *fakeStore {
	return &fakeStore{tasks: make(map[primitive.ObjectID]*Task)}
}

func (f *fakeStore) Create(_ context.Context, t *Task) error {
	cp := *t
	f.tasks[t.ID] = &cp
	return nil
}

func (f *fakeStore) FindAll(_ context.Context) ([]*Task, error) {
	var out []*Task
	for _, t := range f.tasks {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStore) FindByAssignee(_ context.Context, userID primitive.ObjectID) ([]*Task, error) {
	var out []*Task
	for _, t := range f.tasks {
		if t.AssignedTo == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStore) FindOwned(_ context.Context, taskID, userID primitive.ObjectID) (*Task, error) {
	t, ok := f.tasks[taskID]
	if !ok || t.AssignedTo != userID {
		return nil, httpx.NotFound("Task not found or not assigned to you.")
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) UpdateStatusOwned(_ context.Context, taskID, userID primitive.ObjectID, status Status) (*Task, error) {
	t, ok := f.tasks[taskID]
	if !ok || t.AssignedTo != userID {
		return nil, httpx.NotFound("Task not found or not assigned to you.")
	}
	t.Status = status
	cp := *t
	return &cp, nil
}

func (f *fakeStore) Delete(_ context.Context, taskID primitive.ObjectID) error {
	if _, ok := f.tasks[taskID]; !ok {
		return httpx.NotFound("Task not found.")
	}
	delete(f.tasks, taskID)
	return nil
}

func (f *fakeStore) DeleteByAssignee(_ context.Context, userID primitive.ObjectID) error {
	for id, t := range f.tasks {
		if t.AssignedTo == userID {
			delete(f.tasks, id)
		}
	}
	return nil
}

func (f *fakeStore) FindUnread(_ context.Context, userID primitive.ObjectID) ([]*Task, error) {
	var out []*Task
	for _, t := range f.tasks {
		if t.AssignedTo == userID && !t.Read {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkRead(_ context.Context, userID primitive.ObjectID) error {
	for _, t := range f.tasks {
		if t.AssignedTo == userID {
			t.Read = true
		}
	}
	return nil
}

type fakeDirectory struct {
	users map[primitive.ObjectID]*auth.User
}

func (f *fakeDirectory) FindByID(_ context.Context, id primitive.ObjectID) (*auth.User, error) {
	return f.users[id], nil
}

func (f *fakeDirectory) FindApprovedEmployees(_ context.Context) ([]*auth.User, error) {
	var out []*auth.User
	for _, u := range f.users {
		if u.Role == auth.RoleEmployee && u.IsApproved {
			out = append(out, u)
		}
	}
	return out, nil
}

type recordedNotification struct {
	recipient  primitive.ObjectID
	senderName string
	message    string
	taskID     primitive.ObjectID
}

type fakeRecorder struct {
	records []recordedNotification
	fail    bool
}

func (f *fakeRecorder) Record(_ context.Context, recipient primitive.ObjectID, senderName, message string, taskID primitive.ObjectID) error {
	if f.fail {
		return errors.New("insert failed")
	}
	f.records = append(f.records, recordedNotification{recipient, senderName, message, taskID})
	return nil
}

func newTestService() (*Service, *fakeStore, *fakeDirectory, *fakeRecorder) {
	store := newFakeStore()
	dir := &fakeDirectory{users: make(map[primitive.ObjectID]*auth.User)}
	rec := &fakeRecorder{}
	return NewService(store, dir, rec, zap.NewNop()), store, dir, rec
}

func seedTask(store *fakeStore, assignee, admin primitive.ObjectID, status Status) *Task {
	t := &Task{
		ID:             primitive.NewObjectID(),
		Title:          "Write report",
		Description:    "Quarterly numbers",
		AssignedTo:     assignee,
		Status:         status,
		AdminCreatedBy: admin,
	}
	store.tasks[t.ID] = t
	return t
}

func TestCreateTask(t *testing.T) {
	svc, store, _, _ := newTestService()
	adminID := primitive.NewObjectID()
	employeeID := primitive.NewObjectID()

	created, err := svc.CreateTask(context.Background(), adminID.Hex(), CreateTaskRequest{
		Title:       "Write report",
		Description: "Quarterly numbers",
		Deadline:    "2025-01-01",
		AssignedTo:  employeeID.Hex(),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, created.Status)
	assert.Equal(t, adminID, created.AdminCreatedBy)
	assert.Equal(t, employeeID, created.AssignedTo)
	assert.False(t, created.Read)
	assert.Len(t, store.tasks, 1)
}

func TestCreateTaskBadInput(t *testing.T) {
	svc, _, _, _ := newTestService()
	adminID := primitive.NewObjectID().Hex()
	employeeID := primitive.NewObjectID().Hex()

	_, err := svc.CreateTask(context.Background(), adminID, CreateTaskRequest{
		Title: "x", Description: "y", Deadline: "not-a-date", AssignedTo: employeeID,
	})
	assert.True(t, httpx.IsKind(err, httpx.KindValidation))

	_, err = svc.CreateTask(context.Background(), adminID, CreateTaskRequest{
		Title: "x", Description: "y", Deadline: "2025-01-01", AssignedTo: "garbage",
	})
	assert.True(t, httpx.IsKind(err, httpx.KindValidation))
}

func TestApplyActionLifecycle(t *testing.T) {
	svc, store, _, rec := newTestService()
	employee := primitive.NewObjectID()
	admin := primitive.NewObjectID()
	task := seedTask(store, employee, admin, StatusPending)

	updated, err := svc.ApplyAction(context.Background(), task.ID.Hex(), employee.Hex(), "Eve", "accept")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, updated.Status)

	updated, err = svc.ApplyAction(context.Background(), task.ID.Hex(), employee.Hex(), "Eve", "complete")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, updated.Status)

	require.Len(t, rec.records, 2)
	assert.Equal(t, admin, rec.records[0].recipient)
	assert.Equal(t, `Eve has acceptd task: "Write report". New status: Accepted.`, rec.records[0].message)
	assert.Equal(t, `Eve has completd task: "Write report". New status: Completed.`, rec.records[1].message)
	assert.Equal(t, task.ID, rec.records[1].taskID)
}

func TestApplyActionInvalidAction(t *testing.T) {
	svc, store, _, rec := newTestService()
	employee := primitive.NewObjectID()
	task := seedTask(store, employee, primitive.NewObjectID(), StatusPending)

	_, err := svc.ApplyAction(context.Background(), task.ID.Hex(), employee.Hex(), "Eve", "escalate")
	assert.True(t, httpx.IsKind(err, httpx.KindValidation))
	assert.Empty(t, rec.records)
}

func TestApplyActionNotOwned(t *testing.T) {
	svc, store, _, _ := newTestService()
	owner := primitive.NewObjectID()
	intruder := primitive.NewObjectID()
	task := seedTask(store, owner, primitive.NewObjectID(), StatusPending)

	_, err := svc.ApplyAction(context.Background(), task.ID.Hex(), intruder.Hex(), "Mallory", "accept")
	assert.True(t, httpx.IsKind(err, httpx.KindNotFound))
	assert.Equal(t, StatusPending, store.tasks[task.ID].Status)
}

func TestApplyActionTerminalStateRejected(t *testing.T) {
	svc, store, _, rec := newTestService()
	employee := primitive.NewObjectID()
	task := seedTask(store, employee, primitive.NewObjectID(), StatusPending)

	_, err := svc.ApplyAction(context.Background(), task.ID.Hex(), employee.Hex(), "Eve", "reject")
	require.NoError(t, err)

	// A rejected task is terminal; further actions fail and leave it alone.
	for _, action := range []string{"accept", "reject", "complete"} {
		_, err := svc.ApplyAction(context.Background(), task.ID.Hex(), employee.Hex(), "Eve", action)
		assert.True(t, httpx.IsKind(err, httpx.KindInvalidTransition), "action %q", action)
	}
	assert.Equal(t, StatusRejected, store.tasks[task.ID].Status)
	assert.Len(t, rec.records, 1)
}

func TestApplyActionCompleteRequiresAccepted(t *testing.T) {
	svc, store, _, _ := newTestService()
	employee := primitive.NewObjectID()
	task := seedTask(store, employee, primitive.NewObjectID(), StatusPending)

	_, err := svc.ApplyAction(context.Background(), task.ID.Hex(), employee.Hex(), "Eve", "complete")
	assert.True(t, httpx.IsKind(err, httpx.KindInvalidTransition))
	assert.Equal(t, StatusPending, store.tasks[task.ID].Status)
}

func TestApplyActionNotificationFailureIsIsolated(t *testing.T) {
	svc, store, _, rec := newTestService()
	rec.fail = true
	employee := primitive.NewObjectID()
	task := seedTask(store, employee, primitive.NewObjectID(), StatusPending)

	updated, err := svc.ApplyAction(context.Background(), task.ID.Hex(), employee.Hex(), "Eve", "accept")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, updated.Status)
	assert.Equal(t, StatusAccepted, store.tasks[task.ID].Status)
}

func TestUnreadTasksAndMarkRead(t *testing.T) {
	svc, store, _, _ := newTestService()
	employee := primitive.NewObjectID()
	seedTask(store, employee, primitive.NewObjectID(), StatusPending)
	seedTask(store, employee, primitive.NewObjectID(), StatusPending)
	seedTask(store, primitive.NewObjectID(), primitive.NewObjectID(), StatusPending)

	unread, err := svc.UnreadTasks(context.Background(), employee.Hex())
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	require.NoError(t, svc.MarkTasksRead(context.Background(), employee.Hex()))

	unread, err = svc.UnreadTasks(context.Background(), employee.Hex())
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestAdminDashboardJoinsAssignees(t *testing.T) {
	svc, store, dir, _ := newTestService()
	employee := primitive.NewObjectID()
	dir.users[employee] = &auth.User{ID: employee, Name: "Eve", Username: "eve", Role: auth.RoleEmployee, IsApproved: true}
	seedTask(store, employee, primitive.NewObjectID(), StatusPending)

	views, employees, err := svc.AdminDashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].Assignee)
	assert.Equal(t, "Eve", views[0].Assignee.Name)
	assert.Len(t, employees, 1)
}

func TestDeleteTask(t *testing.T) {
	svc, store, _, _ := newTestService()
	task := seedTask(store, primitive.NewObjectID(), primitive.NewObjectID(), StatusPending)

	require.NoError(t, svc.DeleteTask(context.Background(), task.ID.Hex()))
	assert.Empty(t, store.tasks)

	err := svc.DeleteTask(context.Background(), primitive.NewObjectID().Hex())
	assert.True(t, httpx.IsKind(err, httpx.KindNotFound))
}

func TestStatusValuesAreClosed(t *testing.T) {
	// Every reachable status comes from the action map or the initial state.
	seen := map[Status]bool{StatusPending: true}
	for _, s := range actionTargets {
		seen[s] = true
	}
	assert.Equal(t, map[Status]bool{
		StatusPending:   true,
		StatusAccepted:  true,
		StatusRejected:  true,
		StatusCompleted: true,
	}, seen)
}

func TestCanTransitionTable(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCompleted, false},
		{StatusAccepted, StatusCompleted, true},
		{StatusAccepted, StatusRejected, false},
		{StatusAccepted, StatusAccepted, false},
		{StatusRejected, StatusAccepted, false},
		{StatusRejected, StatusCompleted, false},
		{StatusCompleted, StatusAccepted, false},
		{StatusCompleted, StatusCompleted, false},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s->%s", tc.from, tc.to), func(t *testing.T) {
			assert.Equal(t, tc.ok, canTransition(tc.from, tc.to))
		})
	}
}
