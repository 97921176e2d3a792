package task

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"taskflow/internal/auth"
	"taskflow/internal/httpx"
)

// Store is the task persistence surface; *Repository satisfies it.
type Store interface {
	Create(ctx context.Context, t *Task) error
	FindAll(ctx context.Context) ([]*Task, error)
	FindByAssignee(ctx context.Context, userID primitive.ObjectID) ([]*Task, error)
	FindOwned(ctx context.Context, taskID, userID primitive.ObjectID) (*Task, error)
	UpdateStatusOwned(ctx context.Context, taskID, userID primitive.ObjectID, status Status) (*Task, error)
	Delete(ctx context.Context, taskID primitive.ObjectID) error
	DeleteByAssignee(ctx context.Context, userID primitive.ObjectID) error
	FindUnread(ctx context.Context, userID primitive.ObjectID) ([]*Task, error)
	MarkRead(ctx context.Context, userID primitive.ObjectID) error
}

// Directory looks up users for dashboard joins; *auth.UserRepository
// satisfies it.
type Directory interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*auth.User, error)
	FindApprovedEmployees(ctx context.Context) ([]*auth.User, error)
}

// Recorder persists an admin-facing notification. *notification.Service
// satisfies it.
type Recorder interface {
	Record(ctx context.Context, recipient primitive.ObjectID, senderName, message string, taskID primitive.ObjectID) error
}

type Service struct {
	tasks    Store
	users    Directory
	recorder Recorder
	log      *zap.Logger
}

func NewService(tasks Store, users Directory, recorder Recorder, log *zap.Logger) *Service {
	return &Service{tasks: tasks, users: users, recorder: recorder, log: log}
}

// parseDeadline accepts either a full timestamp or a bare date.
func parseDeadline(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// CreateTask stores a new task assigned to a single employee. The assignee id
// is taken as supplied; only its shape is checked.
func (s *Service) CreateTask(ctx context.Context, adminID string, req CreateTaskRequest) (*Task, error) {
	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return nil, httpx.Validation("Invalid deadline date.")
	}
	assignee, err := primitive.ObjectIDFromHex(req.AssignedTo)
	if err != nil {
		return nil, httpx.Validation("Invalid assignee id.")
	}
	creator, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		return nil, httpx.Authentication("Unauthorized: Please log in.")
	}

	t := &Task{
		ID:             primitive.NewObjectID(),
		Title:          req.Title,
		Description:    req.Description,
		Deadline:       deadline,
		AssignedTo:     assignee,
		Status:         StatusPending,
		AdminCreatedBy: creator,
		CreatedAt:      time.Now(),
		Read:           false,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, httpx.Internal(err)
	}
	return t, nil
}

func (s *Service) DeleteTask(ctx context.Context, taskID string) error {
	id, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return httpx.NotFound("Task not found.")
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		if httpx.IsKind(err, httpx.KindNotFound) {
			return err
		}
		return httpx.Internal(err)
	}
	return nil
}

// AdminDashboard returns every task joined with its assignee, plus the
// approved employees available for assignment.
func (s *Service) AdminDashboard(ctx context.Context) ([]*TaskView, []*auth.User, error) {
	tasks, err := s.tasks.FindAll(ctx)
	if err != nil {
		return nil, nil, httpx.Internal(err)
	}

	assignees := make(map[primitive.ObjectID]*Assignee)
	views := make([]*TaskView, 0, len(tasks))
	for _, t := range tasks {
		view := &TaskView{Task: *t}
		if a, ok := assignees[t.AssignedTo]; ok {
			view.Assignee = a
		} else {
			user, err := s.users.FindByID(ctx, t.AssignedTo)
			if err != nil {
				return nil, nil, httpx.Internal(err)
			}
			if user != nil {
				a := &Assignee{ID: user.ID.Hex(), Name: user.Name, Username: user.Username}
				assignees[t.AssignedTo] = a
				view.Assignee = a
			}
		}
		views = append(views, view)
	}

	employees, err := s.users.FindApprovedEmployees(ctx)
	if err != nil {
		return nil, nil, httpx.Internal(err)
	}
	return views, employees, nil
}

func (s *Service) EmployeeDashboard(ctx context.Context, userID string) ([]*Task, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, httpx.Authentication("Unauthorized: Please log in.")
	}
	tasks, err := s.tasks.FindByAssignee(ctx, id)
	if err != nil {
		return nil, httpx.Internal(err)
	}
	return tasks, nil
}

// ApplyAction runs one lifecycle transition on behalf of the assigned
// employee. Ownership is part of the lookup key, so a task assigned to
// someone else is indistinguishable from a missing one. On success exactly
// one notification is recorded for the creating admin; a failed notification
// write is logged and does not undo or fail the transition.
func (s *Service) ApplyAction(ctx context.Context, taskID, callerID, callerName, action string) (*Task, error) {
	target, ok := actionTargets[action]
	if !ok {
		return nil, httpx.Validation("Invalid task action.")
	}
	tID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, httpx.NotFound("Task not found or not assigned to you.")
	}
	cID, err := primitive.ObjectIDFromHex(callerID)
	if err != nil {
		return nil, httpx.Authentication("Unauthorized: Please log in.")
	}

	current, err := s.tasks.FindOwned(ctx, tID, cID)
	if err != nil {
		if httpx.IsKind(err, httpx.KindNotFound) {
			return nil, err
		}
		return nil, httpx.Internal(err)
	}
	if !canTransition(current.Status, target) {
		return nil, httpx.InvalidTransition(fmt.Sprintf("Cannot %s a task in status %s.", action, current.Status))
	}

	updated, err := s.tasks.UpdateStatusOwned(ctx, tID, cID, target)
	if err != nil {
		if httpx.IsKind(err, httpx.KindNotFound) {
			return nil, err
		}
		return nil, httpx.Internal(err)
	}

	message := fmt.Sprintf("%s has %sd task: %q. New status: %s.", callerName, action, updated.Title, updated.Status)
	if err := s.recorder.Record(ctx, updated.AdminCreatedBy, callerName, message, updated.ID); err != nil {
		s.log.Error("failed to record task notification",
			zap.String("taskId", updated.ID.Hex()),
			zap.String("recipient", updated.AdminCreatedBy.Hex()),
			zap.Error(err))
	}
	return updated, nil
}

// UnreadTasks backs the employee-side notification badge.
func (s *Service) UnreadTasks(ctx context.Context, userID string) ([]*Task, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, httpx.Authentication("Unauthorized: Please log in.")
	}
	tasks, err := s.tasks.FindUnread(ctx, id)
	if err != nil {
		return nil, httpx.Internal(err)
	}
	return tasks, nil
}

func (s *Service) MarkTasksRead(ctx context.Context, userID string) error {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return httpx.Authentication("Unauthorized: Please log in.")
	}
	if err := s.tasks.MarkRead(ctx, id); err != nil {
		return httpx.Internal(err)
	}
	return nil
}
