package task

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusAccepted  Status = "Accepted"
	StatusRejected  Status = "Rejected"
	StatusCompleted Status = "Completed"
)

// actionTargets maps an employee action to the status it produces.
var actionTargets = map[string]Status{
	"accept":   StatusAccepted,
	"reject":   StatusRejected,
	"complete": StatusCompleted,
}

// legalEdges is the task lifecycle: Pending may be accepted or rejected,
// Accepted may be completed, Rejected and Completed are terminal.
var legalEdges = map[Status][]Status{
	StatusPending:  {StatusAccepted, StatusRejected},
	StatusAccepted: {StatusCompleted},
}

// canTransition reports whether from→to is a legal lifecycle edge.
func canTransition(from, to Status) bool {
	for _, next := range legalEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Task struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title"`
	Description    string             `bson:"description" json:"description"`
	Deadline       time.Time          `bson:"deadline" json:"deadline"`
	AssignedTo     primitive.ObjectID `bson:"assigned_to" json:"assignedTo"`
	Status         Status             `bson:"status" json:"status"`
	AdminCreatedBy primitive.ObjectID `bson:"admin_created_by" json:"adminCreatedBy"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
	Read           bool               `bson:"read" json:"read"`
}

type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Deadline    string `json:"deadline" validate:"required"`
	AssignedTo  string `json:"assignedTo" validate:"required"`
}

type UpdateTaskRequest struct {
	Action string `json:"action" validate:"required"`
}

// Assignee is the subset of user fields shown on the admin dashboard.
type Assignee struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// TaskView is a task joined with its assignee for the admin dashboard.
type TaskView struct {
	Task
	Assignee *Assignee `json:"assignee,omitempty"`
}
