package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is an admin-facing activity record created when an employee
// acts on a task. SenderName is a snapshot, not a live user reference, so the
// record survives employee deletion.
type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Recipient  primitive.ObjectID `bson:"recipient" json:"recipient"`
	SenderName string             `bson:"sender_name" json:"senderName"`
	Message    string             `bson:"message" json:"message"`
	Task       primitive.ObjectID `bson:"task" json:"task"`
	Read       bool               `bson:"read" json:"read"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
