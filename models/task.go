package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task is a unit of work, either free-standing or a step inside a workflow.
// Workflow steps carry the chain fields: order is the 1-based position in the
// chain, nextTask points at the step that unlocks when this one completes,
// and hidden steps are not yet actionable.
type Task struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Description string              `bson:"description" json:"description"`
	TeamID      primitive.ObjectID  `bson:"teamId" json:"teamId"`
	Users       []Member            `bson:"users" json:"users"`
	CreatorID   primitive.ObjectID  `bson:"creatorId" json:"creatorId"`
	Due         time.Time           `bson:"due" json:"due"`
	Completed   bool                `bson:"completed" json:"completed"`
	Hidden      bool                `bson:"hidden" json:"hidden"`
	WorkflowID  *primitive.ObjectID `bson:"workflowId,omitempty" json:"workflowId,omitempty"`
	Order       int                 `bson:"order,omitempty" json:"order,omitempty"`
	NextTask    *primitive.ObjectID `bson:"nextTask,omitempty" json:"nextTask,omitempty"`
}
