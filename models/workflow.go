package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workflow is one running chain of ordered tasks. CurrentTask is the order of
// the step that is unlocked right now; it only ever moves forward. FinalDue
// is the chain's end date that every step's daysBefore offset counts back
// from.
type Workflow struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	TeamID      primitive.ObjectID `bson:"teamId" json:"teamId"`
	CreatorID   primitive.ObjectID `bson:"creatorId" json:"creatorId"`
	FinalDue    time.Time          `bson:"finalDue" json:"finalDue"`
	CurrentTask int                `bson:"currentTask" json:"currentTask"`
	Length      int                `bson:"length" json:"length"`
}

// Finished reports whether every step of the chain has been completed.
func (w Workflow) Finished() bool {
	return w.CurrentTask > w.Length
}
