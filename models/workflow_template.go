package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// TaskBlueprint is one step of a workflow template. DaysBefore is the offset
// in days before the workflow's final due date at which the step is due.
type TaskBlueprint struct {
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description" json:"description"`
	Users       []primitive.ObjectID `bson:"users" json:"users"`
	DaysBefore  int                  `bson:"daysBefore" json:"daysBefore"`
}

// WorkflowTemplate is a reusable, team-scoped blueprint for workflows.
type WorkflowTemplate struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	TeamID      primitive.ObjectID `bson:"teamId" json:"teamId"`
	CreatorID   primitive.ObjectID `bson:"creatorId" json:"creatorId"`
	Data        []TaskBlueprint    `bson:"data" json:"data"`
}
