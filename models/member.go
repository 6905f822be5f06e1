package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Member is the denormalized user snapshot embedded in tasks and team listings.
type Member struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Name     string             `bson:"name" json:"name"`
	LastName string             `bson:"lastName" json:"lastName"`
	Username string             `bson:"username" json:"username"`
}
