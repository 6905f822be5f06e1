package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name               string               `bson:"name" json:"name"`
	LastName           string               `bson:"lastName" json:"lastName"`
	Username           string               `bson:"username" json:"username"`
	Password           string               `bson:"password" json:"-"`
	Email              string               `bson:"email" json:"email"`
	Role               string               `bson:"role" json:"role"`
	IsActive           bool                 `bson:"isActive" json:"isActive"`
	VerificationCode   string               `bson:"verificationCode" json:"-"`
	VerificationExpiry time.Time            `bson:"verificationExpiry" json:"-"`
	CurrentOrg         string               `bson:"currentOrg,omitempty" json:"currentOrg,omitempty"`
	Orgs               []string             `bson:"orgs" json:"orgs"`
	Teams              []primitive.ObjectID `bson:"teams" json:"teams"`
}
