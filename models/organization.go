package models

// Organization uses a human-chosen slug as its document id.
type Organization struct {
	ID   string `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name"`
}
