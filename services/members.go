package services

import (
	"context"
	"fmt"

	"wurkflow-project/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// resolveMembers loads the denormalized member snapshots for a set of user
// ids. Unknown ids are an error so that tasks never reference ghost users.
func resolveMembers(ctx context.Context, usersCollection *mongo.Collection, userIDs []primitive.ObjectID) (map[primitive.ObjectID]models.Member, error) {
	members := make(map[primitive.ObjectID]models.Member, len(userIDs))
	if len(userIDs) == 0 {
		return members, nil
	}

	cursor, err := usersCollection.Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %v", err)
	}
	defer cursor.Close(ctx)

	var users []models.Member
	if err = cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %v", err)
	}

	for _, user := range users {
		members[user.ID] = user
	}

	for _, id := range userIDs {
		if _, ok := members[id]; !ok {
			return nil, fmt.Errorf("user %s not found", id.Hex())
		}
	}

	return members, nil
}
