package services

import (
	"context"
	"fmt"
	"time"

	"wurkflow-project/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CommentService struct {
	CommentsCollection *mongo.Collection
	TasksCollection    *mongo.Collection
}

func NewCommentService(db *mongo.Database) *CommentService {
	return &CommentService{
		CommentsCollection: db.Collection("comments"),
		TasksCollection:    db.Collection("tasks"),
	}
}

// AddComment stores a comment on an existing task, stamped server-side.
func (s *CommentService) AddComment(ctx context.Context, taskID, userID primitive.ObjectID, name, body string) (*models.Comment, error) {
	if err := s.TasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("task not found")
		}
		return nil, fmt.Errorf("failed to fetch task: %v", err)
	}

	comment := &models.Comment{
		ID:        primitive.NewObjectID(),
		TaskID:    taskID,
		UserID:    userID,
		Name:      name,
		Body:      body,
		CreatedAt: time.Now(),
	}

	if _, err := s.CommentsCollection.InsertOne(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %v", err)
	}

	return comment, nil
}

// GetCommentsByTask lists a task's comments oldest first.
func (s *CommentService) GetCommentsByTask(ctx context.Context, taskID primitive.ObjectID) ([]models.Comment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.CommentsCollection.Find(ctx, bson.M{"taskId": taskID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %v", err)
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %v", err)
	}

	return comments, nil
}
