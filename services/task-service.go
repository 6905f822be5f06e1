package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"wurkflow-project/backend/logging"
	"wurkflow-project/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TaskService struct {
	TasksCollection *mongo.Collection
	TeamsCollection *mongo.Collection
	UsersCollection *mongo.Collection
	Notifier        *NotificationService
}

func NewTaskService(db *mongo.Database, notifier *NotificationService) *TaskService {
	return &TaskService{
		TasksCollection: db.Collection("tasks"),
		TeamsCollection: db.Collection("teams"),
		UsersCollection: db.Collection("users"),
		Notifier:        notifier,
	}
}

// CreateTask creates a free-standing task. Workflow steps are created through
// the workflow service only.
func (s *TaskService) CreateTask(ctx context.Context, name, description string, teamID, creatorID primitive.ObjectID, due time.Time, userIDs []primitive.ObjectID) (*models.Task, error) {
	if err := s.TeamsCollection.FindOne(ctx, bson.M{"_id": teamID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("team not found")
		}
		return nil, fmt.Errorf("failed to fetch team: %v", err)
	}

	members, err := resolveMembers(ctx, s.UsersCollection, userIDs)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: description,
		TeamID:      teamID,
		CreatorID:   creatorID,
		Due:         due,
		Completed:   false,
		Hidden:      false,
	}
	for _, userID := range userIDs {
		task.Users = append(task.Users, members[userID])
	}

	if _, err := s.TasksCollection.InsertOne(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %v", err)
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created for team %s", task.ID.Hex(), teamID.Hex())

	if s.Notifier != nil {
		s.Notifier.NotifyMembers(task.Users, fmt.Sprintf("You have been assigned the task '%s'", task.Name))
	}

	return task, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, taskID primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	if err := s.TasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("task not found")
		}
		return nil, fmt.Errorf("failed to fetch task: %v", err)
	}
	return &task, nil
}

// GetTasksByTeam lists a team's tasks sorted by due date. Hidden workflow
// steps are excluded unless includeHidden is set.
func (s *TaskService) GetTasksByTeam(ctx context.Context, teamID primitive.ObjectID, includeHidden bool) ([]models.Task, error) {
	filter := bson.M{"teamId": teamID}
	if !includeHidden {
		filter["hidden"] = false
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "due", Value: 1}})
	cursor, err := s.TasksCollection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %v", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %v", err)
	}

	return tasks, nil
}

// GetTasksForTeams fetches each team's tasks concurrently and joins the
// results once all fetches complete. The store gives no ordering guarantee
// across the sibling queries, so the merged result is sorted by due date
// afterwards.
func (s *TaskService) GetTasksForTeams(ctx context.Context, teamIDs []primitive.ObjectID) ([]models.Task, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		tasks    []models.Task
		firstErr error
	)

	for _, teamID := range teamIDs {
		wg.Add(1)
		go func(teamID primitive.ObjectID) {
			defer wg.Done()
			teamTasks, err := s.GetTasksByTeam(ctx, teamID, false)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			tasks = append(tasks, teamTasks...)
		}(teamID)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Due.Before(tasks[j].Due) })
	return tasks, nil
}

// UpdateTask applies task-level edits: rename, redescribe, re-date. Nil
// fields are left untouched.
func (s *TaskService) UpdateTask(ctx context.Context, taskID primitive.ObjectID, name, description *string, due *time.Time) (*models.Task, error) {
	set := bson.M{}
	if name != nil {
		set["name"] = *name
	}
	if description != nil {
		set["description"] = *description
	}
	if due != nil {
		set["due"] = *due
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	result, err := s.TasksCollection.UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %v", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("task not found")
	}

	return s.GetTaskByID(ctx, taskID)
}

// AddUsersToTask assigns users to a task with an atomic set union.
func (s *TaskService) AddUsersToTask(ctx context.Context, taskID primitive.ObjectID, userIDs []primitive.ObjectID) (*models.Task, error) {
	members, err := resolveMembers(ctx, s.UsersCollection, userIDs)
	if err != nil {
		return nil, err
	}

	added := make([]models.Member, 0, len(userIDs))
	for _, userID := range userIDs {
		added = append(added, members[userID])
	}

	update := bson.M{"$addToSet": bson.M{"users": bson.M{"$each": added}}}
	result, err := s.TasksCollection.UpdateOne(ctx, bson.M{"_id": taskID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to add users to task: %v", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("task not found")
	}

	task, err := s.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		s.Notifier.NotifyMembers(added, fmt.Sprintf("You have been assigned the task '%s'", task.Name))
	}

	return task, nil
}

// RemoveUserFromTask unassigns a user with an atomic set removal.
func (s *TaskService) RemoveUserFromTask(ctx context.Context, taskID, userID primitive.ObjectID) error {
	update := bson.M{"$pull": bson.M{"users": bson.M{"_id": userID}}}
	result, err := s.TasksCollection.UpdateOne(ctx, bson.M{"_id": taskID}, update)
	if err != nil {
		return fmt.Errorf("failed to remove user from task: %v", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("task not found")
	}
	if result.ModifiedCount == 0 {
		return fmt.Errorf("user not assigned to task")
	}
	return nil
}

// DeleteTask removes a free-standing task. Workflow steps can only be removed
// by deleting their workflow.
func (s *TaskService) DeleteTask(ctx context.Context, taskID primitive.ObjectID) error {
	task, err := s.GetTaskByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task.WorkflowID != nil {
		return fmt.Errorf("task belongs to a workflow; delete the workflow instead")
	}

	if _, err := s.TasksCollection.DeleteOne(ctx, bson.M{"_id": taskID}); err != nil {
		return fmt.Errorf("failed to delete task: %v", err)
	}

	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted", taskID.Hex())
	return nil
}
