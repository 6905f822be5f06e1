package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"wurkflow-project/backend/logging"
	"wurkflow-project/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WorkflowService manages the lifecycle of workflow instances: chain
// creation, sequential unlock on completion, cascading deletion and the
// capture/instantiation of templates.
type WorkflowService struct {
	Client              *mongo.Client
	WorkflowsCollection *mongo.Collection
	TasksCollection     *mongo.Collection
	TemplatesCollection *mongo.Collection
	TeamsCollection     *mongo.Collection
	UsersCollection     *mongo.Collection
	Notifier            *NotificationService
}

func NewWorkflowService(client *mongo.Client, db *mongo.Database, notifier *NotificationService) *WorkflowService {
	return &WorkflowService{
		Client:              client,
		WorkflowsCollection: db.Collection("workflows"),
		TasksCollection:     db.Collection("tasks"),
		TemplatesCollection: db.Collection("workflow_templates"),
		TeamsCollection:     db.Collection("teams"),
		UsersCollection:     db.Collection("users"),
		Notifier:            notifier,
	}
}

// buildTaskChain materializes the ordered task documents for a new workflow.
// Task ids are generated up front so every document can carry a forward link
// to its successor in a single pass; only the first step starts unhidden.
func buildTaskChain(workflow models.Workflow, finalDue time.Time, blueprints []models.TaskBlueprint, members map[primitive.ObjectID]models.Member) []models.Task {
	ids := make([]primitive.ObjectID, len(blueprints))
	for i := range ids {
		ids[i] = primitive.NewObjectID()
	}

	workflowID := workflow.ID
	tasks := make([]models.Task, len(blueprints))
	for i, blueprint := range blueprints {
		task := models.Task{
			ID:          ids[i],
			Name:        blueprint.Name,
			Description: blueprint.Description,
			TeamID:      workflow.TeamID,
			CreatorID:   workflow.CreatorID,
			Due:         finalDue.AddDate(0, 0, -blueprint.DaysBefore),
			Completed:   false,
			Hidden:      i != 0,
			WorkflowID:  &workflowID,
			Order:       i + 1,
		}
		if i+1 < len(ids) {
			next := ids[i+1]
			task.NextTask = &next
		}
		for _, userID := range blueprint.Users {
			if member, ok := members[userID]; ok {
				task.Users = append(task.Users, member)
			}
		}
		tasks[i] = task
	}

	return tasks
}

// validateBlueprints enforces the chain ordering constraint: daysBefore
// offsets are non-negative and strictly decreasing, so every step is due
// strictly closer to the final due date than the one before it.
func validateBlueprints(blueprints []models.TaskBlueprint) error {
	if len(blueprints) == 0 {
		return fmt.Errorf("workflow must contain at least one task")
	}
	for i, blueprint := range blueprints {
		if blueprint.DaysBefore < 0 {
			return fmt.Errorf("task %d: daysBefore must not be negative", i+1)
		}
		if i > 0 && blueprint.DaysBefore >= blueprints[i-1].DaysBefore {
			return fmt.Errorf("task %d: daysBefore offsets must be strictly decreasing", i+1)
		}
	}
	return nil
}

// CreateWorkflow creates the workflow document and its full task chain in a
// single transaction, so a partially-created chain is never observable.
func (s *WorkflowService) CreateWorkflow(ctx context.Context, name, description string, teamID, creatorID primitive.ObjectID, finalDue time.Time, blueprints []models.TaskBlueprint) (*models.Workflow, []models.Task, error) {
	if err := validateBlueprints(blueprints); err != nil {
		return nil, nil, err
	}

	var team models.Team
	if err := s.TeamsCollection.FindOne(ctx, bson.M{"_id": teamID}).Decode(&team); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil, fmt.Errorf("team not found")
		}
		return nil, nil, fmt.Errorf("failed to fetch team: %v", err)
	}

	var userIDs []primitive.ObjectID
	seen := make(map[primitive.ObjectID]bool)
	for _, blueprint := range blueprints {
		for _, userID := range blueprint.Users {
			if !seen[userID] {
				seen[userID] = true
				userIDs = append(userIDs, userID)
			}
		}
	}
	members, err := resolveMembers(ctx, s.UsersCollection, userIDs)
	if err != nil {
		return nil, nil, err
	}

	workflow := models.Workflow{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: description,
		TeamID:      teamID,
		CreatorID:   creatorID,
		FinalDue:    finalDue,
		CurrentTask: 1,
		Length:      len(blueprints),
	}
	tasks := buildTaskChain(workflow, finalDue, blueprints, members)

	session, err := s.Client.StartSession()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start session: %v", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := s.WorkflowsCollection.InsertOne(sc, workflow); err != nil {
			return nil, err
		}
		docs := make([]interface{}, len(tasks))
		for i := range tasks {
			docs[i] = tasks[i]
		}
		if _, err := s.TasksCollection.InsertMany(sc, docs); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create workflow: %v", err)
	}

	logging.Logger.Infof("Event ID: WORKFLOW_CREATED, Description: Workflow %s created with %d tasks for team %s", workflow.ID.Hex(), len(tasks), teamID.Hex())

	if s.Notifier != nil {
		s.Notifier.NotifyMembers(tasks[0].Users, fmt.Sprintf("You have been assigned the task '%s' in workflow '%s'", tasks[0].Name, workflow.Name))
	}

	return &workflow, tasks, nil
}

// validateCompletion rejects completion attempts that would break the chain:
// a completed task is terminal and a hidden task is not yet actionable.
func validateCompletion(task models.Task) error {
	if task.Completed {
		return fmt.Errorf("task is already completed")
	}
	if task.Hidden {
		return fmt.Errorf("task is not unlocked yet")
	}
	return nil
}

// chainAdvance describes the side effects completing a task has on its chain:
// which task to unhide and which workflow's counter moves forward by one.
// Free-standing tasks advance nothing.
type chainAdvance struct {
	UnhideTask      *primitive.ObjectID
	AdvanceWorkflow *primitive.ObjectID
}

func completionAdvance(task models.Task) chainAdvance {
	if task.WorkflowID == nil {
		return chainAdvance{}
	}
	return chainAdvance{
		UnhideTask:      task.NextTask,
		AdvanceWorkflow: task.WorkflowID,
	}
}

// CompleteTask marks a task completed. For workflow steps it also unhides the
// next step and advances the parent workflow's counter, all in one
// transaction. The updated task is returned so callers can refresh their view
// synchronously.
func (s *WorkflowService) CompleteTask(ctx context.Context, taskID primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	if err := s.TasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("task not found")
		}
		return nil, fmt.Errorf("failed to fetch task: %v", err)
	}

	if err := validateCompletion(task); err != nil {
		return nil, err
	}

	session, err := s.Client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %v", err)
	}
	defer session.EndSession(ctx)

	advance := completionAdvance(task)
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := s.TasksCollection.UpdateOne(sc, bson.M{"_id": task.ID}, bson.M{"$set": bson.M{"completed": true}}); err != nil {
			return nil, err
		}
		if advance.UnhideTask != nil {
			if _, err := s.TasksCollection.UpdateOne(sc, bson.M{"_id": *advance.UnhideTask}, bson.M{"$set": bson.M{"hidden": false}}); err != nil {
				return nil, err
			}
		}
		if advance.AdvanceWorkflow != nil {
			if _, err := s.WorkflowsCollection.UpdateOne(sc, bson.M{"_id": *advance.AdvanceWorkflow}, bson.M{"$inc": bson.M{"currentTask": 1}}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to complete task: %v", err)
	}
	task.Completed = true

	logging.Logger.Infof("Event ID: TASK_COMPLETED, Description: Task %s completed", task.ID.Hex())

	if s.Notifier != nil {
		s.Notifier.NotifyMembers(task.Users, fmt.Sprintf("Task '%s' has been completed", task.Name))
		if task.NextTask != nil {
			var next models.Task
			if err := s.TasksCollection.FindOne(ctx, bson.M{"_id": *task.NextTask}).Decode(&next); err == nil {
				s.Notifier.NotifyMembers(next.Users, fmt.Sprintf("Task '%s' is now unlocked", next.Name))
			}
		}
	}

	return &task, nil
}

// workflowTasksFilter matches every task document belonging to the given
// workflow; it is the filter both the cascade delete and the chain listing
// run on.
func workflowTasksFilter(workflowID primitive.ObjectID) bson.M {
	return bson.M{"workflowId": workflowID}
}

// DeleteWorkflow removes the workflow's tasks and then the workflow document
// itself, sequenced inside one transaction so no orphaned task can ever
// reference a deleted workflow.
func (s *WorkflowService) DeleteWorkflow(ctx context.Context, workflowID primitive.ObjectID) error {
	var workflow models.Workflow
	if err := s.WorkflowsCollection.FindOne(ctx, bson.M{"_id": workflowID}).Decode(&workflow); err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf("workflow not found")
		}
		return fmt.Errorf("failed to fetch workflow: %v", err)
	}

	session, err := s.Client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %v", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := s.TasksCollection.DeleteMany(sc, workflowTasksFilter(workflowID)); err != nil {
			return nil, err
		}
		if _, err := s.WorkflowsCollection.DeleteOne(sc, bson.M{"_id": workflowID}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete workflow: %v", err)
	}

	logging.Logger.Infof("Event ID: WORKFLOW_DELETED, Description: Workflow %s and its tasks deleted", workflowID.Hex())
	return nil
}

// GetWorkflow returns the workflow and its tasks ordered by chain position.
func (s *WorkflowService) GetWorkflow(ctx context.Context, workflowID primitive.ObjectID) (*models.Workflow, []models.Task, error) {
	var workflow models.Workflow
	if err := s.WorkflowsCollection.FindOne(ctx, bson.M{"_id": workflowID}).Decode(&workflow); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil, fmt.Errorf("workflow not found")
		}
		return nil, nil, fmt.Errorf("failed to fetch workflow: %v", err)
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := s.TasksCollection.Find(ctx, workflowTasksFilter(workflowID), findOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch workflow tasks: %v", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, nil, fmt.Errorf("failed to decode workflow tasks: %v", err)
	}

	return &workflow, tasks, nil
}

// templateDataFromTasks converts a workflow's task list into reusable
// blueprint data: due dates are stripped and re-expressed as day offsets from
// the workflow's final due date, and denormalized assignees become plain user
// refs. The offsets are computed against the stored finalDue, not the last
// task's due date, so chains whose final step carries a nonzero offset
// capture losslessly.
func templateDataFromTasks(finalDue time.Time, tasks []models.Task) []models.TaskBlueprint {
	ordered := make([]models.Task, len(tasks))
	copy(ordered, tasks)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	data := make([]models.TaskBlueprint, len(ordered))
	for i, task := range ordered {
		blueprint := models.TaskBlueprint{
			Name:        task.Name,
			Description: task.Description,
			DaysBefore:  int(finalDue.Sub(task.Due) / (24 * time.Hour)),
		}
		for _, member := range task.Users {
			blueprint.Users = append(blueprint.Users, member.ID)
		}
		data[i] = blueprint
	}

	return data
}

// CreateWorkflowTemplate captures a workflow's task list as a reusable
// template under the team scope. finalDue is the source workflow's final due
// date that the day offsets count back from. The template name is prefixed
// with the owning team's name.
func (s *WorkflowService) CreateWorkflowTemplate(ctx context.Context, name, description string, teamID, creatorID primitive.ObjectID, finalDue time.Time, tasks []models.Task) (*models.WorkflowTemplate, error) {
	if len(tasks) == 0 {
		return nil, fmt.Errorf("template must contain at least one task")
	}

	var team models.Team
	if err := s.TeamsCollection.FindOne(ctx, bson.M{"_id": teamID}).Decode(&team); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("team not found")
		}
		return nil, fmt.Errorf("failed to fetch team: %v", err)
	}

	template := models.WorkflowTemplate{
		ID:          primitive.NewObjectID(),
		Name:        fmt.Sprintf("%s: %s", team.Name, name),
		Description: description,
		TeamID:      teamID,
		CreatorID:   creatorID,
		Data:        templateDataFromTasks(finalDue, tasks),
	}

	if _, err := s.TemplatesCollection.InsertOne(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to create workflow template: %v", err)
	}

	logging.Logger.Infof("Event ID: TEMPLATE_CREATED, Description: Workflow template %s created for team %s", template.ID.Hex(), teamID.Hex())
	return &template, nil
}

// templateBaseName strips the owning team's display prefix added at capture,
// so re-capturing an instantiated workflow never stacks prefixes.
func templateBaseName(templateName, teamName string) string {
	return strings.TrimPrefix(templateName, teamName+": ")
}

// InstantiateTemplate creates a new workflow from a stored template.
func (s *WorkflowService) InstantiateTemplate(ctx context.Context, templateID, creatorID primitive.ObjectID, finalDue time.Time) (*models.Workflow, []models.Task, error) {
	var template models.WorkflowTemplate
	if err := s.TemplatesCollection.FindOne(ctx, bson.M{"_id": templateID}).Decode(&template); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil, fmt.Errorf("workflow template not found")
		}
		return nil, nil, fmt.Errorf("failed to fetch workflow template: %v", err)
	}

	name := template.Name
	var team models.Team
	if err := s.TeamsCollection.FindOne(ctx, bson.M{"_id": template.TeamID}).Decode(&team); err == nil {
		name = templateBaseName(name, team.Name)
	}

	return s.CreateWorkflow(ctx, name, template.Description, template.TeamID, creatorID, finalDue, template.Data)
}

// GetTemplatesForTeam lists a team's workflow templates sorted by name.
func (s *WorkflowService) GetTemplatesForTeam(ctx context.Context, teamID primitive.ObjectID) ([]models.WorkflowTemplate, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.TemplatesCollection.Find(ctx, bson.M{"teamId": teamID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workflow templates: %v", err)
	}
	defer cursor.Close(ctx)

	var templates []models.WorkflowTemplate
	if err = cursor.All(ctx, &templates); err != nil {
		return nil, fmt.Errorf("failed to decode workflow templates: %v", err)
	}

	return templates, nil
}
