package services

import (
	"testing"
	"time"

	"wurkflow-project/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testWorkflow() models.Workflow {
	return models.Workflow{
		ID:          primitive.NewObjectID(),
		Name:        "Release",
		TeamID:      primitive.NewObjectID(),
		CreatorID:   primitive.NewObjectID(),
		CurrentTask: 1,
	}
}

func TestBuildTaskChainOrderingAndDueDates(t *testing.T) {
	finalDue := time.Date(2026, 9, 30, 12, 0, 0, 0, time.UTC)
	blueprints := []models.TaskBlueprint{
		{Name: "Draft", DaysBefore: 10},
		{Name: "Review", DaysBefore: 5},
		{Name: "Publish", DaysBefore: 0},
	}

	tasks := buildTaskChain(testWorkflow(), finalDue, blueprints, nil)
	require.Len(t, tasks, 3)

	assert.Equal(t, 1, tasks[0].Order)
	assert.Equal(t, 2, tasks[1].Order)
	assert.Equal(t, 3, tasks[2].Order)

	assert.Equal(t, finalDue.AddDate(0, 0, -10), tasks[0].Due)
	assert.Equal(t, finalDue.AddDate(0, 0, -5), tasks[1].Due)
	assert.Equal(t, finalDue, tasks[2].Due)

	assert.False(t, tasks[0].Hidden, "first step must start unlocked")
	assert.True(t, tasks[1].Hidden)
	assert.True(t, tasks[2].Hidden)

	for _, task := range tasks {
		assert.False(t, task.Completed)
	}
}

func TestBuildTaskChainForwardLinks(t *testing.T) {
	workflow := testWorkflow()
	blueprints := make([]models.TaskBlueprint, 5)
	for i := range blueprints {
		blueprints[i] = models.TaskBlueprint{Name: "Step", DaysBefore: len(blueprints) - i - 1}
	}

	tasks := buildTaskChain(workflow, time.Now(), blueprints, nil)
	require.Len(t, tasks, 5)

	for i := 0; i < len(tasks)-1; i++ {
		require.NotNil(t, tasks[i].NextTask, "task %d must link to its successor", i+1)
		assert.Equal(t, tasks[i+1].ID, *tasks[i].NextTask)
	}
	assert.Nil(t, tasks[len(tasks)-1].NextTask, "final step unlocks nothing")

	for _, task := range tasks {
		require.NotNil(t, task.WorkflowID)
		assert.Equal(t, workflow.ID, *task.WorkflowID)
		assert.Equal(t, workflow.TeamID, task.TeamID)
	}
}

func TestBuildTaskChainSingleStep(t *testing.T) {
	tasks := buildTaskChain(testWorkflow(), time.Now(), []models.TaskBlueprint{{Name: "Only", DaysBefore: 0}}, nil)
	require.Len(t, tasks, 1)

	assert.Equal(t, 1, tasks[0].Order)
	assert.False(t, tasks[0].Hidden)
	assert.Nil(t, tasks[0].NextTask)
}

func TestBuildTaskChainAssignees(t *testing.T) {
	alice := models.Member{ID: primitive.NewObjectID(), Name: "Alice", Username: "alice"}
	bob := models.Member{ID: primitive.NewObjectID(), Name: "Bob", Username: "bob"}
	members := map[primitive.ObjectID]models.Member{
		alice.ID: alice,
		bob.ID:   bob,
	}

	blueprints := []models.TaskBlueprint{
		{Name: "Pair", Users: []primitive.ObjectID{alice.ID, bob.ID}, DaysBefore: 1},
		{Name: "Solo", Users: []primitive.ObjectID{bob.ID}, DaysBefore: 0},
	}

	tasks := buildTaskChain(testWorkflow(), time.Now(), blueprints, members)
	require.Len(t, tasks, 2)

	require.Len(t, tasks[0].Users, 2)
	assert.Equal(t, "alice", tasks[0].Users[0].Username)
	assert.Equal(t, "bob", tasks[0].Users[1].Username)

	require.Len(t, tasks[1].Users, 1)
	assert.Equal(t, "bob", tasks[1].Users[0].Username)
}

func TestTemplateDataFromTasks(t *testing.T) {
	finalDue := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	alice := models.Member{ID: primitive.NewObjectID(), Username: "alice"}

	tasks := []models.Task{
		// Deliberately out of order to check the sort.
		{Name: "Ship", Order: 3, Due: finalDue},
		{Name: "Plan", Order: 1, Due: finalDue.AddDate(0, 0, -7), Users: []models.Member{alice}},
		{Name: "Build", Order: 2, Due: finalDue.AddDate(0, 0, -3)},
	}

	data := templateDataFromTasks(finalDue, tasks)
	require.Len(t, data, 3)

	assert.Equal(t, "Plan", data[0].Name)
	assert.Equal(t, "Build", data[1].Name)
	assert.Equal(t, "Ship", data[2].Name)

	assert.Equal(t, 7, data[0].DaysBefore)
	assert.Equal(t, 3, data[1].DaysBefore)
	assert.Equal(t, 0, data[2].DaysBefore)

	require.Len(t, data[0].Users, 1)
	assert.Equal(t, alice.ID, data[0].Users[0])
	assert.Empty(t, data[1].Users)
}

func TestTemplateRoundTrip(t *testing.T) {
	finalDue := time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)
	userID := primitive.NewObjectID()
	members := map[primitive.ObjectID]models.Member{
		userID: {ID: userID, Username: "carol"},
	}

	// The final step does not land on the deadline itself, so offsets
	// relative to anything but the workflow's own finalDue would drift.
	blueprints := []models.TaskBlueprint{
		{Name: "Kickoff", Description: "start", Users: []primitive.ObjectID{userID}, DaysBefore: 10},
		{Name: "Midpoint", Description: "check", DaysBefore: 5},
		{Name: "Wrap", Description: "finish", DaysBefore: 2},
	}

	tasks := buildTaskChain(testWorkflow(), finalDue, blueprints, members)
	data := templateDataFromTasks(finalDue, tasks)

	require.Len(t, data, len(blueprints))
	for i, blueprint := range blueprints {
		assert.Equal(t, blueprint.Name, data[i].Name)
		assert.Equal(t, blueprint.Description, data[i].Description)
		assert.Equal(t, blueprint.DaysBefore, data[i].DaysBefore)
		assert.Equal(t, blueprint.Users, data[i].Users)
	}
}

func TestValidateBlueprints(t *testing.T) {
	valid := []models.TaskBlueprint{
		{Name: "Draft", DaysBefore: 10},
		{Name: "Review", DaysBefore: 5},
		{Name: "Publish", DaysBefore: 0},
	}
	assert.NoError(t, validateBlueprints(valid))

	ascending := []models.TaskBlueprint{
		{Name: "Publish", DaysBefore: 0},
		{Name: "Review", DaysBefore: 5},
		{Name: "Draft", DaysBefore: 10},
	}
	assert.Error(t, validateBlueprints(ascending), "later steps must sit closer to the deadline")

	equal := []models.TaskBlueprint{
		{Name: "First", DaysBefore: 3},
		{Name: "Second", DaysBefore: 3},
	}
	assert.Error(t, validateBlueprints(equal), "offsets must be strictly decreasing")

	negative := []models.TaskBlueprint{{Name: "Late", DaysBefore: -1}}
	assert.Error(t, validateBlueprints(negative))

	assert.Error(t, validateBlueprints(nil), "a workflow needs at least one task")
}

func TestValidateCompletion(t *testing.T) {
	assert.NoError(t, validateCompletion(models.Task{}))
	assert.Error(t, validateCompletion(models.Task{Completed: true}))
	assert.Error(t, validateCompletion(models.Task{Hidden: true}), "hidden steps cannot be completed out of order")
}

func TestCompletionAdvance(t *testing.T) {
	workflow := testWorkflow()
	blueprints := []models.TaskBlueprint{
		{Name: "First", DaysBefore: 1},
		{Name: "Second", DaysBefore: 0},
	}
	tasks := buildTaskChain(workflow, time.Now(), blueprints, nil)
	require.Len(t, tasks, 2)

	advance := completionAdvance(tasks[0])
	require.NotNil(t, advance.UnhideTask, "completing a step must unlock its successor")
	assert.Equal(t, tasks[1].ID, *advance.UnhideTask)
	require.NotNil(t, advance.AdvanceWorkflow)
	assert.Equal(t, workflow.ID, *advance.AdvanceWorkflow)

	advance = completionAdvance(tasks[1])
	assert.Nil(t, advance.UnhideTask, "the final step has nothing to unlock")
	require.NotNil(t, advance.AdvanceWorkflow)

	assert.Equal(t, chainAdvance{}, completionAdvance(models.Task{Name: "Standalone"}),
		"free-standing tasks do not touch any workflow")
}

func TestWorkflowTasksFilter(t *testing.T) {
	workflow := testWorkflow()
	tasks := buildTaskChain(workflow, time.Now(), []models.TaskBlueprint{
		{Name: "First", DaysBefore: 1},
		{Name: "Second", DaysBefore: 0},
	}, nil)

	filter := workflowTasksFilter(workflow.ID)
	for _, task := range tasks {
		require.NotNil(t, task.WorkflowID)
		assert.Equal(t, filter["workflowId"], *task.WorkflowID,
			"cascade delete must cover every chain task")
	}

	other := primitive.NewObjectID()
	assert.NotEqual(t, filter["workflowId"], other, "tasks of other workflows stay untouched")
}

func TestTemplateBaseName(t *testing.T) {
	assert.Equal(t, "Release", templateBaseName("Backend: Release", "Backend"))
	assert.Equal(t, "Release", templateBaseName("Release", "Backend"),
		"names without a team prefix pass through unchanged")
	assert.Equal(t, "Backend: Release", templateBaseName("Backend: Backend: Release", "Backend"),
		"only one prefix layer is stripped")
}

func TestWorkflowFinished(t *testing.T) {
	workflow := models.Workflow{CurrentTask: 1, Length: 3}
	assert.False(t, workflow.Finished())

	workflow.CurrentTask = 3
	assert.False(t, workflow.Finished())

	workflow.CurrentTask = 4
	assert.True(t, workflow.Finished())
}
