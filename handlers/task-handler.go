package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"wurkflow-project/backend/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskHandler struct {
	TaskService     *services.TaskService
	WorkflowService *services.WorkflowService
	UserService     *services.UserService
}

func NewTaskHandler(taskService *services.TaskService, workflowService *services.WorkflowService, userService *services.UserService) *TaskHandler {
	return &TaskHandler{
		TaskService:     taskService,
		WorkflowService: workflowService,
		UserService:     userService,
	}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	var req struct {
		Name        string    `json:"name"`
		Description string    `json:"description"`
		TeamID      string    `json:"teamId"`
		Due         time.Time `json:"due"`
		Users       []string  `json:"users"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	teamID, err := primitive.ObjectIDFromHex(req.TeamID)
	if err != nil {
		http.Error(w, "Invalid team ID format", http.StatusBadRequest)
		return
	}

	userIDs, err := parseObjectIDs(req.Users)
	if err != nil {
		http.Error(w, "Invalid user ID format", http.StatusBadRequest)
		return
	}

	creator, err := currentUser(r, h.UserService)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	task, err := h.TaskService.CreateTask(r.Context(), req.Name, req.Description, teamID, creator.ID, req.Due, userIDs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["taskId"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	task, err := h.TaskService.GetTaskByID(r.Context(), taskID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) GetTasksByTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := primitive.ObjectIDFromHex(mux.Vars(r)["teamId"])
	if err != nil {
		http.Error(w, "Invalid team ID format", http.StatusBadRequest)
		return
	}

	includeHidden := r.URL.Query().Get("includeHidden") == "true"
	tasks, err := h.TaskService.GetTasksByTeam(r.Context(), teamID, includeHidden)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tasks)
}

// GetMyTasks joins the visible tasks of every team the caller belongs to.
func (h *TaskHandler) GetMyTasks(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.UserService)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	tasks, err := h.TaskService.GetTasksForTeams(r.Context(), user.Teams)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tasks)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["taskId"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	var req struct {
		Name        *string    `json:"name,omitempty"`
		Description *string    `json:"description,omitempty"`
		Due         *time.Time `json:"due,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	task, err := h.TaskService.UpdateTask(r.Context(), taskID, req.Name, req.Description, req.Due)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

// CompleteTask marks a task done; workflow steps advance their chain.
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["taskId"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	task, err := h.WorkflowService.CompleteTask(r.Context(), taskID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) AddUsersToTask(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["taskId"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	var req struct {
		Users []string `json:"users"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	userIDs, err := parseObjectIDs(req.Users)
	if err != nil {
		http.Error(w, "Invalid user ID format", http.StatusBadRequest)
		return
	}

	task, err := h.TaskService.AddUsersToTask(r.Context(), taskID, userIDs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) RemoveUserFromTask(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	vars := mux.Vars(r)
	taskID, err := primitive.ObjectIDFromHex(vars["taskId"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}
	userID, err := primitive.ObjectIDFromHex(vars["userId"])
	if err != nil {
		http.Error(w, "Invalid user ID format", http.StatusBadRequest)
		return
	}

	if err := h.TaskService.RemoveUserFromTask(r.Context(), taskID, userID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "User removed from task"}`))
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["taskId"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	if err := h.TaskService.DeleteTask(r.Context(), taskID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Task deleted"}`))
}

func parseObjectIDs(hexes []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, hex := range hexes {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
