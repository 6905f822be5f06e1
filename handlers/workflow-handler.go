package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"wurkflow-project/backend/models"
	"wurkflow-project/backend/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WorkflowHandler struct {
	WorkflowService *services.WorkflowService
	UserService     *services.UserService
}

func NewWorkflowHandler(workflowService *services.WorkflowService, userService *services.UserService) *WorkflowHandler {
	return &WorkflowHandler{
		WorkflowService: workflowService,
		UserService:     userService,
	}
}

type blueprintRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Users       []string `json:"users"`
	DaysBefore  int      `json:"daysBefore"`
}

func parseBlueprints(reqs []blueprintRequest) ([]models.TaskBlueprint, error) {
	blueprints := make([]models.TaskBlueprint, 0, len(reqs))
	for _, req := range reqs {
		users, err := parseObjectIDs(req.Users)
		if err != nil {
			return nil, err
		}
		blueprints = append(blueprints, models.TaskBlueprint{
			Name:        req.Name,
			Description: req.Description,
			Users:       users,
			DaysBefore:  req.DaysBefore,
		})
	}
	return blueprints, nil
}

type workflowResponse struct {
	Workflow *models.Workflow `json:"workflow"`
	Tasks    []models.Task    `json:"tasks"`
	Finished bool             `json:"finished"`
}

func (h *WorkflowHandler) CreateWorkflow(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	var req struct {
		Name        string             `json:"name"`
		Description string             `json:"description"`
		TeamID      string             `json:"teamId"`
		FinalDue    time.Time          `json:"finalDue"`
		Tasks       []blueprintRequest `json:"tasks"`
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

	blueprints, err := parseBlueprints(req.Tasks)
	if err != nil {
		http.Error(w, "Invalid user ID format", http.StatusBadRequest)
		return
	}

	creator, err := currentUser(r, h.UserService)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	workflow, tasks, err := h.WorkflowService.CreateWorkflow(r.Context(), req.Name, req.Description, teamID, creator.ID, req.FinalDue, blueprints)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(workflowResponse{Workflow: workflow, Tasks: tasks, Finished: workflow.Finished()})
}

func (h *WorkflowHandler) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	workflowID, err := primitive.ObjectIDFromHex(mux.Vars(r)["workflowId"])
	if err != nil {
		http.Error(w, "Invalid workflow ID format", http.StatusBadRequest)
		return
	}

	workflow, tasks, err := h.WorkflowService.GetWorkflow(r.Context(), workflowID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(workflowResponse{Workflow: workflow, Tasks: tasks, Finished: workflow.Finished()})
}

func (h *WorkflowHandler) DeleteWorkflow(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	workflowID, err := primitive.ObjectIDFromHex(mux.Vars(r)["workflowId"])
	if err != nil {
		http.Error(w, "Invalid workflow ID format", http.StatusBadRequest)
		return
	}

	if err := h.WorkflowService.DeleteWorkflow(r.Context(), workflowID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Workflow and its tasks deleted"}`))
}

// CreateTemplate captures an existing workflow's task list as a reusable
// template.
func (h *WorkflowHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		WorkflowID  string `json:"workflowId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	workflowID, err := primitive.ObjectIDFromHex(req.WorkflowID)
	if err != nil {
		http.Error(w, "Invalid workflow ID format", http.StatusBadRequest)
		return
	}

	workflow, tasks, err := h.WorkflowService.GetWorkflow(r.Context(), workflowID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	creator, err := currentUser(r, h.UserService)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	template, err := h.WorkflowService.CreateWorkflowTemplate(r.Context(), req.Name, req.Description, workflow.TeamID, creator.ID, workflow.FinalDue, tasks)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(template)
}

// InstantiateTemplate creates a new workflow from a stored template.
func (h *WorkflowHandler) InstantiateTemplate(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	templateID, err := primitive.ObjectIDFromHex(mux.Vars(r)["templateId"])
	if err != nil {
		http.Error(w, "Invalid template ID format", http.StatusBadRequest)
		return
	}

	var req struct {
		FinalDue time.Time `json:"finalDue"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	creator, err := currentUser(r, h.UserService)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	workflow, tasks, err := h.WorkflowService.InstantiateTemplate(r.Context(), templateID, creator.ID, req.FinalDue)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(workflowResponse{Workflow: workflow, Tasks: tasks, Finished: workflow.Finished()})
}

func (h *WorkflowHandler) GetTemplatesForTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := primitive.ObjectIDFromHex(mux.Vars(r)["teamId"])
	if err != nil {
		http.Error(w, "Invalid team ID format", http.StatusBadRequest)
		return
	}

	templates, err := h.WorkflowService.GetTemplatesForTeam(r.Context(), teamID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(templates)
}
