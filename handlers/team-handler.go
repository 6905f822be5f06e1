package handlers

import (
	"encoding/json"
	"net/http"

	"wurkflow-project/backend/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TeamHandler struct {
	TeamService *services.TeamService
}

func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{TeamService: teamService}
}

func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slug        string `json:"slug"`
		Name        string `json:"name"`
		Description string `json:"description"`
		OrgID       string `json:"orgId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	if req.Slug == "" || req.Name == "" || req.OrgID == "" {
		http.Error(w, "slug, name and orgId are required", http.StatusBadRequest)
		return
	}

	team, err := h.TeamService.CreateTeam(r.Context(), req.Slug, req.Name, req.Description, req.OrgID, r.Header.Get("Username"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(team)
}

func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := primitive.ObjectIDFromHex(mux.Vars(r)["teamId"])
	if err != nil {
		http.Error(w, "Invalid team ID format", http.StatusBadRequest)
		return
	}

	team, err := h.TeamService.GetTeamByID(r.Context(), teamID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(team)
}

func (h *TeamHandler) GetMyTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.TeamService.GetTeamsForUser(r.Context(), r.Header.Get("Username"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(teams)
}

func (h *TeamHandler) GetTeamMembers(w http.ResponseWriter, r *http.Request) {
	teamID, err := primitive.ObjectIDFromHex(mux.Vars(r)["teamId"])
	if err != nil {
		http.Error(w, "Invalid team ID format", http.StatusBadRequest)
		return
	}

	members, err := h.TeamService.GetTeamMembers(r.Context(), teamID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(members)
}

func (h *TeamHandler) JoinTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := primitive.ObjectIDFromHex(mux.Vars(r)["teamId"])
	if err != nil {
		http.Error(w, "Invalid team ID format", http.StatusBadRequest)
		return
	}

	if err := h.TeamService.JoinTeam(r.Context(), r.Header.Get("Username"), teamID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Joined team"}`))
}

func (h *TeamHandler) LeaveTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := primitive.ObjectIDFromHex(mux.Vars(r)["teamId"])
	if err != nil {
		http.Error(w, "Invalid team ID format", http.StatusBadRequest)
		return
	}

	if err := h.TeamService.LeaveTeam(r.Context(), r.Header.Get("Username"), teamID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Left team"}`))
}
