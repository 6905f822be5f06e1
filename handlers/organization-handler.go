package handlers

import (
	"encoding/json"
	"net/http"

	"wurkflow-project/backend/services"

	"github.com/gorilla/mux"
)

type OrganizationHandler struct {
	OrgService *services.OrganizationService
}

func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{OrgService: orgService}
}

func (h *OrganizationHandler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	if req.ID == "" || req.Name == "" {
		http.Error(w, "id and name are required", http.StatusBadRequest)
		return
	}

	org, err := h.OrgService.CreateOrganization(r.Context(), req.ID, req.Name, r.Header.Get("Username"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(org)
}

func (h *OrganizationHandler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	org, err := h.OrgService.GetOrganization(r.Context(), vars["orgId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(org)
}

func (h *OrganizationHandler) JoinOrganization(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.OrgService.JoinOrganization(r.Context(), r.Header.Get("Username"), vars["orgId"]); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Joined organization"}`))
}

func (h *OrganizationHandler) LeaveOrganization(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.OrgService.LeaveOrganization(r.Context(), r.Header.Get("Username"), vars["orgId"]); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Left organization"}`))
}

func (h *OrganizationHandler) SwitchOrganization(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.OrgService.SwitchOrganization(r.Context(), r.Header.Get("Username"), vars["orgId"]); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Current organization switched"}`))
}
