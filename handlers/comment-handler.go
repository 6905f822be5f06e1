package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"wurkflow-project/backend/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommentHandler struct {
	CommentService *services.CommentService
	UserService    *services.UserService
}

func NewCommentHandler(commentService *services.CommentService, userService *services.UserService) *CommentHandler {
	return &CommentHandler{
		CommentService: commentService,
		UserService:    userService,
	}
}

func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["taskId"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	if req.Body == "" {
		http.Error(w, "Comment body is required", http.StatusBadRequest)
		return
	}

	user, err := currentUser(r, h.UserService)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	displayName := fmt.Sprintf("%s %s", user.Name, user.LastName)
	comment, err := h.CommentService.AddComment(r.Context(), taskID, user.ID, displayName, req.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(comment)
}

func (h *CommentHandler) GetCommentsByTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["taskId"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	comments, err := h.CommentService.GetCommentsByTask(r.Context(), taskID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(comments)
}
