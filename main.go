package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"wurkflow-project/backend/handlers"
	"wurkflow-project/backend/logging"
	"wurkflow-project/backend/middleware"
	"wurkflow-project/backend/repositories"
	"wurkflow-project/backend/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func createIndexes(ctx context.Context, db *mongo.Database) error {
	usernameIndex := mongo.IndexModel{
		Keys:    bson.M{"username": 1},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection("users").Indexes().CreateOne(ctx, usernameIndex); err != nil {
		return fmt.Errorf("failed to create unique index on username: %v", err)
	}

	// Team slugs are only unique within their organization.
	teamSlugIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "orgId", Value: 1}, {Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection("teams").Indexes().CreateOne(ctx, teamSlugIndex); err != nil {
		return fmt.Errorf("failed to create unique index on team slug: %v", err)
	}

	return nil
}

// commonPasswords is the blacklist applied on top of the strength rules.
var commonPasswords = map[string]bool{
	"Password1!":   true,
	"Password123!": true,
	"Welcome123!":  true,
	"Qwerty123!":   true,
	"Admin123!":    true,
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Wurkflow backend...")
	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_ERROR, Description: Error loading .env file: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	if mongoDBName == "" {
		mongoDBName = "wurkflow_db"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	db := client.Database(mongoDBName)
	if err := createIndexes(ctx, db); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
	}

	notificationRepo, err := repositories.NewNotificationRepo()
	if err != nil {
		logging.Logger.Fatalf("Event ID: CASS_INIT_FAILED, Description: Cassandra connection failed: %v", err)
	}
	defer notificationRepo.CloseSession()
	if err := notificationRepo.CreateTable(); err != nil {
		logging.Logger.Fatalf("Event ID: CASS_TABLE_INIT_FAILED, Description: %v", err)
	}

	notificationsBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notifications-cb",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	notificationService := services.NewNotificationService(notificationRepo, notificationsBreaker)
	userService := services.NewUserService(db.Collection("users"), commonPasswords)
	orgService := services.NewOrganizationService(db)
	teamService := services.NewTeamService(db)
	taskService := services.NewTaskService(db, notificationService)
	workflowService := services.NewWorkflowService(client, db, notificationService)
	commentService := services.NewCommentService(db)

	loginHandler := handlers.NewLoginHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	orgHandler := handlers.NewOrganizationHandler(orgService)
	teamHandler := handlers.NewTeamHandler(teamService)
	taskHandler := handlers.NewTaskHandler(taskService, workflowService, userService)
	workflowHandler := handlers.NewWorkflowHandler(workflowService, userService)
	commentHandler := handlers.NewCommentHandler(commentService, userService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	r := mux.NewRouter()

	// Public auth routes.
	auth := r.PathPrefix("/api/auth").Subrouter()
	auth.HandleFunc("/register", loginHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/confirm", loginHandler.ConfirmEmail).Methods(http.MethodPost)
	auth.HandleFunc("/login", loginHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/forgot-password", loginHandler.ForgotPassword).Methods(http.MethodPost)
	auth.HandleFunc("/check-username", loginHandler.CheckUsername).Methods(http.MethodGet)

	// Everything else requires a valid token.
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTAuthMiddleware)

	api.HandleFunc("/users/me", userHandler.GetCurrentUser).Methods(http.MethodGet)

	api.HandleFunc("/orgs", orgHandler.CreateOrganization).Methods(http.MethodPost)
	api.HandleFunc("/orgs/{orgId}", orgHandler.GetOrganization).Methods(http.MethodGet)
	api.HandleFunc("/orgs/{orgId}/join", orgHandler.JoinOrganization).Methods(http.MethodPost)
	api.HandleFunc("/orgs/{orgId}/leave", orgHandler.LeaveOrganization).Methods(http.MethodPost)
	api.HandleFunc("/orgs/{orgId}/switch", orgHandler.SwitchOrganization).Methods(http.MethodPost)

	api.HandleFunc("/teams", teamHandler.CreateTeam).Methods(http.MethodPost)
	api.HandleFunc("/teams/mine", teamHandler.GetMyTeams).Methods(http.MethodGet)
	api.HandleFunc("/teams/{teamId}", teamHandler.GetTeam).Methods(http.MethodGet)
	api.HandleFunc("/teams/{teamId}/members", teamHandler.GetTeamMembers).Methods(http.MethodGet)
	api.HandleFunc("/teams/{teamId}/join", teamHandler.JoinTeam).Methods(http.MethodPost)
	api.HandleFunc("/teams/{teamId}/leave", teamHandler.LeaveTeam).Methods(http.MethodPost)
	api.HandleFunc("/teams/{teamId}/tasks", taskHandler.GetTasksByTeam).Methods(http.MethodGet)
	api.HandleFunc("/teams/{teamId}/templates", workflowHandler.GetTemplatesForTeam).Methods(http.MethodGet)

	api.HandleFunc("/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/mine", taskHandler.GetMyTasks).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{taskId}", taskHandler.GetTaskByID).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{taskId}", taskHandler.UpdateTask).Methods(http.MethodPatch)
	api.HandleFunc("/tasks/{taskId}", taskHandler.DeleteTask).Methods(http.MethodDelete)
	api.HandleFunc("/tasks/{taskId}/complete", taskHandler.CompleteTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{taskId}/users", taskHandler.AddUsersToTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{taskId}/users/{userId}", taskHandler.RemoveUserFromTask).Methods(http.MethodDelete)
	api.HandleFunc("/tasks/{taskId}/comments", commentHandler.AddComment).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{taskId}/comments", commentHandler.GetCommentsByTask).Methods(http.MethodGet)

	api.HandleFunc("/workflows", workflowHandler.CreateWorkflow).Methods(http.MethodPost)
	api.HandleFunc("/workflows/{workflowId}", workflowHandler.GetWorkflow).Methods(http.MethodGet)
	api.HandleFunc("/workflows/{workflowId}", workflowHandler.DeleteWorkflow).Methods(http.MethodDelete)

	api.HandleFunc("/templates", workflowHandler.CreateTemplate).Methods(http.MethodPost)
	api.HandleFunc("/templates/{templateId}/instantiate", workflowHandler.InstantiateTemplate).Methods(http.MethodPost)

	api.HandleFunc("/notifications", notificationHandler.GetMyNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/read", notificationHandler.MarkAsRead).Methods(http.MethodPost)

	corsRouter := enableCORS(r)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: SERVER_PORT is not set in the environment variables.")
	}

	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
