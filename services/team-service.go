package services

import (
	"context"
	"fmt"

	"wurkflow-project/backend/logging"
	"wurkflow-project/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TeamService struct {
	TeamsCollection *mongo.Collection
	OrgsCollection  *mongo.Collection
	UsersCollection *mongo.Collection
}

func NewTeamService(db *mongo.Database) *TeamService {
	return &TeamService{
		TeamsCollection: db.Collection("teams"),
		OrgsCollection:  db.Collection("organizations"),
		UsersCollection: db.Collection("users"),
	}
}

// CreateTeam creates a team inside an organization. The slug must be unique
// within the org (enforced by the compound index created at startup); the
// creator joins the new team automatically.
func (s *TeamService) CreateTeam(ctx context.Context, slug, name, description, orgID, creatorUsername string) (*models.Team, error) {
	if err := s.OrgsCollection.FindOne(ctx, bson.M{"_id": orgID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("organization not found")
		}
		return nil, fmt.Errorf("failed to fetch organization: %v", err)
	}

	team := &models.Team{
		ID:          primitive.NewObjectID(),
		Slug:        slug,
		Name:        name,
		Description: description,
		OrgID:       orgID,
	}

	if _, err := s.TeamsCollection.InsertOne(ctx, team); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("team slug '%s' is already taken in this organization", slug)
		}
		return nil, fmt.Errorf("failed to create team: %v", err)
	}

	if err := s.JoinTeam(ctx, creatorUsername, team.ID); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: TEAM_CREATED, Description: Team %s (%s) created in organization %s", team.ID.Hex(), slug, orgID)
	return team, nil
}

// JoinTeam adds the team to the user's team set. Joining a team that does not
// exist is rejected.
func (s *TeamService) JoinTeam(ctx context.Context, username string, teamID primitive.ObjectID) error {
	if err := s.TeamsCollection.FindOne(ctx, bson.M{"_id": teamID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf("team does not exist")
		}
		return fmt.Errorf("failed to fetch team: %v", err)
	}

	update := bson.M{"$addToSet": bson.M{"teams": teamID}}
	result, err := s.UsersCollection.UpdateOne(ctx, bson.M{"username": username}, update)
	if err != nil {
		return fmt.Errorf("failed to join team: %v", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

// LeaveTeam removes the team from the user's team set.
func (s *TeamService) LeaveTeam(ctx context.Context, username string, teamID primitive.ObjectID) error {
	update := bson.M{"$pull": bson.M{"teams": teamID}}
	result, err := s.UsersCollection.UpdateOne(ctx, bson.M{"username": username}, update)
	if err != nil {
		return fmt.Errorf("failed to leave team: %v", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user not found")
	}
	if result.ModifiedCount == 0 {
		return fmt.Errorf("user is not a member of this team")
	}
	return nil
}

func (s *TeamService) GetTeamByID(ctx context.Context, teamID primitive.ObjectID) (*models.Team, error) {
	var team models.Team
	if err := s.TeamsCollection.FindOne(ctx, bson.M{"_id": teamID}).Decode(&team); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("team not found")
		}
		return nil, fmt.Errorf("failed to fetch team: %v", err)
	}
	return &team, nil
}

// GetTeamsForUser lists the teams the user belongs to, sorted by name.
func (s *TeamService) GetTeamsForUser(ctx context.Context, username string) ([]models.Team, error) {
	var user models.User
	if err := s.UsersCollection.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to fetch user: %v", err)
	}
	if len(user.Teams) == 0 {
		return []models.Team{}, nil
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.TeamsCollection.Find(ctx, bson.M{"_id": bson.M{"$in": user.Teams}}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch teams: %v", err)
	}
	defer cursor.Close(ctx)

	var teams []models.Team
	if err = cursor.All(ctx, &teams); err != nil {
		return nil, fmt.Errorf("failed to decode teams: %v", err)
	}

	return teams, nil
}

// GetTeamMembers lists the users whose team set contains the team.
func (s *TeamService) GetTeamMembers(ctx context.Context, teamID primitive.ObjectID) ([]models.Member, error) {
	cursor, err := s.UsersCollection.Find(ctx, bson.M{"teams": teamID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch team members: %v", err)
	}
	defer cursor.Close(ctx)

	var members []models.Member
	if err = cursor.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("failed to decode team members: %v", err)
	}

	return members, nil
}
