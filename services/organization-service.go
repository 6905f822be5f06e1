package services

import (
	"context"
	"fmt"

	"wurkflow-project/backend/logging"
	"wurkflow-project/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type OrganizationService struct {
	OrgsCollection  *mongo.Collection
	UsersCollection *mongo.Collection
}

func NewOrganizationService(db *mongo.Database) *OrganizationService {
	return &OrganizationService{
		OrgsCollection:  db.Collection("organizations"),
		UsersCollection: db.Collection("users"),
	}
}

// CreateOrganization creates an organization with a human-chosen slug as its
// id. The creator joins automatically and the new org becomes their current
// one.
func (s *OrganizationService) CreateOrganization(ctx context.Context, id, name, creatorUsername string) (*models.Organization, error) {
	org := &models.Organization{ID: id, Name: name}

	if _, err := s.OrgsCollection.InsertOne(ctx, org); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("organization '%s' already exists", id)
		}
		return nil, fmt.Errorf("failed to create organization: %v", err)
	}

	update := bson.M{
		"$addToSet": bson.M{"orgs": id},
		"$set":      bson.M{"currentOrg": id},
	}
	result, err := s.UsersCollection.UpdateOne(ctx, bson.M{"username": creatorUsername}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to join organization: %v", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("user not found")
	}

	logging.Logger.Infof("Event ID: ORG_CREATED, Description: Organization %s created by %s", id, creatorUsername)
	return org, nil
}

func (s *OrganizationService) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	var org models.Organization
	if err := s.OrgsCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&org); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("organization not found")
		}
		return nil, fmt.Errorf("failed to fetch organization: %v", err)
	}
	return &org, nil
}

// JoinOrganization adds the org to the user's org set. Joining an org that
// does not exist is rejected.
func (s *OrganizationService) JoinOrganization(ctx context.Context, username, orgID string) error {
	if err := s.OrgsCollection.FindOne(ctx, bson.M{"_id": orgID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf("organization does not exist")
		}
		return fmt.Errorf("failed to fetch organization: %v", err)
	}

	update := bson.M{"$addToSet": bson.M{"orgs": orgID}}
	result, err := s.UsersCollection.UpdateOne(ctx, bson.M{"username": username}, update)
	if err != nil {
		return fmt.Errorf("failed to join organization: %v", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

// LeaveOrganization removes the org from the user's org set and clears
// currentOrg if it pointed there.
func (s *OrganizationService) LeaveOrganization(ctx context.Context, username, orgID string) error {
	var user models.User
	if err := s.UsersCollection.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf("user not found")
		}
		return fmt.Errorf("failed to fetch user: %v", err)
	}

	update := bson.M{"$pull": bson.M{"orgs": orgID}}
	if user.CurrentOrg == orgID {
		update["$set"] = bson.M{"currentOrg": ""}
	}

	result, err := s.UsersCollection.UpdateOne(ctx, bson.M{"username": username}, update)
	if err != nil {
		return fmt.Errorf("failed to leave organization: %v", err)
	}
	if result.ModifiedCount == 0 {
		return fmt.Errorf("user is not a member of this organization")
	}

	return nil
}

// SwitchOrganization changes the user's current organization; membership is
// required.
func (s *OrganizationService) SwitchOrganization(ctx context.Context, username, orgID string) error {
	filter := bson.M{"username": username, "orgs": orgID}
	update := bson.M{"$set": bson.M{"currentOrg": orgID}}

	result, err := s.UsersCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to switch organization: %v", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user is not a member of organization '%s'", orgID)
	}

	return nil
}
