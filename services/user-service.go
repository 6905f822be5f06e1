package services

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"wurkflow-project/backend/logging"
	"wurkflow-project/backend/models"
	"wurkflow-project/backend/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/rand"
)

type UserService struct {
	UserCollection *mongo.Collection
	BlackList      map[string]bool
}

func NewUserService(userCollection *mongo.Collection, blackList map[string]bool) *UserService {
	return &UserService{
		UserCollection: userCollection,
		BlackList:      blackList,
	}
}

// RegisterUser stores the user as inactive and emails a verification code.
func (s *UserService) RegisterUser(user models.User) error {
	var existingUser models.User
	if err := s.UserCollection.FindOne(context.Background(), bson.M{"username": user.Username}).Decode(&existingUser); err == nil {
		return fmt.Errorf("user with username already exists")
	}

	user.Username = html.EscapeString(user.Username)
	user.Name = html.EscapeString(user.Name)
	user.LastName = html.EscapeString(user.LastName)
	user.Email = html.EscapeString(user.Email)

	if err := s.ValidatePassword(user.Password); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}
	user.Password = string(hashedPassword)

	verificationCode := fmt.Sprintf("%06d", rand.Intn(1000000))
	user.VerificationCode = verificationCode
	user.VerificationExpiry = time.Now().Add(10 * time.Minute)
	user.IsActive = false
	if user.Role == "" {
		user.Role = "member"
	}
	user.Orgs = []string{}
	user.Teams = []primitive.ObjectID{}

	if _, err := s.UserCollection.InsertOne(context.Background(), user); err != nil {
		return fmt.Errorf("failed to save user: %v", err)
	}

	subject := "Your Verification Code"
	body := fmt.Sprintf("Your verification code is %s. Please enter it within 10 minutes.", verificationCode)
	if err := utils.SendEmail(user.Email, subject, body); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: Verification code sent to %s", user.Email)
	return nil
}

// ValidatePassword enforces the password strength rules and the common
// password blacklist.
func (s *UserService) ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	hasUppercase := false
	for _, char := range password {
		if char >= 'A' && char <= 'Z' {
			hasUppercase = true
			break
		}
	}
	if !hasUppercase {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}

	hasDigit := false
	for _, char := range password {
		if char >= '0' && char <= '9' {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		return fmt.Errorf("password must contain at least one number")
	}

	specialChars := "!@#$%^&*.,"
	hasSpecial := false
	for _, char := range password {
		if strings.ContainsRune(specialChars, char) {
			hasSpecial = true
			break
		}
	}
	if !hasSpecial {
		return fmt.Errorf("password must contain at least one special character")
	}

	if s.BlackList[password] {
		return fmt.Errorf("password is too common. Please choose a stronger one")
	}

	return nil
}

// ConfirmUser activates the account if the verification code matches and has
// not expired.
func (s *UserService) ConfirmUser(email, code string) error {
	var user models.User
	if err := s.UserCollection.FindOne(context.Background(), bson.M{"email": email}).Decode(&user); err != nil {
		return fmt.Errorf("user not found")
	}

	if user.IsActive {
		return fmt.Errorf("user is already verified")
	}
	if user.VerificationCode != code {
		return fmt.Errorf("invalid verification code")
	}
	if time.Now().After(user.VerificationExpiry) {
		return fmt.Errorf("verification code has expired")
	}

	filter := bson.M{"email": email}
	update := bson.M{"$set": bson.M{"isActive": true}}
	if _, err := s.UserCollection.UpdateOne(context.Background(), filter, update); err != nil {
		return fmt.Errorf("failed to activate user: %v", err)
	}

	logging.Logger.Infof("Event ID: USER_VERIFIED, Description: User %s verified", user.Username)
	return nil
}

// LoginUser checks credentials and returns the user with a fresh token.
func (s *UserService) LoginUser(username, password string) (*models.User, string, error) {
	var user models.User
	if err := s.UserCollection.FindOne(context.Background(), bson.M{"username": username}).Decode(&user); err != nil {
		return nil, "", fmt.Errorf("invalid username or password")
	}

	if !user.IsActive {
		return nil, "", fmt.Errorf("account is not verified")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid username or password")
	}

	token, err := utils.GenerateToken(user.Username, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %v", err)
	}

	return &user, token, nil
}

// ForgotPassword resets the password to a random one and emails it.
func (s *UserService) ForgotPassword(username, email string) error {
	var user models.User
	if err := s.UserCollection.FindOne(context.Background(), bson.M{"username": username}).Decode(&user); err != nil {
		return fmt.Errorf("user not found")
	}

	if user.Email != email {
		return fmt.Errorf("email does not match")
	}

	newPassword := utils.GenerateRandomPassword()
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	update := bson.M{"$set": bson.M{"password": string(hashedPassword)}}
	if _, err := s.UserCollection.UpdateOne(context.Background(), bson.M{"username": username}, update); err != nil {
		return fmt.Errorf("failed to update password: %v", err)
	}

	subject := "Your new password"
	body := fmt.Sprintf("Your new password is: %s", newPassword)
	if err := utils.SendEmail(email, subject, body); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	return nil
}

func (s *UserService) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.UserCollection.FindOne(context.Background(), bson.M{"username": username}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to fetch user: %v", err)
	}
	return &user, nil
}
