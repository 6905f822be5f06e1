package services

import (
	"time"

	"wurkflow-project/backend/logging"
	"wurkflow-project/backend/models"
	"wurkflow-project/backend/repositories"

	"github.com/sony/gobreaker"
)

// NotificationService delivers per-user notifications to the Cassandra store.
// Delivery is best effort: a tripped breaker or store failure is logged and
// never propagated to the mutation that triggered it.
type NotificationService struct {
	repo    *repositories.NotificationRepo
	breaker *gobreaker.CircuitBreaker
}

func NewNotificationService(repo *repositories.NotificationRepo, breaker *gobreaker.CircuitBreaker) *NotificationService {
	return &NotificationService{repo: repo, breaker: breaker}
}

// Notify writes a single notification for the given user.
func (s *NotificationService) Notify(userID, username, message string) {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		notification := &models.Notification{
			UserID:    userID,
			Username:  username,
			Message:   message,
			CreatedAt: time.Now(),
			IsRead:    false,
		}
		return nil, s.repo.CreateNotification(notification)
	})
	if err != nil {
		logging.Logger.Warnf("Event ID: NOTIFICATION_DELIVERY_FAILED, Description: Failed to deliver notification to %s: %v", username, err)
	}
}

// NotifyMembers fans one message out to every assignee.
func (s *NotificationService) NotifyMembers(members []models.Member, message string) {
	for _, member := range members {
		s.Notify(member.ID.Hex(), member.Username, message)
	}
}

func (s *NotificationService) GetNotificationsByUsername(username string) ([]models.Notification, error) {
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.repo.GetNotificationsByUsername(username)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Notification), nil
}

func (s *NotificationService) MarkNotificationAsRead(username, notificationID string, createdAt time.Time) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.repo.MarkNotificationAsRead(username, notificationID, createdAt)
	})
	return err
}
