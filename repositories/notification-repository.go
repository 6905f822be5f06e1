package repositories

import (
	"os"
	"time"

	"wurkflow-project/backend/logging"
	"wurkflow-project/backend/models"

	"github.com/gocql/gocql"
)

type NotificationRepo struct {
	session *gocql.Session
}

// NewNotificationRepo connects to Cassandra and prepares the notifications
// keyspace.
func NewNotificationRepo() (*NotificationRepo, error) {
	db := os.Getenv("CASS_DB")
	if db == "" {
		db = "127.0.0.1"
	}

	cluster := gocql.NewCluster(db)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		logging.Logger.Errorf("Event ID: CASS_CONNECT_FAILED, Description: Failed to connect to Cassandra: %v", err)
		return nil, err
	}

	err = session.Query(
		`CREATE KEYSPACE IF NOT EXISTS notifications
         WITH replication = {
             'class': 'SimpleStrategy',
             'replication_factor': 1
         }`).Exec()
	if err != nil {
		logging.Logger.Errorf("Event ID: CASS_KEYSPACE_FAILED, Description: Failed to create keyspace: %v", err)
		return nil, err
	}
	session.Close()

	cluster.Keyspace = "notifications"
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		logging.Logger.Errorf("Event ID: CASS_KEYSPACE_CONNECT_FAILED, Description: Failed to connect to notifications keyspace: %v", err)
		return nil, err
	}

	logging.Logger.Info("Event ID: CASS_CONNECTED, Description: Connected to Cassandra notifications keyspace.")
	return &NotificationRepo{session: session}, nil
}

func (nr *NotificationRepo) CloseSession() {
	nr.session.Close()
	logging.Logger.Info("Event ID: CASS_SESSION_CLOSED, Description: Cassandra session closed.")
}

// CreateTable creates the notifications table if it does not exist.
func (nr *NotificationRepo) CreateTable() error {
	err := nr.session.Query(
		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID,
			username TEXT,
			user_id TEXT,
			message TEXT,
			created_at TIMESTAMP,
			is_read BOOLEAN,
			PRIMARY KEY ((username), created_at, id)
		) WITH CLUSTERING ORDER BY (created_at DESC, id ASC)`).Exec()
	if err != nil {
		logging.Logger.Errorf("Event ID: CASS_TABLE_FAILED, Description: Failed to create notifications table: %v", err)
	}
	return err
}

func (nr *NotificationRepo) CreateNotification(notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = gocql.TimeUUID().String()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	err := nr.session.Query(
		`INSERT INTO notifications (id, username, user_id, message, created_at, is_read)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		notification.ID, notification.Username, notification.UserID, notification.Message, notification.CreatedAt, notification.IsRead,
	).Exec()
	if err != nil {
		logging.Logger.Errorf("Event ID: NOTIFICATION_INSERT_FAILED, Description: Failed to create notification: %v", err)
		return err
	}

	return nil
}

func (nr *NotificationRepo) GetNotificationsByUsername(username string) ([]models.Notification, error) {
	query := `SELECT id, user_id, username, message, created_at, is_read
			  FROM notifications WHERE username = ?`

	iter := nr.session.Query(query, username).Iter()
	var notifications []models.Notification
	var notification models.Notification

	for iter.Scan(&notification.ID, &notification.UserID, &notification.Username,
		&notification.Message, &notification.CreatedAt, &notification.IsRead) {
		notifications = append(notifications, notification)
	}

	if err := iter.Close(); err != nil {
		logging.Logger.Errorf("Event ID: NOTIFICATION_FETCH_FAILED, Description: Failed to fetch notifications for %s: %v", username, err)
		return nil, err
	}

	return notifications, nil
}

func (nr *NotificationRepo) MarkNotificationAsRead(username, notificationID string, createdAt time.Time) error {
	uuid, err := gocql.ParseUUID(notificationID)
	if err != nil {
		logging.Logger.Errorf("Event ID: NOTIFICATION_BAD_UUID, Description: Invalid UUID format: %v", err)
		return err
	}

	query := `UPDATE notifications SET is_read = true WHERE username = ? AND id = ? AND created_at = ?`
	err = nr.session.Query(query, username, uuid, createdAt).Exec()
	if err != nil {
		logging.Logger.Errorf("Event ID: NOTIFICATION_UPDATE_FAILED, Description: Failed to mark notification as read: %v", err)
		return err
	}

	return nil
}
