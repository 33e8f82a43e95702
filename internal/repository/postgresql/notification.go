package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/attendly/timepay-engine-go/internal/domain/notification"
	"github.com/attendly/timepay-engine-go/internal/pkg/database"
	"github.com/google/uuid"
)

type notificationRepository struct {
	db *database.DB
}

// NewNotificationRepository returns a notification.Service that writes an
// outbox row per event. The external delivery channel drains the table.
func NewNotificationRepository(db *database.DB) notification.Service {
	return &notificationRepository{db: db}
}

// Notify implements notification.Service.
func (n *notificationRepository) Notify(ctx context.Context, employeeID string, kind notification.Kind, payload map[string]any) error {
	q := GetQuerier(ctx, n.db)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	query := `
		INSERT INTO notification_outbox (id, employee_id, kind, payload)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := q.Exec(ctx, query, uuid.New().String(), employeeID, string(kind), body); err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}
	return nil
}
