package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/entity"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/enum"
	domainRepo "github.com/francoluca35/comandas-multiples-sub008/internal/domain/repository"
)

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) domainRepo.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, event *entity.NotificationEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.NotificationEvent, error) {
	var event entity.NotificationEvent
	err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &event, err
}

// Acknowledge inserts the (event, terminal) pair; a duplicate acknowledgment
// hits the unique index and is silently ignored.
func (r *notificationRepository) Acknowledge(ctx context.Context, eventID, terminalID uuid.UUID) error {
	ack := entity.NotificationAck{
		EventID:    eventID,
		TerminalID: terminalID,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "terminal_id"}},
		DoNothing: true,
	}).Create(&ack).Error
}

func (r *notificationRepository) ListUnread(ctx context.Context, terminalID uuid.UUID, since time.Time, types []enum.NotificationType) ([]entity.NotificationEvent, error) {
	var events []entity.NotificationEvent

	query := r.db.WithContext(ctx).Model(&entity.NotificationEvent{}).
		Where("notification_events.created_at >= ?", since).
		Where("NOT EXISTS (SELECT 1 FROM notification_acks a WHERE a.event_id = notification_events.id AND a.terminal_id = ?)", terminalID)

	if len(types) > 0 {
		query = query.Where("type IN ?", types)
	}

	err := query.Order("notification_events.created_at ASC").Find(&events).Error
	return events, err
}
