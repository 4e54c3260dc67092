package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"corsihub/internal/dto"
	"corsihub/internal/repository"
	pkgerrors "corsihub/pkg/errors"
)

var ErrNotificationNotFound = errors.New("通知不存在")

// NotificationService 通知业务接口
type NotificationService interface {
	List(ctx context.Context, userID string) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, userID, id string) error
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) List(ctx context.Context, userID string) ([]dto.NotificationResponse, error) {
	if userID == "" {
		return nil, pkgerrors.ErrNotAuthenticated
	}

	list, err := s.repo.Notification.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询通知列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.NotificationResponse, 0, len(list))
	for i := range list {
		n := &list[i]
		result = append(result, dto.NotificationResponse{
			ID:        n.NotificationID,
			Type:      n.Type,
			Title:     n.Title,
			Content:   n.Content,
			IsRead:    n.IsRead,
			EventID:   n.EventID,
			CreatedAt: n.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return result, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id string) error {
	if userID == "" {
		return pkgerrors.ErrNotAuthenticated
	}

	if err := s.repo.Notification.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		s.logger.Error("标记通知已读失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}
