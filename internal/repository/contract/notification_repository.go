package contract

import (
	"context"

	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notification, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
