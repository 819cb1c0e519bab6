package contract

import (
	"context"
	"time"

	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PendingPipelineRepository interface {
	// Upsert keeps the (user, akte) pair unique.
	Upsert(ctx context.Context, pipeline *entity.PendingPipeline) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserAndAkte(ctx context.Context, userId, akteId uuid.UUID) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PendingPipeline, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PendingPipeline, error)
}
