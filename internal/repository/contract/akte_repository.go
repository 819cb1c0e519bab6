package contract

import (
	"context"

	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AkteRepository interface {
	Create(ctx context.Context, akte *entity.Akte) error
	Update(ctx context.Context, akte *entity.Akte) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Akte, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Akte, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type AkteNotizRepository interface {
	Create(ctx context.Context, notiz *entity.AkteNotiz) error
	Update(ctx context.Context, notiz *entity.AkteNotiz) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AkteNotiz, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AkteNotiz, error)
}
