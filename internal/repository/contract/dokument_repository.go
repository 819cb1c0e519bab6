package contract

import (
	"context"

	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DokumentRepository interface {
	Create(ctx context.Context, dokument *entity.Dokument) error
	Update(ctx context.Context, dokument *entity.Dokument) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Dokument, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Dokument, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
