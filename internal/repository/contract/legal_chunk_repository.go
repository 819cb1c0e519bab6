package contract

import (
	"context"

	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/repository/specification"

	"github.com/google/uuid"
)

type LegalChunkRepository interface {
	Create(ctx context.Context, chunk *entity.LegalChunk) error
	CreateBatch(ctx context.Context, chunks []*entity.LegalChunk) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LegalChunk, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LegalChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SearchSimilarWithScore runs a cosine similarity search within one
	// knowledge source. Results carry Similarity in 0..1, best first.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, sourceType string, minSimilarity float64) ([]*entity.LegalChunk, error)
}
