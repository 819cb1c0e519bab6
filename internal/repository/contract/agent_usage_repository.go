package contract

import (
	"context"

	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/repository/specification"
)

type AgentUsageRepository interface {
	Create(ctx context.Context, usage *entity.AgentUsage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AgentUsage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	SumTotalTokens(ctx context.Context, specs ...specification.Specification) (int64, error)
}
