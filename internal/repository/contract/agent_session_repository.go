package contract

import (
	"context"

	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AgentSessionRepository interface {
	Create(ctx context.Context, session *entity.AgentSession) error
	Update(ctx context.Context, session *entity.AgentSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AgentSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AgentSession, error)
}

type AgentMessageRepository interface {
	Create(ctx context.Context, message *entity.AgentMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AgentMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
