package service

import (
	"context"

	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/pkg/logger"
	"kanzlei-ai-be/internal/repository/specification"
	"kanzlei-ai-be/internal/repository/unitofwork"
	"kanzlei-ai-be/pkg/events"

	"github.com/google/uuid"
)

// EventPublisher is the outbound event bus surface the services need.
// NATS JetStream in production.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// UsageService persists one accounting row per finished agent run and
// emits a fire and forget usage event for downstream billing.
type UsageService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  EventPublisher
	log        logger.ILogger
}

func NewUsageService(uowFactory unitofwork.RepositoryFactory, publisher EventPublisher, log logger.ILogger) *UsageService {
	return &UsageService{
		uowFactory: uowFactory,
		publisher:  publisher,
		log:        log,
	}
}

func (s *UsageService) Record(ctx context.Context, usage *entity.AgentUsage) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AgentUsageRepository().Create(ctx, usage); err != nil {
		return err
	}

	if s.publisher != nil {
		event := events.New(events.TypeAgentUsageRecorded, map[string]interface{}{
			"user_id":       usage.UserId.String(),
			"modell":        usage.Modell,
			"tier":          usage.Tier,
			"modus":         usage.Modus,
			"total_tokens":  usage.TotalTokens,
			"schritte":      usage.Schritte,
			"finish_reason": usage.FinishReason,
			"stalled":       usage.Stalled,
		})
		if err := s.publisher.Publish(ctx, event); err != nil {
			// Accounting rows are the source of truth, the event is advisory.
			s.log.Warn("usage", "failed to publish usage event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return nil
}

// TotalTokensForUser sums all tokens a user has consumed. Used by the
// usage endpoint.
func (s *UsageService) TotalTokensForUser(ctx context.Context, userId uuid.UUID) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.AgentUsageRepository().SumTotalTokens(ctx, specification.ByUser{UserID: userId})
}

// RecentRuns returns the latest accounting rows for a user.
func (s *UsageService) RecentRuns(ctx context.Context, userId uuid.UUID, limit int) ([]*entity.AgentUsage, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.AgentUsageRepository().FindAll(ctx,
		specification.ByUser{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit},
	)
}
