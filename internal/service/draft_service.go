package service

import (
	"context"
	"fmt"

	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/pkg/logger"
	"kanzlei-ai-be/internal/repository/specification"
	"kanzlei-ai-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// DraftService manages the approval lifecycle of generated filings.
// Drafts are never applied automatically: every state change here is a
// human decision.
type DraftService struct {
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger
}

func NewDraftService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) *DraftService {
	return &DraftService{
		uowFactory: uowFactory,
		log:        log,
	}
}

// ListByAkte returns the drafts of a case, newest first, optionally
// filtered by status.
func (s *DraftService) ListByAkte(ctx context.Context, akteId uuid.UUID, status string) ([]*entity.Draft, error) {
	specs := []specification.Specification{
		specification.ByAkte{AkteID: akteId},
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if status != "" {
		specs = append(specs, specification.ByStatus{Status: status})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.DraftRepository().FindAll(ctx, specs...)
}

func (s *DraftService) Get(ctx context.Context, id uuid.UUID) (*entity.Draft, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.DraftRepository().FindOne(ctx, specification.ByID{ID: id})
}

func (s *DraftService) Approve(ctx context.Context, id, userId uuid.UUID) (*entity.Draft, error) {
	return s.decide(ctx, id, userId, entity.DraftStatusApproved)
}

func (s *DraftService) Reject(ctx context.Context, id, userId uuid.UUID) (*entity.Draft, error) {
	return s.decide(ctx, id, userId, entity.DraftStatusRejected)
}

func (s *DraftService) decide(ctx context.Context, id, userId uuid.UUID, status string) (*entity.Draft, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.DraftRepository()

	draft, err := repo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, nil
	}
	if draft.Status != entity.DraftStatusPendingApproval {
		return nil, fmt.Errorf("draft %s is already %s", id, draft.Status)
	}

	draft.Status = status
	if err := repo.Update(ctx, draft); err != nil {
		return nil, err
	}

	s.log.Info("draft", "draft decided", map[string]interface{}{
		"draft_id": id.String(),
		"user_id":  userId.String(),
		"status":   status,
	})
	return draft, nil
}
