package unitofwork

import (
	"context"

	"kanzlei-ai-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AkteRepository() contract.AkteRepository
	AkteNotizRepository() contract.AkteNotizRepository
	DokumentRepository() contract.DokumentRepository
	DraftRepository() contract.DraftRepository
	PendingPipelineRepository() contract.PendingPipelineRepository
	LegalChunkRepository() contract.LegalChunkRepository
	AgentSessionRepository() contract.AgentSessionRepository
	AgentMessageRepository() contract.AgentMessageRepository
	AgentUsageRepository() contract.AgentUsageRepository
	NotificationRepository() contract.NotificationRepository
}
