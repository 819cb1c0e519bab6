package unitofwork

import (
	"context"
	"fmt"

	"kanzlei-ai-be/internal/repository/contract"
	"kanzlei-ai-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) AkteRepository() contract.AkteRepository {
	return implementation.NewAkteRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AkteNotizRepository() contract.AkteNotizRepository {
	return implementation.NewAkteNotizRepository(u.getDB())
}

func (u *UnitOfWorkImpl) DokumentRepository() contract.DokumentRepository {
	return implementation.NewDokumentRepository(u.getDB())
}

func (u *UnitOfWorkImpl) DraftRepository() contract.DraftRepository {
	return implementation.NewDraftRepository(u.getDB())
}

func (u *UnitOfWorkImpl) PendingPipelineRepository() contract.PendingPipelineRepository {
	return implementation.NewPendingPipelineRepository(u.getDB())
}

func (u *UnitOfWorkImpl) LegalChunkRepository() contract.LegalChunkRepository {
	return implementation.NewLegalChunkRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AgentSessionRepository() contract.AgentSessionRepository {
	return implementation.NewAgentSessionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AgentMessageRepository() contract.AgentMessageRepository {
	return implementation.NewAgentMessageRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AgentUsageRepository() contract.AgentUsageRepository {
	return implementation.NewAgentUsageRepository(u.getDB())
}

func (u *UnitOfWorkImpl) NotificationRepository() contract.NotificationRepository {
	return implementation.NewNotificationRepository(u.getDB())
}
