package implementation

import (
	"context"
	"errors"

	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/mapper"
	"kanzlei-ai-be/internal/model"
	"kanzlei-ai-be/internal/repository/contract"
	"kanzlei-ai-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AgentSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AgentSessionMapper
}

func NewAgentSessionRepository(db *gorm.DB) contract.AgentSessionRepository {
	return &AgentSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewAgentSessionMapper(),
	}
}

func (r *AgentSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AgentSessionRepositoryImpl) Create(ctx context.Context, session *entity.AgentSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *AgentSessionRepositoryImpl) Update(ctx context.Context, session *entity.AgentSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *AgentSessionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.AgentSession{}, id).Error
}

func (r *AgentSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AgentSession, error) {
	var m model.AgentSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *AgentSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AgentSession, error) {
	var models []*model.AgentSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

type AgentMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AgentMessageMapper
}

func NewAgentMessageRepository(db *gorm.DB) contract.AgentMessageRepository {
	return &AgentMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewAgentMessageMapper(),
	}
}

func (r *AgentMessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AgentMessageRepositoryImpl) Create(ctx context.Context, message *entity.AgentMessage) error {
	m := r.mapper.ToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.ToEntity(m)
	return nil
}

func (r *AgentMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AgentMessage, error) {
	var models []*model.AgentMessage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *AgentMessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.AgentMessage{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
