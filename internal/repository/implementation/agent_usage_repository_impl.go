package implementation

import (
	"context"

	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/mapper"
	"kanzlei-ai-be/internal/model"
	"kanzlei-ai-be/internal/repository/contract"
	"kanzlei-ai-be/internal/repository/specification"

	"gorm.io/gorm"
)

type AgentUsageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AgentUsageMapper
}

func NewAgentUsageRepository(db *gorm.DB) contract.AgentUsageRepository {
	return &AgentUsageRepositoryImpl{
		db:     db,
		mapper: mapper.NewAgentUsageMapper(),
	}
}

func (r *AgentUsageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AgentUsageRepositoryImpl) Create(ctx context.Context, usage *entity.AgentUsage) error {
	m := r.mapper.ToModel(usage)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*usage = *r.mapper.ToEntity(m)
	return nil
}

func (r *AgentUsageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AgentUsage, error) {
	var models []*model.AgentUsage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *AgentUsageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.AgentUsage{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AgentUsageRepositoryImpl) SumTotalTokens(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var sum int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.AgentUsage{}), specs...)
	err := query.Select("COALESCE(SUM(total_tokens), 0)").Scan(&sum).Error
	return sum, err
}
