package implementation

import (
	"context"
	"errors"
	"time"

	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/mapper"
	"kanzlei-ai-be/internal/model"
	"kanzlei-ai-be/internal/repository/contract"
	"kanzlei-ai-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PendingPipelineRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PendingPipelineMapper
}

func NewPendingPipelineRepository(db *gorm.DB) contract.PendingPipelineRepository {
	return &PendingPipelineRepositoryImpl{
		db:     db,
		mapper: mapper.NewPendingPipelineMapper(),
	}
}

func (r *PendingPipelineRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PendingPipelineRepositoryImpl) Upsert(ctx context.Context, pipeline *entity.PendingPipeline) error {
	m := r.mapper.ToModel(pipeline)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "akte_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"klageart_id", "intent_json", "slots_json", "letzte_frage",
			"gefragter_slot", "runde", "ursprungs_nachricht", "expires_at",
			"updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*pipeline = *r.mapper.ToEntity(m)
	return nil
}

func (r *PendingPipelineRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.PendingPipeline{}, id).Error
}

func (r *PendingPipelineRepositoryImpl) DeleteByUserAndAkte(ctx context.Context, userId, akteId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND akte_id = ?", userId, akteId).
		Delete(&model.PendingPipeline{}).Error
}

func (r *PendingPipelineRepositoryImpl) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&model.PendingPipeline{})
	return result.RowsAffected, result.Error
}

func (r *PendingPipelineRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PendingPipeline, error) {
	var m model.PendingPipeline
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PendingPipelineRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PendingPipeline, error) {
	var models []*model.PendingPipeline
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.PendingPipeline, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
