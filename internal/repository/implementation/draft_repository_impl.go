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

type DraftRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DraftMapper
}

func NewDraftRepository(db *gorm.DB) contract.DraftRepository {
	return &DraftRepositoryImpl{
		db:     db,
		mapper: mapper.NewDraftMapper(),
	}
}

func (r *DraftRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DraftRepositoryImpl) Create(ctx context.Context, draft *entity.Draft) error {
	m := r.mapper.ToModel(draft)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*draft = *r.mapper.ToEntity(m)
	return nil
}

func (r *DraftRepositoryImpl) Update(ctx context.Context, draft *entity.Draft) error {
	m := r.mapper.ToModel(draft)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*draft = *r.mapper.ToEntity(m)
	return nil
}

func (r *DraftRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Draft{}, id).Error
}

func (r *DraftRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Draft, error) {
	var m model.Draft
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DraftRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Draft, error) {
	var models []*model.Draft
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DraftRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Draft{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
