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

type AkteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AkteMapper
}

func NewAkteRepository(db *gorm.DB) contract.AkteRepository {
	return &AkteRepositoryImpl{
		db:     db,
		mapper: mapper.NewAkteMapper(),
	}
}

func (r *AkteRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AkteRepositoryImpl) Create(ctx context.Context, akte *entity.Akte) error {
	m := r.mapper.ToModel(akte)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*akte = *r.mapper.ToEntity(m)
	return nil
}

func (r *AkteRepositoryImpl) Update(ctx context.Context, akte *entity.Akte) error {
	m := r.mapper.ToModel(akte)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*akte = *r.mapper.ToEntity(m)
	return nil
}

func (r *AkteRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Akte{}, id).Error
}

func (r *AkteRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Akte, error) {
	var m model.Akte
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *AkteRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Akte, error) {
	var models []*model.Akte
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *AkteRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Akte{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type AkteNotizRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AkteNotizMapper
}

func NewAkteNotizRepository(db *gorm.DB) contract.AkteNotizRepository {
	return &AkteNotizRepositoryImpl{
		db:     db,
		mapper: mapper.NewAkteNotizMapper(),
	}
}

func (r *AkteNotizRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AkteNotizRepositoryImpl) Create(ctx context.Context, notiz *entity.AkteNotiz) error {
	m := r.mapper.ToModel(notiz)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*notiz = *r.mapper.ToEntity(m)
	return nil
}

func (r *AkteNotizRepositoryImpl) Update(ctx context.Context, notiz *entity.AkteNotiz) error {
	m := r.mapper.ToModel(notiz)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*notiz = *r.mapper.ToEntity(m)
	return nil
}

func (r *AkteNotizRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.AkteNotiz{}, id).Error
}

func (r *AkteNotizRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AkteNotiz, error) {
	var m model.AkteNotiz
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *AkteNotizRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AkteNotiz, error) {
	var models []*model.AkteNotiz
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
