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

type DokumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DokumentMapper
}

func NewDokumentRepository(db *gorm.DB) contract.DokumentRepository {
	return &DokumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewDokumentMapper(),
	}
}

func (r *DokumentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DokumentRepositoryImpl) Create(ctx context.Context, dokument *entity.Dokument) error {
	m := r.mapper.ToModel(dokument)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*dokument = *r.mapper.ToEntity(m)
	return nil
}

func (r *DokumentRepositoryImpl) Update(ctx context.Context, dokument *entity.Dokument) error {
	m := r.mapper.ToModel(dokument)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*dokument = *r.mapper.ToEntity(m)
	return nil
}

func (r *DokumentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Dokument{}, id).Error
}

func (r *DokumentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Dokument, error) {
	var m model.Dokument
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DokumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Dokument, error) {
	var models []*model.Dokument
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DokumentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Dokument{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
