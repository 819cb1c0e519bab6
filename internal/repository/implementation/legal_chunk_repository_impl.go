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
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type LegalChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LegalChunkMapper
}

func NewLegalChunkRepository(db *gorm.DB) contract.LegalChunkRepository {
	return &LegalChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewLegalChunkMapper(),
	}
}

func (r *LegalChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *LegalChunkRepositoryImpl) Create(ctx context.Context, chunk *entity.LegalChunk) error {
	m := r.mapper.ToModel(chunk)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chunk = *r.mapper.ToEntity(m)
	return nil
}

func (r *LegalChunkRepositoryImpl) CreateBatch(ctx context.Context, chunks []*entity.LegalChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*model.LegalChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ToModel(c)
	}
	if err := r.db.WithContext(ctx).CreateInBatches(models, 100).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *LegalChunkRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.LegalChunk{}, id).Error
}

func (r *LegalChunkRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LegalChunk, error) {
	var m model.LegalChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *LegalChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LegalChunk, error) {
	var models []*model.LegalChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *LegalChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.LegalChunk{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *LegalChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, sourceType string, minSimilarity float64) ([]*entity.LegalChunk, error) {
	if limit <= 0 {
		limit = 5
	}
	vec := pgvector.NewVector(embedding)

	var models []*model.LegalChunk

	// Cosine distance via pgvector: embedding <=> query. Similarity is
	// 1 - distance, filtered in SQL so irrelevant chunks never leave the DB.
	err := r.db.WithContext(ctx).
		Model(&model.LegalChunk{}).
		Select("*, 1 - (embedding <=> ?) as similarity", vec).
		Where("source_type = ?", sourceType).
		Where("1 - (embedding <=> ?) >= ?", vec, minSimilarity).
		Order(gorm.Expr("embedding <=> ?", vec)).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}
