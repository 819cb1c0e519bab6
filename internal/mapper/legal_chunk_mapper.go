package mapper

import (
	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type LegalChunkMapper struct{}

func NewLegalChunkMapper() *LegalChunkMapper {
	return &LegalChunkMapper{}
}

func (m *LegalChunkMapper) ToEntity(c *model.LegalChunk) *entity.LegalChunk {
	if c == nil {
		return nil
	}

	return &entity.LegalChunk{
		Id:           c.Id,
		SourceType:   c.SourceType,
		Referenz:     c.Referenz,
		Titel:        c.Titel,
		Inhalt:       c.Inhalt,
		Rechtsgebiet: c.Rechtsgebiet,
		Embedding:    c.Embedding.Slice(),
		Similarity:   c.Similarity,
		CreatedAt:    c.CreatedAt,
	}
}

func (m *LegalChunkMapper) ToModel(c *entity.LegalChunk) *model.LegalChunk {
	if c == nil {
		return nil
	}

	return &model.LegalChunk{
		Id:           c.Id,
		SourceType:   c.SourceType,
		Referenz:     c.Referenz,
		Titel:        c.Titel,
		Inhalt:       c.Inhalt,
		Rechtsgebiet: c.Rechtsgebiet,
		Embedding:    pgvector.NewVector(c.Embedding),
		CreatedAt:    c.CreatedAt,
	}
}

func (m *LegalChunkMapper) ToEntities(chunks []*model.LegalChunk) []*entity.LegalChunk {
	entities := make([]*entity.LegalChunk, len(chunks))
	for i, c := range chunks {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
