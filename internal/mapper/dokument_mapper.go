package mapper

import (
	"time"

	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/model"

	"gorm.io/gorm"
)

type DokumentMapper struct{}

func NewDokumentMapper() *DokumentMapper {
	return &DokumentMapper{}
}

func (m *DokumentMapper) ToEntity(d *model.Dokument) *entity.Dokument {
	if d == nil {
		return nil
	}

	var deletedAt *time.Time
	if d.DeletedAt.Valid {
		t := d.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.Dokument{
		Id:        d.Id,
		AkteId:    d.AkteId,
		UserId:    d.UserId,
		Titel:     d.Titel,
		Art:       d.Art,
		Inhalt:    d.Inhalt,
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: d.DeletedAt.Valid,
	}
}

func (m *DokumentMapper) ToModel(d *entity.Dokument) *model.Dokument {
	if d == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if d.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *d.DeletedAt, Valid: true}
	} else if d.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.Dokument{
		Id:        d.Id,
		AkteId:    d.AkteId,
		UserId:    d.UserId,
		Titel:     d.Titel,
		Art:       d.Art,
		Inhalt:    d.Inhalt,
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *DokumentMapper) ToEntities(docs []*model.Dokument) []*entity.Dokument {
	entities := make([]*entity.Dokument, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
