package mapper

import (
	"time"

	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DraftMapper struct{}

func NewDraftMapper() *DraftMapper {
	return &DraftMapper{}
}

func (m *DraftMapper) ToEntity(d *model.Draft) *entity.Draft {
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

	return &entity.Draft{
		Id:        d.Id,
		AkteId:    d.AkteId,
		UserId:    d.UserId,
		Art:       d.Art,
		Status:    d.Status,
		Titel:     d.Titel,
		Inhalt:    d.Inhalt,
		Meta:      []byte(d.Meta),
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: d.DeletedAt.Valid,
	}
}

func (m *DraftMapper) ToModel(d *entity.Draft) *model.Draft {
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

	return &model.Draft{
		Id:        d.Id,
		AkteId:    d.AkteId,
		UserId:    d.UserId,
		Art:       d.Art,
		Status:    d.Status,
		Titel:     d.Titel,
		Inhalt:    d.Inhalt,
		Meta:      datatypes.JSON(d.Meta),
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *DraftMapper) ToEntities(drafts []*model.Draft) []*entity.Draft {
	entities := make([]*entity.Draft, len(drafts))
	for i, d := range drafts {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
