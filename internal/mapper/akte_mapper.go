package mapper

import (
	"time"

	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/model"

	"gorm.io/gorm"
)

type AkteMapper struct{}

func NewAkteMapper() *AkteMapper {
	return &AkteMapper{}
}

func (m *AkteMapper) ToEntity(a *model.Akte) *entity.Akte {
	if a == nil {
		return nil
	}

	var deletedAt *time.Time
	if a.DeletedAt.Valid {
		t := a.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !a.UpdatedAt.IsZero() {
		t := a.UpdatedAt
		updatedAt = &t
	}

	return &entity.Akte{
		Id:             a.Id,
		Aktenzeichen:   a.Aktenzeichen,
		Titel:          a.Titel,
		Rechtsgebiet:   a.Rechtsgebiet,
		Gericht:        a.Gericht,
		Streitwert:     a.Streitwert,
		MandantName:    a.MandantName,
		MandantAdresse: a.MandantAdresse,
		MandantRolle:   a.MandantRolle,
		GegnerName:     a.GegnerName,
		GegnerAdresse:  a.GegnerAdresse,
		Status:         a.Status,
		OwnerId:        a.OwnerId,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      a.DeletedAt.Valid,
	}
}

func (m *AkteMapper) ToModel(a *entity.Akte) *model.Akte {
	if a == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if a.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *a.DeletedAt, Valid: true}
	} else if a.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if a.UpdatedAt != nil {
		updatedAt = *a.UpdatedAt
	}

	return &model.Akte{
		Id:             a.Id,
		Aktenzeichen:   a.Aktenzeichen,
		Titel:          a.Titel,
		Rechtsgebiet:   a.Rechtsgebiet,
		Gericht:        a.Gericht,
		Streitwert:     a.Streitwert,
		MandantName:    a.MandantName,
		MandantAdresse: a.MandantAdresse,
		MandantRolle:   a.MandantRolle,
		GegnerName:     a.GegnerName,
		GegnerAdresse:  a.GegnerAdresse,
		Status:         a.Status,
		OwnerId:        a.OwnerId,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}

func (m *AkteMapper) ToEntities(akten []*model.Akte) []*entity.Akte {
	entities := make([]*entity.Akte, len(akten))
	for i, a := range akten {
		entities[i] = m.ToEntity(a)
	}
	return entities
}

type AkteNotizMapper struct{}

func NewAkteNotizMapper() *AkteNotizMapper {
	return &AkteNotizMapper{}
}

func (m *AkteNotizMapper) ToEntity(n *model.AkteNotiz) *entity.AkteNotiz {
	if n == nil {
		return nil
	}

	var deletedAt *time.Time
	if n.DeletedAt.Valid {
		t := n.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !n.UpdatedAt.IsZero() {
		t := n.UpdatedAt
		updatedAt = &t
	}

	return &entity.AkteNotiz{
		Id:        n.Id,
		AkteId:    n.AkteId,
		UserId:    n.UserId,
		Inhalt:    n.Inhalt,
		CreatedAt: n.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: n.DeletedAt.Valid,
	}
}

func (m *AkteNotizMapper) ToModel(n *entity.AkteNotiz) *model.AkteNotiz {
	if n == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if n.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *n.DeletedAt, Valid: true}
	} else if n.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if n.UpdatedAt != nil {
		updatedAt = *n.UpdatedAt
	}

	return &model.AkteNotiz{
		Id:        n.Id,
		AkteId:    n.AkteId,
		UserId:    n.UserId,
		Inhalt:    n.Inhalt,
		CreatedAt: n.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *AkteNotizMapper) ToEntities(notizen []*model.AkteNotiz) []*entity.AkteNotiz {
	entities := make([]*entity.AkteNotiz, len(notizen))
	for i, n := range notizen {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
