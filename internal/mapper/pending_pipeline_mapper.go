package mapper

import (
	"time"

	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/model"

	"gorm.io/datatypes"
)

type PendingPipelineMapper struct{}

func NewPendingPipelineMapper() *PendingPipelineMapper {
	return &PendingPipelineMapper{}
}

func (m *PendingPipelineMapper) ToEntity(p *model.PendingPipeline) *entity.PendingPipeline {
	if p == nil {
		return nil
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.PendingPipeline{
		Id:                 p.Id,
		UserId:             p.UserId,
		AkteId:             p.AkteId,
		KlageartId:         p.KlageartId,
		IntentJSON:         []byte(p.IntentJSON),
		SlotsJSON:          []byte(p.SlotsJSON),
		LetzteFrage:        p.LetzteFrage,
		GefragterSlot:      p.GefragterSlot,
		Runde:              p.Runde,
		UrsprungsNachricht: p.UrsprungsNachricht,
		ExpiresAt:          p.ExpiresAt,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          updatedAt,
	}
}

func (m *PendingPipelineMapper) ToModel(p *entity.PendingPipeline) *model.PendingPipeline {
	if p == nil {
		return nil
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.PendingPipeline{
		Id:                 p.Id,
		UserId:             p.UserId,
		AkteId:             p.AkteId,
		KlageartId:         p.KlageartId,
		IntentJSON:         datatypes.JSON(p.IntentJSON),
		SlotsJSON:          datatypes.JSON(p.SlotsJSON),
		LetzteFrage:        p.LetzteFrage,
		GefragterSlot:      p.GefragterSlot,
		Runde:              p.Runde,
		UrsprungsNachricht: p.UrsprungsNachricht,
		ExpiresAt:          p.ExpiresAt,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          updatedAt,
	}
}
