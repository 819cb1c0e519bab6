package mapper

import (
	"time"

	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AgentSessionMapper struct{}

func NewAgentSessionMapper() *AgentSessionMapper {
	return &AgentSessionMapper{}
}

func (m *AgentSessionMapper) ToEntity(s *model.AgentSession) *entity.AgentSession {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.AgentSession{
		Id:        s.Id,
		UserId:    s.UserId,
		AkteId:    s.AkteId,
		Titel:     s.Titel,
		Modus:     s.Modus,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: s.DeletedAt.Valid,
	}
}

func (m *AgentSessionMapper) ToModel(s *entity.AgentSession) *model.AgentSession {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.AgentSession{
		Id:        s.Id,
		UserId:    s.UserId,
		AkteId:    s.AkteId,
		Titel:     s.Titel,
		Modus:     s.Modus,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *AgentSessionMapper) ToEntities(sessions []*model.AgentSession) []*entity.AgentSession {
	entities := make([]*entity.AgentSession, len(sessions))
	for i, s := range sessions {
		entities[i] = m.ToEntity(s)
	}
	return entities
}

type AgentMessageMapper struct{}

func NewAgentMessageMapper() *AgentMessageMapper {
	return &AgentMessageMapper{}
}

func (m *AgentMessageMapper) ToEntity(msg *model.AgentMessage) *entity.AgentMessage {
	if msg == nil {
		return nil
	}

	return &entity.AgentMessage{
		Id:        msg.Id,
		SessionId: msg.SessionId,
		Rolle:     msg.Rolle,
		Inhalt:    msg.Inhalt,
		StepsJSON: []byte(msg.StepsJSON),
		CreatedAt: msg.CreatedAt,
	}
}

func (m *AgentMessageMapper) ToModel(msg *entity.AgentMessage) *model.AgentMessage {
	if msg == nil {
		return nil
	}

	return &model.AgentMessage{
		Id:        msg.Id,
		SessionId: msg.SessionId,
		Rolle:     msg.Rolle,
		Inhalt:    msg.Inhalt,
		StepsJSON: datatypes.JSON(msg.StepsJSON),
		CreatedAt: msg.CreatedAt,
	}
}

func (m *AgentMessageMapper) ToEntities(msgs []*model.AgentMessage) []*entity.AgentMessage {
	entities := make([]*entity.AgentMessage, len(msgs))
	for i, msg := range msgs {
		entities[i] = m.ToEntity(msg)
	}
	return entities
}
