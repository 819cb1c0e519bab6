package mapper

import (
	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/model"
)

type AgentUsageMapper struct{}

func NewAgentUsageMapper() *AgentUsageMapper {
	return &AgentUsageMapper{}
}

func (m *AgentUsageMapper) ToEntity(u *model.AgentUsage) *entity.AgentUsage {
	if u == nil {
		return nil
	}

	return &entity.AgentUsage{
		Id:               u.Id,
		UserId:           u.UserId,
		SessionId:        u.SessionId,
		Modell:           u.Modell,
		Tier:             u.Tier,
		Modus:            u.Modus,
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
		Schritte:         u.Schritte,
		DauerMs:          u.DauerMs,
		FinishReason:     u.FinishReason,
		Stalled:          u.Stalled,
		CreatedAt:        u.CreatedAt,
	}
}

func (m *AgentUsageMapper) ToModel(u *entity.AgentUsage) *model.AgentUsage {
	if u == nil {
		return nil
	}

	return &model.AgentUsage{
		Id:               u.Id,
		UserId:           u.UserId,
		SessionId:        u.SessionId,
		Modell:           u.Modell,
		Tier:             u.Tier,
		Modus:            u.Modus,
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
		Schritte:         u.Schritte,
		DauerMs:          u.DauerMs,
		FinishReason:     u.FinishReason,
		Stalled:          u.Stalled,
		CreatedAt:        u.CreatedAt,
	}
}

func (m *AgentUsageMapper) ToEntities(usages []*model.AgentUsage) []*entity.AgentUsage {
	entities := make([]*entity.AgentUsage, len(usages))
	for i, u := range usages {
		entities[i] = m.ToEntity(u)
	}
	return entities
}
