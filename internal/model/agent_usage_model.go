package model

import (
	"time"

	"github.com/google/uuid"
)

type AgentUsage struct {
	Id               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID  `gorm:"type:uuid;not null;index"`
	SessionId        *uuid.UUID `gorm:"type:uuid;index"`
	Modell           string     `gorm:"type:varchar(128)"`
	Tier             int
	Modus            string `gorm:"type:varchar(16)"`
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Schritte         int
	DauerMs          int64
	FinishReason     string    `gorm:"type:varchar(32)"`
	Stalled          bool
	CreatedAt        time.Time `gorm:"autoCreateTime;index"`
}

func (AgentUsage) TableName() string {
	return "agent_usage"
}
