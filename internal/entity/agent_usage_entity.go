package entity

import (
	"time"

	"github.com/google/uuid"
)

// AgentUsage is one accounting row per finished agent run.
type AgentUsage struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId           uuid.UUID `gorm:"type:uuid;index"`
	SessionId        *uuid.UUID
	Modell           string
	Tier             int
	Modus            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Schritte         int
	DauerMs          int64
	FinishReason     string
	Stalled          bool
	CreatedAt        time.Time
}
