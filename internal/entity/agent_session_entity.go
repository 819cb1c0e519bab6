package entity

import (
	"time"

	"github.com/google/uuid"
)

type AgentSession struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID `gorm:"type:uuid;index"`
	AkteId    *uuid.UUID
	Titel     string
	Modus     string // inline or background
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

type AgentMessage struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId uuid.UUID `gorm:"type:uuid;index"`
	Rolle     string // user, assistant
	Inhalt    string
	StepsJSON []byte // audit trail of the producing run, assistant only
	CreatedAt time.Time
}
