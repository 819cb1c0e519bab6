package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AgentSession struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	AkteId    *uuid.UUID     `gorm:"type:uuid;index"`
	Titel     string         `gorm:"type:varchar(255)"`
	Modus     string         `gorm:"type:varchar(16)"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (AgentSession) TableName() string {
	return "agent_sessions"
}

type AgentMessage struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Rolle     string         `gorm:"type:varchar(16);not null"`
	Inhalt    string         `gorm:"type:text"`
	StepsJSON datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (AgentMessage) TableName() string {
	return "agent_messages"
}
