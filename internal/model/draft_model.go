package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Draft struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AkteId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Art       string         `gorm:"type:varchar(64);not null"`
	Status    string         `gorm:"type:varchar(32);not null;default:'pending_approval'"`
	Titel     string         `gorm:"type:varchar(255);not null"`
	Inhalt    string         `gorm:"type:text"`
	Meta      datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Draft) TableName() string {
	return "drafts"
}
