package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Dokument struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AkteId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Titel     string         `gorm:"type:varchar(255);not null"`
	Art       string         `gorm:"type:varchar(32);index"`
	Inhalt    string         `gorm:"type:text"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Dokument) TableName() string {
	return "dokumente"
}
