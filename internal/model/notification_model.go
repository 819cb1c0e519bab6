package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Notification struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Typ       string         `gorm:"type:varchar(32);not null"`
	Titel     string         `gorm:"type:varchar(255)"`
	Nachricht string         `gorm:"type:text"`
	DataJSON  datatypes.JSON `gorm:"type:jsonb"`
	Gelesen   bool           `gorm:"not null;default:false"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index"`
}

func (Notification) TableName() string {
	return "notifications"
}
