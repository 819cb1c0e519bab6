package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PendingPipeline struct {
	Id                 uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId             uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_pending_user_akte"`
	AkteId             uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_pending_user_akte"`
	KlageartId         string         `gorm:"type:varchar(64)"`
	IntentJSON         datatypes.JSON `gorm:"type:jsonb"`
	SlotsJSON          datatypes.JSON `gorm:"type:jsonb"`
	LetzteFrage        string         `gorm:"type:text"`
	GefragterSlot      string         `gorm:"type:varchar(64)"`
	Runde              int            `gorm:"not null;default:1"`
	UrsprungsNachricht string         `gorm:"type:text"`
	ExpiresAt          time.Time      `gorm:"index"`
	CreatedAt          time.Time      `gorm:"autoCreateTime"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime"`
}

func (PendingPipeline) TableName() string {
	return "pending_pipelines"
}
