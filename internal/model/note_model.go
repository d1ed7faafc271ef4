package model

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"type:varchar(255);not null"`
	Description   string    `gorm:"type:text;not null"`
	ImageLocation *string   `gorm:"type:varchar(512)"`
	UserId        uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index"`
}

func (Note) TableName() string {
	return "notes"
}
