package model

import (
	"time"

	"edupath-be/internal/entity"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type AdvisingSession struct {
	Id            string                                          `gorm:"type:varchar(64);primaryKey"`
	Conversation  datatypes.JSONSlice[entity.ConversationMessage] `gorm:"type:jsonb"`
	ProfileText   string                                          `gorm:"type:text"`
	ProfileVector *pgvector.Vector                                `gorm:"type:vector"`
	Status        string                                          `gorm:"type:varchar(20);not null;index"`
	TargetList    datatypes.JSONSlice[entity.MatchResult]         `gorm:"type:jsonb"`
	ReachList     datatypes.JSONSlice[entity.MatchResult]         `gorm:"type:jsonb"`
	Timeline      datatypes.JSONType[*entity.Timeline]            `gorm:"type:jsonb"`
	CreatedAt     time.Time                                       `gorm:"autoCreateTime"`
	UpdatedAt     time.Time                                       `gorm:"autoUpdateTime"`
}

func (AdvisingSession) TableName() string {
	return "advising_sessions"
}
