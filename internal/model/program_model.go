package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

type Program struct {
	Id              string           `gorm:"type:varchar(64);primaryKey"`
	Seq             int64            `gorm:"type:bigserial;uniqueIndex;<-:false"` // assigned by the database on first insert
	SchoolName      string           `gorm:"type:text;not null"`
	ProgramName     string           `gorm:"type:text;not null"`
	Region          string           `gorm:"type:varchar(100);index"`
	Rank            int              `gorm:"not null;index"`
	Field           string           `gorm:"type:varchar(150);index"`
	DegreeType      string           `gorm:"type:varchar(50)"`
	Duration        string           `gorm:"type:varchar(50)"`
	DescriptionText string           `gorm:"type:text"`
	Embedding       *pgvector.Vector `gorm:"type:vector"` // dimension follows the configured embedder
	CreatedAt       time.Time        `gorm:"autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime"`
}

func (Program) TableName() string {
	return "programs"
}
