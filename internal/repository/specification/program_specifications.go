package specification

import (
	"edupath-be/internal/entity"

	"gorm.io/gorm"
)

type ByRegion struct {
	Region string
}

func (s ByRegion) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("region = ?", s.Region)
}

type ByField struct {
	Field string
}

func (s ByField) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("field = ?", s.Field)
}

type ByDegreeType struct {
	DegreeType string
}

func (s ByDegreeType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("degree_type = ?", s.DegreeType)
}

// RankAtLeast keeps programs ranked at or below the given position (rank >= N).
type RankAtLeast struct {
	Rank int
}

func (s RankAtLeast) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("rank >= ?", s.Rank)
}

// RankAtMost keeps programs ranked at or above the given position (rank <= N).
type RankAtMost struct {
	Rank int
}

func (s RankAtMost) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("rank <= ?", s.Rank)
}

type ExcludeIDs struct {
	IDs []string
}

func (s ExcludeIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id NOT IN ?", s.IDs)
}

// EmbeddingDims keeps rows whose embedding has exactly Dims dimensions.
// Mixing dimensions in a pgvector distance expression aborts the whole query.
type EmbeddingDims struct {
	Dims int
}

func (s EmbeddingDims) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("embedding IS NOT NULL").Where("vector_dims(embedding) = ?", s.Dims)
}

// InsertionOrder sorts by catalog insertion sequence.
type InsertionOrder struct{}

func (s InsertionOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("seq ASC")
}

// FromProgramFilter translates a domain filter into specifications.
func FromProgramFilter(f entity.ProgramFilter) []Specification {
	var specs []Specification
	if f.Region != "" {
		specs = append(specs, ByRegion{Region: f.Region})
	}
	if f.Field != "" {
		specs = append(specs, ByField{Field: f.Field})
	}
	if f.DegreeType != "" {
		specs = append(specs, ByDegreeType{DegreeType: f.DegreeType})
	}
	if f.MinRank > 0 {
		specs = append(specs, RankAtLeast{Rank: f.MinRank})
	}
	if f.MaxRank > 0 {
		specs = append(specs, RankAtMost{Rank: f.MaxRank})
	}
	if len(f.ExcludeIds) > 0 {
		specs = append(specs, ExcludeIDs{IDs: f.ExcludeIds})
	}
	return specs
}
