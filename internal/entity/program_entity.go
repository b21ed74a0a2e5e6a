package entity

import (
	"slices"
	"time"
)

// Program is a catalog entry. Embedding must come from the same embedder used for queries.
type Program struct {
	Id              string
	Seq             int64 // insertion order, used as the similarity tie-break
	SchoolName      string
	ProgramName     string
	Region          string
	Rank            int // lower is more prestigious
	Field           string
	DegreeType      string
	Duration        string
	DescriptionText string
	Embedding       []float32
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// ProgramFilter is a conjunction of equality and range constraints.
// Zero values mean "no constraint".
type ProgramFilter struct {
	Region     string
	Field      string
	DegreeType string
	MinRank    int
	MaxRank    int
	ExcludeIds []string
}

func (f ProgramFilter) IsEmpty() bool {
	return f.Region == "" && f.Field == "" && f.DegreeType == "" &&
		f.MinRank == 0 && f.MaxRank == 0 && len(f.ExcludeIds) == 0
}

// Matches reports whether p satisfies every constraint of the filter.
func (f ProgramFilter) Matches(p *Program) bool {
	if p == nil {
		return false
	}
	if f.Region != "" && p.Region != f.Region {
		return false
	}
	if f.Field != "" && p.Field != f.Field {
		return false
	}
	if f.DegreeType != "" && p.DegreeType != f.DegreeType {
		return false
	}
	if f.MinRank > 0 && p.Rank < f.MinRank {
		return false
	}
	if f.MaxRank > 0 && p.Rank > f.MaxRank {
		return false
	}
	if slices.Contains(f.ExcludeIds, p.Id) {
		return false
	}
	return true
}

func (p *Program) Clone() *Program {
	if p == nil {
		return nil
	}
	c := *p
	c.Embedding = slices.Clone(p.Embedding)
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}
