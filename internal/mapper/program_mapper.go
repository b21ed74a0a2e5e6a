package mapper

import (
	"time"

	"edupath-be/internal/entity"
	"edupath-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type ProgramMapper struct{}

func NewProgramMapper() *ProgramMapper {
	return &ProgramMapper{}
}

func (m *ProgramMapper) ToEntity(p *model.Program) *entity.Program {
	if p == nil {
		return nil
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	// A NULL embedding maps to an empty slice; the matcher treats it as malformed.
	var embedding []float32
	if p.Embedding != nil {
		embedding = p.Embedding.Slice()
	}

	return &entity.Program{
		Id:              p.Id,
		Seq:             p.Seq,
		SchoolName:      p.SchoolName,
		ProgramName:     p.ProgramName,
		Region:          p.Region,
		Rank:            p.Rank,
		Field:           p.Field,
		DegreeType:      p.DegreeType,
		Duration:        p.Duration,
		DescriptionText: p.DescriptionText,
		Embedding:       embedding,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *ProgramMapper) ToModel(p *entity.Program) *model.Program {
	if p == nil {
		return nil
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	var embedding *pgvector.Vector
	if len(p.Embedding) > 0 {
		v := pgvector.NewVector(p.Embedding)
		embedding = &v
	}

	return &model.Program{
		Id:              p.Id,
		Seq:             p.Seq,
		SchoolName:      p.SchoolName,
		ProgramName:     p.ProgramName,
		Region:          p.Region,
		Rank:            p.Rank,
		Field:           p.Field,
		DegreeType:      p.DegreeType,
		Duration:        p.Duration,
		DescriptionText: p.DescriptionText,
		Embedding:       embedding,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *ProgramMapper) ToEntities(programs []*model.Program) []*entity.Program {
	entities := make([]*entity.Program, len(programs))
	for i, p := range programs {
		entities[i] = m.ToEntity(p)
	}
	return entities
}

func (m *ProgramMapper) ToModels(programs []*entity.Program) []*model.Program {
	models := make([]*model.Program, len(programs))
	for i, p := range programs {
		models[i] = m.ToModel(p)
	}
	return models
}
