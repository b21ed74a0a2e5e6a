package implementation

import (
	"context"
	"errors"

	"edupath-be/internal/entity"
	"edupath-be/internal/mapper"
	"edupath-be/internal/model"
	"edupath-be/internal/repository/contract"
	"edupath-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Cosine distance (<=>) is NaN when either side has zero magnitude; such rows score 0.
const similarityExpr = "1 - CASE WHEN (embedding <=> ?) = 'NaN'::float8 THEN 1 ELSE (embedding <=> ?) END"

type ProgramRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProgramMapper
}

func NewProgramRepository(db *gorm.DB) contract.ProgramRepository {
	return &ProgramRepositoryImpl{
		db:     db,
		mapper: mapper.NewProgramMapper(),
	}
}

func (r *ProgramRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProgramRepositoryImpl) UpsertBulk(ctx context.Context, programs []*entity.Program) error {
	if len(programs) == 0 {
		return nil
	}
	models := r.mapper.ToModels(programs)

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"school_name", "program_name", "region", "rank", "field",
				"degree_type", "duration", "description_text", "embedding", "updated_at",
			}),
		}).
		Create(models).Error
}

func (r *ProgramRepositoryImpl) FindByID(ctx context.Context, id string) (*entity.Program, error) {
	var m model.Program
	query := r.applySpecifications(r.db.WithContext(ctx), specification.ByID{ID: id})
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ProgramRepositoryImpl) FindCandidates(ctx context.Context, filter entity.ProgramFilter) ([]*entity.Program, error) {
	var models []*model.Program
	specs := append(specification.FromProgramFilter(filter), specification.InsertionOrder{})
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

// SearchSimilar pushes ranking into pgvector.
// Cosine distance in pgvector is 1 - cosine_similarity, so similarity = 1 - distance.
func (r *ProgramRepositoryImpl) SearchSimilar(ctx context.Context, vector []float32, filter entity.ProgramFilter, limit int) ([]*contract.ScoredProgram, error) {
	if limit <= 0 || len(vector) == 0 {
		return []*contract.ScoredProgram{}, nil
	}

	type result struct {
		model.Program
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(vector)

	specs := append(specification.FromProgramFilter(filter), specification.EmbeddingDims{Dims: len(vector)})
	query := r.db.WithContext(ctx).
		Table("programs").
		Select("programs.*, "+similarityExpr+" AS similarity", queryVector, queryVector)
	query = r.applySpecifications(query, specs...)

	err := query.
		Order("similarity DESC").
		Order("seq ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredProgram, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredProgram{
			Program:    r.mapper.ToEntity(&res.Program),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

func (r *ProgramRepositoryImpl) Count(ctx context.Context, filter entity.ProgramFilter) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Program{}), specification.FromProgramFilter(filter)...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
