package implementation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"edupath-be/internal/entity"
	"edupath-be/internal/mapper"
	"edupath-be/internal/model"
	"edupath-be/internal/pkg/apperror"
	"edupath-be/internal/repository/contract"
	"edupath-be/internal/repository/specification"

	"gorm.io/gorm"
)

var updatableSessionColumns = map[string]bool{
	entity.SessionFieldStatus:     true,
	entity.SessionFieldTargetList: true,
	entity.SessionFieldReachList:  true,
	entity.SessionFieldTimeline:   true,
}

type AdvisingSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AdvisingSessionMapper
}

func NewAdvisingSessionRepository(db *gorm.DB) contract.AdvisingSessionRepository {
	return &AdvisingSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewAdvisingSessionMapper(),
	}
}

func (r *AdvisingSessionRepositoryImpl) Create(ctx context.Context, session *entity.AdvisingSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *AdvisingSessionRepositoryImpl) FindByID(ctx context.Context, id string) (*entity.AdvisingSession, error) {
	var m model.AdvisingSession
	query := specification.ByID{ID: id}.Apply(r.db.WithContext(ctx))
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

// Update issues a single UPDATE touching only the selected columns plus updated_at.
func (r *AdvisingSessionRepositoryImpl) Update(ctx context.Context, session *entity.AdvisingSession, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	columns := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		if !updatableSessionColumns[f] {
			return fmt.Errorf("%w: session field %q is not updatable", apperror.ErrInvalidInput, f)
		}
		columns = append(columns, f)
	}
	columns = append(columns, "updated_at")

	now := time.Now()
	session.UpdatedAt = &now
	m := r.mapper.ToModel(session)

	res := r.db.WithContext(ctx).
		Model(&model.AdvisingSession{Id: session.Id}).
		Select(columns).
		Updates(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.ErrSessionNotFound
	}
	return nil
}
