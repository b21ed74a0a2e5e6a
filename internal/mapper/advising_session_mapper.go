package mapper

import (
	"time"

	"edupath-be/internal/entity"
	"edupath-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type AdvisingSessionMapper struct{}

func NewAdvisingSessionMapper() *AdvisingSessionMapper {
	return &AdvisingSessionMapper{}
}

func (m *AdvisingSessionMapper) ToEntity(s *model.AdvisingSession) *entity.AdvisingSession {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	var vector []float32
	if s.ProfileVector != nil {
		vector = s.ProfileVector.Slice()
	}

	return &entity.AdvisingSession{
		Id:            s.Id,
		Conversation:  []entity.ConversationMessage(s.Conversation),
		ProfileText:   s.ProfileText,
		ProfileVector: vector,
		Status:        entity.SessionStatus(s.Status),
		TargetList:    []entity.MatchResult(s.TargetList),
		ReachList:     []entity.MatchResult(s.ReachList),
		Timeline:      s.Timeline.Data(),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

func (m *AdvisingSessionMapper) ToModel(s *entity.AdvisingSession) *model.AdvisingSession {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	var vector *pgvector.Vector
	if len(s.ProfileVector) > 0 {
		v := pgvector.NewVector(s.ProfileVector)
		vector = &v
	}

	return &model.AdvisingSession{
		Id:            s.Id,
		Conversation:  datatypes.NewJSONSlice(s.Conversation),
		ProfileText:   s.ProfileText,
		ProfileVector: vector,
		Status:        string(s.Status),
		TargetList:    datatypes.NewJSONSlice(s.TargetList),
		ReachList:     datatypes.NewJSONSlice(s.ReachList),
		Timeline:      datatypes.NewJSONType(s.Timeline),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}
