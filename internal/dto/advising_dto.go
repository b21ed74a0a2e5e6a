package dto

import (
	"time"

	"edupath-be/internal/entity"
	"edupath-be/pkg/recommend"
)

type ConversationMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content"`
}

type StartAnalysisRequest struct {
	Messages []ConversationMessage `json:"messages" validate:"required,min=1,dive"`
}

func (r *StartAnalysisRequest) ToEntities() []entity.ConversationMessage {
	out := make([]entity.ConversationMessage, len(r.Messages))
	for i, m := range r.Messages {
		out[i] = entity.ConversationMessage{Role: m.Role, Content: m.Content}
	}
	return out
}

type StartAnalysisResponse struct {
	AnalysisId string `json:"analysis_id"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

type SchoolsResponse struct {
	TargetSchools []entity.MatchResult `json:"target_schools"`
	ReachSchools  []entity.MatchResult `json:"reach_schools"`
}

func NewSchoolsResponse(rec *recommend.Recommendation) *SchoolsResponse {
	return &SchoolsResponse{
		TargetSchools: nonNil(rec.Target),
		ReachSchools:  nonNil(rec.Reach),
	}
}

type AdjustRequest struct {
	Action     string `json:"action" validate:"required,oneof=remove_school"`
	SchoolId   string `json:"school_id" validate:"required"`
	SchoolType string `json:"school_type" validate:"required,oneof=target reach"`
}

type AdjustResponse struct {
	TargetSchools     []entity.MatchResult `json:"updated_target_schools"`
	ReachSchools      []entity.MatchResult `json:"updated_reach_schools"`
	Timeline          *entity.Timeline     `json:"updated_timeline,omitempty"`
	AdjustmentMessage string               `json:"adjustment_message"`
}

type SessionResponse struct {
	AnalysisId    string                       `json:"analysis_id"`
	Status        string                       `json:"status"`
	ProfileText   string                       `json:"profile_text"`
	Conversation  []entity.ConversationMessage `json:"conversation"`
	TargetSchools []entity.MatchResult         `json:"target_schools"`
	ReachSchools  []entity.MatchResult         `json:"reach_schools"`
	Timeline      *entity.Timeline             `json:"timeline,omitempty"`
	CreatedAt     time.Time                    `json:"created_at"`
	UpdatedAt     *time.Time                   `json:"updated_at,omitempty"`
}

func NewSessionResponse(s *entity.AdvisingSession) *SessionResponse {
	return &SessionResponse{
		AnalysisId:    s.Id,
		Status:        string(s.Status),
		ProfileText:   s.ProfileText,
		Conversation:  s.Conversation,
		TargetSchools: nonNil(s.TargetList),
		ReachSchools:  nonNil(s.ReachList),
		Timeline:      s.Timeline,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func nonNil(in []entity.MatchResult) []entity.MatchResult {
	if in == nil {
		return []entity.MatchResult{}
	}
	return in
}
