package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"edupath-be/internal/entity"
	"edupath-be/internal/pkg/apperror"
	"edupath-be/internal/pkg/logger"
	"edupath-be/internal/repository/contract"
	"edupath-be/pkg/embedding"
	"edupath-be/pkg/events"
	"edupath-be/pkg/keylock"
	"edupath-be/pkg/recommend"
	"edupath-be/pkg/timeline"

	"github.com/google/uuid"
)

const moduleAdvising = "ADVISING"

// minListSize is the list length below which an adjustment pulls in a replacement.
const minListSize = 2

const ActionRemoveSchool = "remove_school"

// Adjustment is a user edit of the recommended lists.
type Adjustment struct {
	Action    string
	ProgramId string
	Tier      entity.Tier
}

type IAdvisingService interface {
	StartAnalysis(ctx context.Context, conversation []entity.ConversationMessage) (string, error)
	FetchMatches(ctx context.Context, sessionID string) (*recommend.Recommendation, error)
	FetchTimeline(ctx context.Context, sessionID string) (*entity.Timeline, error)
	GetSession(ctx context.Context, sessionID string) (*entity.AdvisingSession, error)
	AdjustRecommendations(ctx context.Context, sessionID string, adj Adjustment) (*entity.AdvisingSession, error)
}

type advisingService struct {
	sessions    contract.AdvisingSessionRepository
	embedder    embedding.Embedder
	recommender *recommend.Recommender
	timeline    *timeline.Generator
	publisher   events.Publisher
	logger      logger.ILogger
	locks       *keylock.KeyedMutex
	newID       func() string
}

func NewAdvisingService(
	sessions contract.AdvisingSessionRepository,
	embedder embedding.Embedder,
	recommender *recommend.Recommender,
	generator *timeline.Generator,
	publisher events.Publisher,
	log logger.ILogger,
) IAdvisingService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &advisingService{
		sessions:    sessions,
		embedder:    embedder,
		recommender: recommender,
		timeline:    generator,
		publisher:   publisher,
		logger:      log,
		locks:       keylock.New(),
		newID:       uuid.NewString,
	}
}

func (s *advisingService) StartAnalysis(ctx context.Context, conversation []entity.ConversationMessage) (string, error) {
	if len(conversation) == 0 {
		return "", fmt.Errorf("%w: conversation is empty", apperror.ErrInvalidInput)
	}
	profileText := entity.ExtractProfileText(conversation)
	if profileText == "" {
		return "", fmt.Errorf("%w: conversation has no user messages", apperror.ErrInvalidInput)
	}

	vector, err := s.embedder.Embed(ctx, profileText)
	if err != nil {
		s.logger.Error(moduleAdvising, "Embedding profile failed", map[string]interface{}{"error": err.Error()})
		return "", fmt.Errorf("%w: %v", apperror.ErrEmbeddingFailure, err)
	}
	if len(vector) == 0 {
		return "", fmt.Errorf("%w: provider returned an empty vector", apperror.ErrEmbeddingFailure)
	}

	session := &entity.AdvisingSession{
		Id:            s.newID(),
		Conversation:  conversation,
		ProfileText:   profileText,
		ProfileVector: vector,
		Status:        entity.SessionStatusAnalyzed,
		TargetList:    []entity.MatchResult{},
		ReachList:     []entity.MatchResult{},
		CreatedAt:     time.Now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", err
	}

	s.logger.Info(moduleAdvising, "Session analyzed", map[string]interface{}{
		"session_id": session.Id,
		"turns":      len(conversation),
		"dimensions": len(vector),
	})
	s.publish(ctx, events.NewSessionEvent(events.SessionAnalyzed, session.Id, nil))

	return session.Id, nil
}

func (s *advisingService) FetchMatches(ctx context.Context, sessionID string) (*recommend.Recommendation, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Status.AtLeast(entity.SessionStatusAnalyzed) || len(session.ProfileVector) == 0 {
		return nil, fmt.Errorf("%w: session %s has no profile vector", apperror.ErrSessionNotReady, sessionID)
	}

	rec, err := s.recommender.Recommend(ctx, session.ProfileVector)
	if err != nil {
		return nil, err
	}

	session.TargetList = rec.Target
	session.ReachList = rec.Reach
	session.Status = session.Status.Max(entity.SessionStatusMatched)
	fields := []string{entity.SessionFieldStatus, entity.SessionFieldTargetList, entity.SessionFieldReachList}

	// A completed session keeps its status, so its timeline must follow the new lists.
	if session.Status == entity.SessionStatusCompleted {
		session.Timeline = s.timeline.Generate(session)
		fields = append(fields, entity.SessionFieldTimeline)
	}

	if err := s.sessions.Update(ctx, session, fields...); err != nil {
		return nil, err
	}

	s.logger.Info(moduleAdvising, "Session matched", map[string]interface{}{
		"session_id": sessionID,
		"targets":    len(rec.Target),
		"reaches":    len(rec.Reach),
		"skipped":    len(rec.Skipped),
	})
	s.publish(ctx, events.NewSessionEvent(events.SessionMatched, sessionID, map[string]interface{}{
		"target_count": len(rec.Target),
		"reach_count":  len(rec.Reach),
	}))

	return rec, nil
}

func (s *advisingService) FetchTimeline(ctx context.Context, sessionID string) (*entity.Timeline, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Status.AtLeast(entity.SessionStatusMatched) {
		return nil, fmt.Errorf("%w: session %s has not been matched", apperror.ErrSessionNotReady, sessionID)
	}

	session.Timeline = s.timeline.Generate(session)
	session.Status = entity.SessionStatusCompleted
	if err := s.sessions.Update(ctx, session, entity.SessionFieldTimeline, entity.SessionFieldStatus); err != nil {
		return nil, err
	}

	s.logger.Info(moduleAdvising, "Timeline generated", map[string]interface{}{
		"session_id": sessionID,
		"phases":     len(session.Timeline.Phases),
		"total_cost": session.Timeline.TotalEstimatedCost,
	})
	s.publish(ctx, events.NewSessionEvent(events.SessionCompleted, sessionID, nil))

	return session.Timeline, nil
}

func (s *advisingService) GetSession(ctx context.Context, sessionID string) (*entity.AdvisingSession, error) {
	return s.load(ctx, sessionID)
}

// AdjustRecommendations removes a program from one list and tops up any list
// that falls below two entries with the closest unused program of that tier's window.
func (s *advisingService) AdjustRecommendations(ctx context.Context, sessionID string, adj Adjustment) (*entity.AdvisingSession, error) {
	if adj.Action != ActionRemoveSchool {
		return nil, fmt.Errorf("%w: unsupported action %q", apperror.ErrInvalidInput, adj.Action)
	}
	if adj.Tier != entity.TierTarget && adj.Tier != entity.TierReach {
		return nil, fmt.Errorf("%w: unknown school type %q", apperror.ErrInvalidInput, adj.Tier)
	}

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Status.AtLeast(entity.SessionStatusMatched) {
		return nil, fmt.Errorf("%w: session %s has not been matched", apperror.ErrSessionNotReady, sessionID)
	}

	list := &session.TargetList
	if adj.Tier == entity.TierReach {
		list = &session.ReachList
	}
	idx := slices.IndexFunc(*list, func(m entity.MatchResult) bool { return m.ProgramId == adj.ProgramId })
	if idx < 0 {
		return nil, fmt.Errorf("%w: program %s is not in the %s list", apperror.ErrInvalidInput, adj.ProgramId, adj.Tier)
	}
	*list = slices.Delete(slices.Clone(*list), idx, idx+1)

	exclude := []string{adj.ProgramId}
	for _, m := range session.TargetList {
		exclude = append(exclude, m.ProgramId)
	}
	for _, m := range session.ReachList {
		exclude = append(exclude, m.ProgramId)
	}

	for _, tier := range []entity.Tier{entity.TierTarget, entity.TierReach} {
		list := &session.TargetList
		if tier == entity.TierReach {
			list = &session.ReachList
		}
		if len(*list) >= minListSize {
			continue
		}
		replacement, err := s.recommender.Replacement(ctx, session.ProfileVector, tier, exclude)
		if err != nil {
			return nil, err
		}
		if replacement == nil {
			continue
		}
		*list = append(*list, *replacement)
		exclude = append(exclude, replacement.ProgramId)
	}

	fields := []string{entity.SessionFieldTargetList, entity.SessionFieldReachList}
	if session.Status == entity.SessionStatusCompleted {
		session.Timeline = s.timeline.Generate(session)
		fields = append(fields, entity.SessionFieldTimeline)
	}
	if err := s.sessions.Update(ctx, session, fields...); err != nil {
		return nil, err
	}

	s.logger.Info(moduleAdvising, "Recommendations adjusted", map[string]interface{}{
		"session_id": sessionID,
		"removed":    adj.ProgramId,
		"tier":       adj.Tier,
		"targets":    len(session.TargetList),
		"reaches":    len(session.ReachList),
	})
	s.publish(ctx, events.NewSessionEvent(events.SessionAdjusted, sessionID, map[string]interface{}{
		"removed_program_id": adj.ProgramId,
	}))

	return session, nil
}

func (s *advisingService) load(ctx context.Context, sessionID string) (*entity.AdvisingSession, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, sessionID)
	}
	return session, nil
}

// publish never fails the caller; the stage is already persisted.
func (s *advisingService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn(moduleAdvising, "Failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}
