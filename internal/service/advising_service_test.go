package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"edupath-be/internal/entity"
	"edupath-be/internal/pkg/apperror"
	"edupath-be/internal/pkg/logger"
	"edupath-be/internal/repository/contract"
	"edupath-be/internal/repository/memory"
	"edupath-be/pkg/events"
	"edupath-be/pkg/recommend"
	"edupath-be/pkg/similarity"
	"edupath-be/pkg/timeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keywordEmbedder scores three topics by keyword presence.
type keywordEmbedder struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (e *keywordEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	e.calls = append(e.calls, text)
	e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	lower := strings.ToLower(text)
	v := []float32{0.1, 0.1, 0.1}
	if strings.Contains(lower, "ai") {
		v[0] += 1
	}
	if strings.Contains(lower, "cs") {
		v[1] += 1
	}
	if strings.Contains(lower, "business") {
		v[2] += 1
	}
	return v, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event.EventType())
	return p.err
}

type fixture struct {
	svc       IAdvisingService
	sessions  contract.AdvisingSessionRepository
	embedder  *keywordEmbedder
	publisher *recordingPublisher
}

func catalogPrograms() []*entity.Program {
	return []*entity.Program{
		{Id: "mit-ai", SchoolName: "MIT", ProgramName: "MS AI", Region: "United States", Rank: 1, Embedding: []float32{1, 0.8, 0}},
		{Id: "cmu-cs", SchoolName: "CMU", ProgramName: "MS CS", Region: "United States", Rank: 10, Embedding: []float32{0.6, 1, 0}},
		{Id: "ucl-ml", SchoolName: "UCL", ProgramName: "MSc ML", Region: "United Kingdom", Rank: 9, Embedding: []float32{0.9, 0.3, 0.1}},
		{Id: "nus-ds", SchoolName: "NUS", ProgramName: "MSc DS", Region: "Singapore", Rank: 8, Embedding: []float32{0.5, 0.5, 0.2}},
		{Id: "usc-cs", SchoolName: "USC", ProgramName: "MS CS", Region: "United States", Rank: 28, Embedding: []float32{0.7, 0.9, 0}},
		{Id: "asu-ai", SchoolName: "ASU", ProgramName: "MS AI", Region: "United States", Rank: 45, Embedding: []float32{0.8, 0.6, 0.1}},
		{Id: "lbs-mba", SchoolName: "LBS", ProgramName: "MBA", Region: "United Kingdom", Rank: 30, Embedding: []float32{0, 0.1, 1}},
	}
}

func newFixture(t *testing.T, templates *timeline.TemplateSet) *fixture {
	t.Helper()
	ctx := context.Background()

	programs := memory.NewProgramRepository()
	require.NoError(t, programs.UpsertBulk(ctx, catalogPrograms()))

	matcher, err := similarity.NewLocalMatcher(programs, logger.NewNopLogger(), similarity.WithWorkers(2), similarity.WithBatchSize(3))
	require.NoError(t, err)
	t.Cleanup(matcher.Release)

	sessions := memory.NewSessionRepository(0)
	embedder := &keywordEmbedder{}
	publisher := &recordingPublisher{}

	svc := NewAdvisingService(
		sessions,
		embedder,
		recommend.NewRecommender(matcher, nil, recommend.DefaultOptions()),
		timeline.NewGenerator(templates),
		publisher,
		logger.NewNopLogger(),
	)
	return &fixture{svc: svc, sessions: sessions, embedder: embedder, publisher: publisher}
}

func userSays(lines ...string) []entity.ConversationMessage {
	var out []entity.ConversationMessage
	for _, l := range lines {
		out = append(out, entity.ConversationMessage{Role: entity.RoleUser, Content: l})
	}
	return out
}

func TestAdvising_EndToEnd(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	id, err := f.svc.StartAnalysis(ctx, userSays("GPA 3.6, CS transfer, interested in AI"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	session, err := f.svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStatusAnalyzed, session.Status)
	assert.Len(t, session.ProfileVector, 3)

	rec, err := f.svc.FetchMatches(ctx, id)
	require.NoError(t, err)
	require.NotEmpty(t, rec.Target)
	assert.LessOrEqual(t, len(rec.Target), 3)
	assert.LessOrEqual(t, len(rec.Reach), 2)
	for _, m := range rec.Target {
		assert.GreaterOrEqual(t, m.AdjustedScore, 0)
		assert.LessOrEqual(t, m.AdjustedScore, 100)
	}
	for _, m := range rec.Reach {
		assert.LessOrEqual(t, m.Rank, 20)
		assert.GreaterOrEqual(t, m.AdjustedScore, 50)
	}

	tl, err := f.svc.FetchTimeline(ctx, id)
	require.NoError(t, err)
	require.NotEmpty(t, tl.Phases)
	for _, p := range tl.Phases {
		assert.NotEmpty(t, p.Tasks)
	}
	assert.NotEmpty(t, tl.TotalEstimatedCost)

	session, err = f.svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStatusCompleted, session.Status)
	assert.NotNil(t, session.Timeline)

	assert.Equal(t, []string{events.SessionAnalyzed, events.SessionMatched, events.SessionCompleted}, f.publisher.events)
}

func TestStartAnalysis_UsesUserTurnsOnly(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.StartAnalysis(context.Background(), []entity.ConversationMessage{
		{Role: entity.RoleAssistant, Content: "Tell me about yourself"},
		{Role: entity.RoleUser, Content: "I studied CS"},
		{Role: entity.RoleAssistant, Content: "Anything else?"},
		{Role: entity.RoleUser, Content: "  I like AI  "},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"I studied CS I like AI"}, f.embedder.calls)
}

func TestStartAnalysis_Validation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.StartAnalysis(ctx, nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = f.svc.StartAnalysis(ctx, []entity.ConversationMessage{{Role: entity.RoleAssistant, Content: "hello"}})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Empty(t, f.embedder.calls)
}

func TestStartAnalysis_EmbeddingFailurePersistsNothing(t *testing.T) {
	f := newFixture(t, nil)
	f.embedder.err = errors.New("provider down")

	id, err := f.svc.StartAnalysis(context.Background(), userSays("CS"))
	assert.ErrorIs(t, err, apperror.ErrEmbeddingFailure)
	assert.Empty(t, id)
	assert.Empty(t, f.publisher.events)
}

func TestStateMachineErrors(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.FetchMatches(ctx, "missing")
	assert.ErrorIs(t, err, apperror.ErrSessionNotFound)
	_, err = f.svc.FetchTimeline(ctx, "missing")
	assert.ErrorIs(t, err, apperror.ErrSessionNotFound)
	_, err = f.svc.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, apperror.ErrSessionNotFound)

	require.NoError(t, f.sessions.Create(ctx, &entity.AdvisingSession{Id: "fresh", Status: entity.SessionStatusCreated}))
	_, err = f.svc.FetchTimeline(ctx, "fresh")
	assert.ErrorIs(t, err, apperror.ErrSessionNotReady)
	_, err = f.svc.FetchMatches(ctx, "fresh")
	assert.ErrorIs(t, err, apperror.ErrSessionNotReady)

	id, err := f.svc.StartAnalysis(ctx, userSays("AI"))
	require.NoError(t, err)
	_, err = f.svc.FetchTimeline(ctx, id)
	assert.ErrorIs(t, err, apperror.ErrSessionNotReady, "timeline needs matches first")
}

func TestFetchMatches_RematchOverwrites(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	id, err := f.svc.StartAnalysis(ctx, userSays("AI"))
	require.NoError(t, err)

	first, err := f.svc.FetchMatches(ctx, id)
	require.NoError(t, err)
	second, err := f.svc.FetchMatches(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, first.Target, second.Target)

	session, err := f.svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStatusMatched, session.Status)
	assert.Equal(t, second.Target, session.TargetList)
	assert.Equal(t, second.Reach, session.ReachList)
}

func TestFetchMatches_CompletedStaysCompleted(t *testing.T) {
	f := newFixture(t, timeline.SubmissionTemplateSet())
	ctx := context.Background()

	id, err := f.svc.StartAnalysis(ctx, userSays("AI"))
	require.NoError(t, err)
	_, err = f.svc.FetchMatches(ctx, id)
	require.NoError(t, err)
	_, err = f.svc.FetchTimeline(ctx, id)
	require.NoError(t, err)

	_, err = f.svc.FetchMatches(ctx, id)
	require.NoError(t, err)

	session, err := f.svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStatusCompleted, session.Status)
	require.NotNil(t, session.Timeline)
	assert.Equal(t, len(session.TargetList)+len(session.ReachList), len(session.Timeline.KeyDeadlines))
}

func TestFetchMatches_ConcurrentCallsSerialise(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	id, err := f.svc.StartAnalysis(ctx, userSays("CS and AI"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.FetchMatches(ctx, id)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	session, err := f.svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStatusMatched, session.Status)
	assert.Len(t, session.TargetList, 3)
}

func TestPublishFailureDoesNotFailStage(t *testing.T) {
	f := newFixture(t, nil)
	f.publisher.err = errors.New("bus down")

	id, err := f.svc.StartAnalysis(context.Background(), userSays("AI"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestAdjustRecommendations(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	id, err := f.svc.StartAnalysis(ctx, userSays("CS transfer, interested in AI"))
	require.NoError(t, err)
	rec, err := f.svc.FetchMatches(ctx, id)
	require.NoError(t, err)
	require.Len(t, rec.Reach, 2)

	removed := rec.Reach[0].ProgramId
	session, err := f.svc.AdjustRecommendations(ctx, id, Adjustment{
		Action:    ActionRemoveSchool,
		ProgramId: removed,
		Tier:      entity.TierReach,
	})
	require.NoError(t, err)

	require.Len(t, session.ReachList, 2, "reach list is topped up")
	for _, m := range session.ReachList {
		assert.NotEqual(t, removed, m.ProgramId)
	}
	added := session.ReachList[1]
	assert.Equal(t, 60, added.AdjustedScore)
	assert.LessOrEqual(t, added.Rank, 15)
	assert.Equal(t, "Top-tier program supplementary recommendation", added.Reason)

	stored, err := f.svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, session.ReachList, stored.ReachList)
	assert.Equal(t, entity.SessionStatusMatched, stored.Status)
	assert.Nil(t, stored.Timeline)
}

func TestAdjustRecommendations_Errors(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	id, err := f.svc.StartAnalysis(ctx, userSays("AI"))
	require.NoError(t, err)

	_, err = f.svc.AdjustRecommendations(ctx, id, Adjustment{Action: ActionRemoveSchool, ProgramId: "mit-ai", Tier: entity.TierTarget})
	assert.ErrorIs(t, err, apperror.ErrSessionNotReady)

	_, err = f.svc.FetchMatches(ctx, id)
	require.NoError(t, err)

	_, err = f.svc.AdjustRecommendations(ctx, id, Adjustment{Action: "add_school", ProgramId: "mit-ai", Tier: entity.TierTarget})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	_, err = f.svc.AdjustRecommendations(ctx, id, Adjustment{Action: ActionRemoveSchool, ProgramId: "mit-ai", Tier: "safety"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	_, err = f.svc.AdjustRecommendations(ctx, id, Adjustment{Action: ActionRemoveSchool, ProgramId: "lbs-mba", Tier: entity.TierTarget})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	_, err = f.svc.AdjustRecommendations(ctx, "missing", Adjustment{Action: ActionRemoveSchool, ProgramId: "x", Tier: entity.TierTarget})
	assert.ErrorIs(t, err, apperror.ErrSessionNotFound)
}
