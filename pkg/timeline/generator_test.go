package timeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"edupath-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matchedSession() *entity.AdvisingSession {
	return &entity.AdvisingSession{
		Id:     "s1",
		Status: entity.SessionStatusMatched,
		TargetList: []entity.MatchResult{
			{ProgramId: "p1", SchoolName: "Alpha", Deadline: "2025-01-15", Tier: entity.TierTarget},
			{ProgramId: "p2", SchoolName: "Beta", Tier: entity.TierTarget},
		},
		ReachList: []entity.MatchResult{
			{ProgramId: "p3", SchoolName: "Gamma", Deadline: "2025-12-01", Tier: entity.TierReach},
		},
	}
}

func TestGenerate_Default(t *testing.T) {
	g := NewGenerator(nil)
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return fixed }

	tl := g.Generate(matchedSession())

	require.Len(t, tl.Phases, 3)
	assert.Equal(t, "Background Building", tl.Phases[0].Name)
	assert.Equal(t, "#10B981", tl.Phases[0].Color)
	for _, p := range tl.Phases {
		assert.NotEmpty(t, p.Tasks)
	}
	assert.Len(t, tl.KeyDeadlines, 4)
	assert.Equal(t, "$5,500", tl.TotalEstimatedCost)
	assert.Equal(t, 18, tl.TotalTasks)
	assert.Equal(t, 0.0, tl.CompletionRate)
	assert.Equal(t, fixed, tl.GeneratedAt)
}

func TestGenerate_DefaultIgnoresSessionContent(t *testing.T) {
	g := NewGenerator(DefaultTemplateSet())
	a := g.Generate(matchedSession())
	b := g.Generate(&entity.AdvisingSession{})

	assert.Equal(t, a.Phases, b.Phases)
	assert.Equal(t, a.KeyDeadlines, b.KeyDeadlines)
}

func TestGenerate_Submission(t *testing.T) {
	g := NewGenerator(SubmissionTemplateSet())
	tl := g.Generate(matchedSession())

	require.Len(t, tl.Phases, 2)
	submit := tl.Phases[1]
	require.Len(t, submit.Tasks, 3)
	assert.Equal(t, "Submit Alpha application", submit.Tasks[0].Task)
	assert.Equal(t, "2025-01-15", submit.Tasks[0].Deadline)
	assert.Equal(t, "2025-12-01", submit.Tasks[1].Deadline, "fallback deadline")
	assert.Equal(t, "Apply to Gamma", submit.Tasks[2].Reason)

	require.Len(t, tl.KeyDeadlines, 3)
	assert.Equal(t, "Beta Application Due", tl.KeyDeadlines[1].Event)

	assert.Equal(t, "$450", tl.TotalEstimatedCost)
	assert.Equal(t, 4, tl.TotalTasks)
}

func TestGenerate_SubmissionWithoutProgramsDropsEmptyPhase(t *testing.T) {
	tl := NewGenerator(SubmissionTemplateSet()).Generate(&entity.AdvisingSession{})
	require.Len(t, tl.Phases, 1)
	assert.Equal(t, "Application Prep", tl.Phases[0].Name)
	assert.Empty(t, tl.KeyDeadlines)
	assert.Equal(t, "$0", tl.TotalEstimatedCost)
}

func TestParseCost(t *testing.T) {
	tests := map[string]int64{
		"$1,200":    1200,
		"$49/month": 49,
		"$0":        0,
		"free":      0,
		"":          0,
		" $360 ":    360,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseCost(in), in)
	}
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$5,500", FormatCost(5500))
	assert.Equal(t, "$150", FormatCost(150))
	assert.Equal(t, "$1,234,567", FormatCost(1234567))
}

func TestLoadTemplateSet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "timeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
phases:
  - phase: Visa
    period: "2026-01 to 2026-02"
    tasks:
      - task: Book visa appointment
        deadline: "2026-01-20"
        status: completed
        priority: high
        cost: "$185"
      - task: Gather bank statements
        status: pending
        cost: "$0"
`), 0o644))

	set, err := LoadTemplateSet(path)
	require.NoError(t, err)

	tl := NewGenerator(set).Generate(matchedSession())
	require.Len(t, tl.Phases, 1)
	assert.Equal(t, "$185", tl.TotalEstimatedCost)
	assert.Equal(t, 2, tl.TotalTasks)
	assert.Equal(t, 0.5, tl.CompletionRate)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("phases: []\n"), 0o644))
	_, err = LoadTemplateSet(empty)
	assert.Error(t, err)
}

func TestResolveTemplateSet(t *testing.T) {
	set, err := ResolveTemplateSet("", "")
	require.NoError(t, err)
	assert.Len(t, set.Phases, 3)

	set, err = ResolveTemplateSet("submission", "")
	require.NoError(t, err)
	assert.True(t, set.Phases[1].PerProgram)

	_, err = ResolveTemplateSet("weekly", "")
	assert.Error(t, err)
}
