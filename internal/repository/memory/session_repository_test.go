package memory

import (
	"context"
	"testing"
	"time"

	"edupath-be/internal/entity"
	"edupath-be/internal/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(time.Hour)

	s := &entity.AdvisingSession{
		Id:            "s1",
		Conversation:  []entity.ConversationMessage{{Role: entity.RoleUser, Content: "hi"}},
		ProfileText:   "hi",
		ProfileVector: []float32{1, 2},
		Status:        entity.SessionStatusAnalyzed,
	}
	require.NoError(t, repo.Create(ctx, s))
	assert.Error(t, repo.Create(ctx, s), "duplicate id")

	got, err := repo.FindByID(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "hi", got.ProfileText)
	assert.False(t, got.CreatedAt.IsZero())

	missing, err := repo.FindByID(ctx, "s2")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSessionRepository_UpdateOnlyNamedFields(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(0)

	require.NoError(t, repo.Create(ctx, &entity.AdvisingSession{
		Id:          "s1",
		ProfileText: "original",
		Status:      entity.SessionStatusAnalyzed,
	}))

	patch := &entity.AdvisingSession{
		Id:          "s1",
		ProfileText: "ignored",
		Status:      entity.SessionStatusMatched,
		TargetList:  []entity.MatchResult{{ProgramId: "p1"}},
	}
	require.NoError(t, repo.Update(ctx, patch, entity.SessionFieldStatus, entity.SessionFieldTargetList))

	got, err := repo.FindByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "original", got.ProfileText)
	assert.Equal(t, entity.SessionStatusMatched, got.Status)
	require.Len(t, got.TargetList, 1)
	assert.NotNil(t, got.UpdatedAt)

	patch.TargetList[0].ProgramId = "mutated"
	got, _ = repo.FindByID(ctx, "s1")
	assert.Equal(t, "p1", got.TargetList[0].ProgramId)
}

func TestSessionRepository_UpdateErrors(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(time.Hour)

	err := repo.Update(ctx, &entity.AdvisingSession{Id: "missing"}, entity.SessionFieldStatus)
	assert.ErrorIs(t, err, apperror.ErrSessionNotFound)

	require.NoError(t, repo.Create(ctx, &entity.AdvisingSession{Id: "s1"}))
	err = repo.Update(ctx, &entity.AdvisingSession{Id: "s1"}, "profile_text")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}
