package redisstore

import (
	"testing"
	"time"

	"edupath-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeSession(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	updated := created.Add(time.Minute)

	in := &entity.AdvisingSession{
		Id:            "abc",
		Conversation:  []entity.ConversationMessage{{Role: entity.RoleUser, Content: "I study CS"}},
		ProfileText:   "I study CS",
		ProfileVector: []float32{0.5, -0.25},
		Status:        entity.SessionStatusMatched,
		TargetList:    []entity.MatchResult{{ProgramId: "p1", AdjustedScore: 88, Tier: entity.TierTarget}},
		ReachList:     []entity.MatchResult{{ProgramId: "p2", AdjustedScore: 60, Tier: entity.TierReach, Gaps: []string{"Research"}}},
		CreatedAt:     created,
		UpdatedAt:     &updated,
	}

	values, err := EncodeSession(in)
	require.NoError(t, err)
	assert.Equal(t, "matched", values[hashStatus])
	assert.Equal(t, "null", values[hashTimeline])

	out, err := DecodeSession(values)
	require.NoError(t, err)
	assert.Equal(t, in.Id, out.Id)
	assert.Equal(t, in.Conversation, out.Conversation)
	assert.Equal(t, in.ProfileVector, out.ProfileVector)
	assert.Equal(t, in.TargetList, out.TargetList)
	assert.Equal(t, in.ReachList, out.ReachList)
	assert.Nil(t, out.Timeline)
	assert.True(t, created.Equal(out.CreatedAt))
	require.NotNil(t, out.UpdatedAt)
	assert.True(t, updated.Equal(*out.UpdatedAt))
}

func TestDecodeSessionRejectsBadJSON(t *testing.T) {
	_, err := DecodeSession(map[string]string{hashId: "x", hashTargetList: "{not json"})
	assert.Error(t, err)
}

func TestCreateArgs(t *testing.T) {
	values := map[string]string{hashStatus: `"analyzed"`, hashId: `"abc"`}

	args := createArgs(values, 90*time.Second)
	assert.Equal(t, []interface{}{int64(90000), hashId, `"abc"`, hashStatus, `"analyzed"`}, args)

	args = createArgs(values, 0)
	assert.Equal(t, int64(0), args[0])
	assert.Len(t, args, 5)

	args = createArgs(values, -time.Second)
	assert.Equal(t, int64(0), args[0])
}
