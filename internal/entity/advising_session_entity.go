package entity

import (
	"slices"
	"strings"
	"time"
)

type SessionStatus string

const (
	SessionStatusCreated   SessionStatus = "created"
	SessionStatusAnalyzed  SessionStatus = "analyzed"
	SessionStatusMatched   SessionStatus = "matched"
	SessionStatusCompleted SessionStatus = "completed"
)

var sessionStatusOrder = map[SessionStatus]int{
	SessionStatusCreated:   0,
	SessionStatusAnalyzed:  1,
	SessionStatusMatched:   2,
	SessionStatusCompleted: 3,
}

// AtLeast reports whether s has reached other in the analyze → match → schedule order.
// Unknown statuses never satisfy the check.
func (s SessionStatus) AtLeast(other SessionStatus) bool {
	a, ok := sessionStatusOrder[s]
	if !ok {
		return false
	}
	return a >= sessionStatusOrder[other]
}

// Max returns the later of the two statuses, so status never moves backwards.
func (s SessionStatus) Max(other SessionStatus) SessionStatus {
	if s.AtLeast(other) {
		return s
	}
	return other
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ConversationMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Column names accepted by partial session updates.
const (
	SessionFieldStatus     = "status"
	SessionFieldTargetList = "target_list"
	SessionFieldReachList  = "reach_list"
	SessionFieldTimeline   = "timeline"
)

// AdvisingSession tracks one applicant from analysis to timeline.
type AdvisingSession struct {
	Id            string
	Conversation  []ConversationMessage
	ProfileText   string
	ProfileVector []float32
	Status        SessionStatus
	TargetList    []MatchResult
	ReachList     []MatchResult
	Timeline      *Timeline
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// ExtractProfileText joins the user-authored turns in order, separated by a single space.
func ExtractProfileText(conversation []ConversationMessage) string {
	parts := make([]string, 0, len(conversation))
	for _, msg := range conversation {
		if msg.Role != RoleUser {
			continue
		}
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		parts = append(parts, content)
	}
	return strings.Join(parts, " ")
}

// Clone returns a copy that shares no slices with s.
func (s *AdvisingSession) Clone() *AdvisingSession {
	if s == nil {
		return nil
	}
	c := *s
	c.Conversation = slices.Clone(s.Conversation)
	c.ProfileVector = slices.Clone(s.ProfileVector)
	c.TargetList = cloneMatches(s.TargetList)
	c.ReachList = cloneMatches(s.ReachList)
	if s.Timeline != nil {
		c.Timeline = s.Timeline.Clone()
	}
	if s.UpdatedAt != nil {
		t := *s.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}

func cloneMatches(in []MatchResult) []MatchResult {
	if in == nil {
		return nil
	}
	out := make([]MatchResult, len(in))
	for i, m := range in {
		m.Gaps = slices.Clone(m.Gaps)
		out[i] = m
	}
	return out
}
