package entity

import (
	"slices"
	"time"
)

type Timeline struct {
	Phases             []TimelinePhase `json:"timeline"`
	KeyDeadlines       []KeyDeadline   `json:"key_deadlines"`
	TotalEstimatedCost string          `json:"total_estimated_cost"`
	TotalTasks         int             `json:"total_tasks"`
	CompletionRate     float64         `json:"completion_rate"`
	GeneratedAt        time.Time       `json:"generated_at"`
}

type TimelinePhase struct {
	Name   string         `json:"phase"`
	Period string         `json:"period"`
	Color  string         `json:"color,omitempty"`
	Tasks  []TimelineTask `json:"tasks"`
}

type TimelineTask struct {
	Task     string `json:"task"`
	Deadline string `json:"deadline"`
	Status   string `json:"status"`   // "pending" | "upcoming" | "completed"
	Priority string `json:"priority"` // "high" | "medium" | "low"
	Reason   string `json:"reason"`
	Cost     string `json:"cost"`
}

type KeyDeadline struct {
	Date  string `json:"date"`
	Event string `json:"event"`
	Type  string `json:"type"` // "application" | "milestone"
}

func (t *Timeline) Clone() *Timeline {
	if t == nil {
		return nil
	}
	c := *t
	c.Phases = make([]TimelinePhase, len(t.Phases))
	for i, p := range t.Phases {
		p.Tasks = slices.Clone(p.Tasks)
		c.Phases[i] = p
	}
	c.KeyDeadlines = slices.Clone(t.KeyDeadlines)
	return &c
}
