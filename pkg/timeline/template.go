package timeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TaskTemplate fields accept {school}, {program}, {tier} and {deadline}
// when the enclosing phase is per_program.
type TaskTemplate struct {
	Task     string `yaml:"task"`
	Deadline string `yaml:"deadline"`
	Status   string `yaml:"status"`
	Priority string `yaml:"priority"`
	Reason   string `yaml:"reason"`
	Cost     string `yaml:"cost"`
}

type PhaseTemplate struct {
	Name   string `yaml:"phase"`
	Period string `yaml:"period"`
	Color  string `yaml:"color"`
	// PerProgram repeats Tasks once for every matched program, targets first.
	PerProgram bool           `yaml:"per_program"`
	Tasks      []TaskTemplate `yaml:"tasks"`
}

type DeadlineTemplate struct {
	Date       string `yaml:"date"`
	Event      string `yaml:"event"`
	Type       string `yaml:"type"`
	PerProgram bool   `yaml:"per_program"`
}

// TemplateSet drives the generator. TotalEstimatedCost and TotalTasks
// override the computed sums when set.
type TemplateSet struct {
	Phases             []PhaseTemplate    `yaml:"phases"`
	KeyDeadlines       []DeadlineTemplate `yaml:"key_deadlines"`
	TotalEstimatedCost string             `yaml:"total_estimated_cost"`
	TotalTasks         int                `yaml:"total_tasks"`
	// FallbackDeadline stands in for {deadline} when a match has none.
	FallbackDeadline string `yaml:"fallback_deadline"`
}

// DefaultTemplateSet is the static three-phase plan.
func DefaultTemplateSet() *TemplateSet {
	return &TemplateSet{
		Phases: []PhaseTemplate{
			{
				Name:   "Background Building",
				Period: "2025-01 to 2025-03",
				Color:  "#10B981",
				Tasks: []TaskTemplate{
					{Task: "Complete Prerequisites", Deadline: "2025-02-15", Status: "pending", Priority: "high", Reason: "Required for target programs", Cost: "$1,200"},
					{Task: "Coursera: Calculus Specialization", Deadline: "2025-03-01", Status: "pending", Priority: "medium", Reason: "Math foundation for reach schools", Cost: "$49/month"},
				},
			},
			{
				Name:   "Application Prep",
				Period: "2025-04 to 2025-08",
				Color:  "#3B82F6",
				Tasks: []TaskTemplate{
					{Task: "GRE Preparation & Test", Deadline: "2025-06-15", Status: "upcoming", Priority: "high", Reason: "Required for most programs", Cost: "$220"},
					{Task: "Personal Statement Draft", Deadline: "2025-07-30", Status: "upcoming", Priority: "high", Reason: "Career change story critical", Cost: "$0"},
				},
			},
			{
				Name:   "Application Season",
				Period: "2025-09 to 2025-12",
				Color:  "#8B5CF6",
				Tasks: []TaskTemplate{
					{Task: "Target School Applications Submit", Deadline: "2025-01-15", Status: "upcoming", Priority: "high", Reason: "Top target schools", Cost: "$360"},
					{Task: "Reach School Applications Submit", Deadline: "2025-12-01", Status: "upcoming", Priority: "medium", Reason: "Reach schools", Cost: "$250"},
				},
			},
		},
		KeyDeadlines: []DeadlineTemplate{
			{Date: "2025-01-15", Event: "Target School Applications Due", Type: "application"},
			{Date: "2025-02-01", Event: "Cal State LB MS CS Due", Type: "application"},
			{Date: "2025-06-15", Event: "GRE Test Date", Type: "milestone"},
			{Date: "2025-12-01", Event: "Reach School Applications Due", Type: "application"},
		},
		TotalEstimatedCost: "$5,500",
		TotalTasks:         18,
		FallbackDeadline:   "2025-12-01",
	}
}

// SubmissionTemplateSet plans one application submission per matched program.
func SubmissionTemplateSet() *TemplateSet {
	return &TemplateSet{
		Phases: []PhaseTemplate{
			{
				Name:   "Application Prep",
				Period: "2025-01 to 2025-06",
				Color:  "#3B82F6",
				Tasks: []TaskTemplate{
					{Task: "Prepare application materials", Deadline: "2025-03-01", Status: "pending", Priority: "high", Reason: "Prepare common materials for all schools", Cost: "$0"},
				},
			},
			{
				Name:       "Application Submission",
				Period:     "2025-09 to 2025-12",
				Color:      "#8B5CF6",
				PerProgram: true,
				Tasks: []TaskTemplate{
					{Task: "Submit {school} application", Deadline: "{deadline}", Status: "upcoming", Priority: "high", Reason: "Apply to {school}", Cost: "$150"},
				},
			},
		},
		KeyDeadlines: []DeadlineTemplate{
			{Date: "{deadline}", Event: "{school} Application Due", Type: "application", PerProgram: true},
		},
		FallbackDeadline: "2025-12-01",
	}
}

// LoadTemplateSet reads a YAML template set from path.
func LoadTemplateSet(path string) (*TemplateSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read timeline templates: %w", err)
	}
	var set TemplateSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse timeline templates %s: %w", path, err)
	}
	if len(set.Phases) == 0 {
		return nil, fmt.Errorf("timeline templates %s define no phases", path)
	}
	return &set, nil
}

// ResolveTemplateSet picks a template set: a file wins over a built-in name.
func ResolveTemplateSet(name, path string) (*TemplateSet, error) {
	if path != "" {
		return LoadTemplateSet(path)
	}
	switch name {
	case "", "default":
		return DefaultTemplateSet(), nil
	case "submission":
		return SubmissionTemplateSet(), nil
	default:
		return nil, fmt.Errorf("unknown timeline template set: %s", name)
	}
}
