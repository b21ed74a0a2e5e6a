package timeline

import (
	"strconv"
	"strings"
	"time"

	"edupath-be/internal/entity"

	"github.com/dustin/go-humanize"
)

type Generator struct {
	templates *TemplateSet
	now       func() time.Time
}

func NewGenerator(templates *TemplateSet) *Generator {
	if templates == nil {
		templates = DefaultTemplateSet()
	}
	return &Generator{
		templates: templates,
		now:       time.Now,
	}
}

// Generate builds a timeline for the session's current target and reach lists.
// Per-program phases with no matched programs are left out.
func (g *Generator) Generate(session *entity.AdvisingSession) *entity.Timeline {
	programs := make([]entity.MatchResult, 0, len(session.TargetList)+len(session.ReachList))
	programs = append(programs, session.TargetList...)
	programs = append(programs, session.ReachList...)

	t := &entity.Timeline{
		Phases:       []entity.TimelinePhase{},
		KeyDeadlines: []entity.KeyDeadline{},
		GeneratedAt:  g.now(),
	}

	var totalCost int64
	taskCount := 0
	for _, pt := range g.templates.Phases {
		phase := entity.TimelinePhase{
			Name:   pt.Name,
			Period: pt.Period,
			Color:  pt.Color,
			Tasks:  []entity.TimelineTask{},
		}

		if pt.PerProgram {
			for _, m := range programs {
				r := g.replacer(m)
				for _, tt := range pt.Tasks {
					phase.Tasks = append(phase.Tasks, renderTask(tt, r))
				}
			}
		} else {
			for _, tt := range pt.Tasks {
				phase.Tasks = append(phase.Tasks, renderTask(tt, nil))
			}
		}
		if len(phase.Tasks) == 0 {
			continue
		}

		for _, task := range phase.Tasks {
			totalCost += parseCost(task.Cost)
		}
		taskCount += len(phase.Tasks)
		t.Phases = append(t.Phases, phase)
	}

	for _, dt := range g.templates.KeyDeadlines {
		if !dt.PerProgram {
			t.KeyDeadlines = append(t.KeyDeadlines, entity.KeyDeadline{Date: dt.Date, Event: dt.Event, Type: dt.Type})
			continue
		}
		for _, m := range programs {
			r := g.replacer(m)
			t.KeyDeadlines = append(t.KeyDeadlines, entity.KeyDeadline{
				Date:  r.Replace(dt.Date),
				Event: r.Replace(dt.Event),
				Type:  dt.Type,
			})
		}
	}

	t.TotalEstimatedCost = g.templates.TotalEstimatedCost
	if t.TotalEstimatedCost == "" {
		t.TotalEstimatedCost = FormatCost(totalCost)
	}
	t.TotalTasks = g.templates.TotalTasks
	if t.TotalTasks == 0 {
		t.TotalTasks = taskCount
	}
	t.CompletionRate = completionRate(t.Phases)
	return t
}

func (g *Generator) replacer(m entity.MatchResult) *strings.Replacer {
	deadline := m.Deadline
	if deadline == "" {
		deadline = g.templates.FallbackDeadline
	}
	return strings.NewReplacer(
		"{school}", m.SchoolName,
		"{program}", m.ProgramName,
		"{tier}", string(m.Tier),
		"{deadline}", deadline,
	)
}

func renderTask(tt TaskTemplate, r *strings.Replacer) entity.TimelineTask {
	render := func(s string) string {
		if r == nil {
			return s
		}
		return r.Replace(s)
	}
	return entity.TimelineTask{
		Task:     render(tt.Task),
		Deadline: render(tt.Deadline),
		Status:   tt.Status,
		Priority: tt.Priority,
		Reason:   render(tt.Reason),
		Cost:     tt.Cost,
	}
}

func completionRate(phases []entity.TimelinePhase) float64 {
	total, done := 0, 0
	for _, p := range phases {
		for _, task := range p.Tasks {
			total++
			if task.Status == "completed" {
				done++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total)
}

// parseCost reads the leading dollar amount of strings like "$1,200" or "$49/month".
// Anything it cannot read counts as zero.
func parseCost(cost string) int64 {
	s := strings.TrimSpace(cost)
	s = strings.TrimPrefix(s, "$")
	end := 0
	for end < len(s) && (s[end] == ',' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(s[:end], ",", ""), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// FormatCost renders whole dollars as "$5,500".
func FormatCost(dollars int64) string {
	return "$" + humanize.Comma(dollars)
}
