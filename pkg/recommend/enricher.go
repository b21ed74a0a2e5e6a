package recommend

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"edupath-be/internal/entity"

	"gopkg.in/yaml.v3"
)

// Enricher fills the presentation fields of a match. It must not touch ranking fields.
type Enricher interface {
	Enrich(m *entity.MatchResult, kind Kind)
}

// Kind tells the enricher how the match was produced.
type Kind string

const (
	KindRanked      Kind = "ranked"
	KindReplacement Kind = "replacement"
)

// TierTemplate holds the narrative for one tier. String fields accept the
// placeholders {school}, {program}, {region}, {field} and {rank}.
type TierTemplate struct {
	Reason         string   `yaml:"reason"`
	Deadline       string   `yaml:"deadline"`
	Tuition        string   `yaml:"tuition"`
	Requirements   string   `yaml:"requirements"`
	EmploymentRate string   `yaml:"employment_rate"`
	Gaps           []string `yaml:"gaps"`
	Suggestions    string   `yaml:"suggestions"`
}

type EnrichmentTable struct {
	Target            TierTemplate `yaml:"target"`
	Reach             TierTemplate `yaml:"reach"`
	TargetReplacement TierTemplate `yaml:"target_replacement"`
	ReachReplacement  TierTemplate `yaml:"reach_replacement"`
}

func DefaultEnrichmentTable() *EnrichmentTable {
	return &EnrichmentTable{
		Target: TierTemplate{
			Reason:         "Great match for your background in {region}",
			Deadline:       "2025-01-15",
			Tuition:        "$43,000",
			Requirements:   "Basic background sufficient",
			EmploymentRate: "92%",
		},
		Reach: TierTemplate{
			Reason:         "Top-tier program at {school}",
			Deadline:       "2025-12-01",
			Tuition:        "$77,000",
			Requirements:   "Strong academic background required",
			EmploymentRate: "98%",
			Gaps:           []string{"Advanced Math", "Research Experience"},
			Suggestions:    "Complete prerequisite courses and gain research experience",
		},
		TargetReplacement: TierTemplate{
			Reason:       "Additional quality program recommendation",
			Deadline:     "2025-02-01",
			Tuition:      "$45,000",
			Requirements: "Standard requirements",
		},
		ReachReplacement: TierTemplate{
			Reason:       "Top-tier program supplementary recommendation",
			Deadline:     "2025-12-01",
			Tuition:      "$75,000",
			Requirements: "Excellent academic background",
			Gaps:         []string{"Stronger academic background"},
			Suggestions:  "Improve GPA and research experience",
		},
	}
}

// LoadEnrichmentTable reads a YAML table. Tiers missing from the file keep their defaults.
func LoadEnrichmentTable(path string) (*EnrichmentTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read enrichment table: %w", err)
	}
	table := DefaultEnrichmentTable()
	if err := yaml.Unmarshal(data, table); err != nil {
		return nil, fmt.Errorf("parse enrichment table %s: %w", path, err)
	}
	return table, nil
}

// TableEnricher renders an EnrichmentTable into match results.
type TableEnricher struct {
	table *EnrichmentTable
}

func NewTableEnricher(table *EnrichmentTable) *TableEnricher {
	if table == nil {
		table = DefaultEnrichmentTable()
	}
	return &TableEnricher{table: table}
}

func (e *TableEnricher) template(tier entity.Tier, kind Kind) TierTemplate {
	switch {
	case tier == entity.TierReach && kind == KindReplacement:
		return e.table.ReachReplacement
	case tier == entity.TierReach:
		return e.table.Reach
	case kind == KindReplacement:
		return e.table.TargetReplacement
	default:
		return e.table.Target
	}
}

func (e *TableEnricher) Enrich(m *entity.MatchResult, kind Kind) {
	t := e.template(m.Tier, kind)
	r := strings.NewReplacer(
		"{school}", m.SchoolName,
		"{program}", m.ProgramName,
		"{region}", m.Region,
		"{field}", m.Field,
		"{rank}", strconv.Itoa(m.Rank),
	)

	m.Reason = r.Replace(t.Reason)
	m.Deadline = r.Replace(t.Deadline)
	m.Tuition = r.Replace(t.Tuition)
	m.Requirements = r.Replace(t.Requirements)
	m.EmploymentRate = r.Replace(t.EmploymentRate)
	m.Suggestions = r.Replace(t.Suggestions)
	m.Gaps = nil
	if len(t.Gaps) > 0 {
		m.Gaps = slices.Clone(t.Gaps)
	}
}
