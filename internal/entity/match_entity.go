package entity

type Tier string

const (
	TierTarget Tier = "target"
	TierReach  Tier = "reach"
)

// MatchResult is one recommended program attached to a session.
// It is recomputed every time matching runs.
type MatchResult struct {
	ProgramId     string  `json:"program_id"`
	SchoolName    string  `json:"school_name"`
	ProgramName   string  `json:"program_name"`
	Region        string  `json:"region"`
	Rank          int     `json:"rank"`
	Field         string  `json:"field"`
	DegreeType    string  `json:"degree_type"`
	Duration      string  `json:"duration"`
	RawSimilarity float64 `json:"raw_similarity"`
	AdjustedScore int     `json:"adjusted_score"`
	Tier          Tier    `json:"tier"`

	// Presentation fields filled by an enricher.
	Reason         string   `json:"reason"`
	Deadline       string   `json:"deadline"`
	Tuition        string   `json:"tuition"`
	Requirements   string   `json:"requirements"`
	EmploymentRate string   `json:"employment_rate,omitempty"`
	Gaps           []string `json:"gaps,omitempty"`
	Suggestions    string   `json:"suggestions,omitempty"`
}

// NewMatchResult copies the display fields of p into a result of the given tier.
func NewMatchResult(p *Program, similarity float64, score int, tier Tier) MatchResult {
	return MatchResult{
		ProgramId:     p.Id,
		SchoolName:    p.SchoolName,
		ProgramName:   p.ProgramName,
		Region:        p.Region,
		Rank:          p.Rank,
		Field:         p.Field,
		DegreeType:    p.DegreeType,
		Duration:      p.Duration,
		RawSimilarity: similarity,
		AdjustedScore: score,
		Tier:          tier,
	}
}
