package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"edupath-be/internal/entity"
)

// maxDescriptionRunes bounds the text sent to the embedder.
const maxDescriptionRunes = 8000

// Record is one program as stored in a seed file.
type Record struct {
	Id          string    `json:"id"`
	SchoolName  string    `json:"school_name"`
	ProgramName string    `json:"program_name"`
	Region      string    `json:"region"`
	Rank        int       `json:"rank"`
	Field       string    `json:"field"`
	DegreeType  string    `json:"degree_type"`
	Duration    string    `json:"duration"`
	Description string    `json:"description"`
	Embedding   []float32 `json:"embedding,omitempty"`
}

func (r Record) ToEntity() *entity.Program {
	return &entity.Program{
		Id:              r.Id,
		SchoolName:      r.SchoolName,
		ProgramName:     r.ProgramName,
		Region:          r.Region,
		Rank:            r.Rank,
		Field:           r.Field,
		DegreeType:      r.DegreeType,
		Duration:        r.Duration,
		DescriptionText: truncateRunes(strings.TrimSpace(r.Description), maxDescriptionRunes),
		Embedding:       r.Embedding,
	}
}

// LoadFile reads a JSON array of records. Every record needs an id and a school name.
func LoadFile(path string) ([]*entity.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) ([]*entity.Program, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode catalog file: %w", err)
	}

	seen := make(map[string]int, len(records))
	programs := make([]*entity.Program, 0, len(records))
	for i, r := range records {
		if r.Id == "" || r.SchoolName == "" {
			return nil, fmt.Errorf("catalog record %d: id and school_name are required", i)
		}
		if r.Rank <= 0 {
			return nil, fmt.Errorf("catalog record %s: rank must be positive", r.Id)
		}
		// later duplicates win but keep the first position
		if j, ok := seen[r.Id]; ok {
			programs[j] = r.ToEntity()
			continue
		}
		seen[r.Id] = len(programs)
		programs = append(programs, r.ToEntity())
	}
	return programs, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
