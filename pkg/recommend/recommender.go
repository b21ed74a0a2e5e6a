package recommend

import (
	"context"
	"fmt"

	"edupath-be/internal/entity"
	"edupath-be/internal/pkg/apperror"
	"edupath-be/pkg/similarity"
)

// Replacement windows: targets ranked
// 20 to 50, reaches ranked 15 or better, with fixed scores.
const (
	replacementTargetMinRank = 20
	replacementTargetMaxRank = 50
	replacementReachMaxRank  = 15
	replacementTargetScore   = 75
	replacementReachScore    = 60
)

type Options struct {
	TargetCount      int
	ReachCount       int
	ReachRankCeiling int
	// Deduplicate drops reach entries that are already targets. The reach list is not refilled.
	Deduplicate bool
}

func DefaultOptions() Options {
	return Options{
		TargetCount:      3,
		ReachCount:       2,
		ReachRankCeiling: 20,
	}
}

type Recommendation struct {
	Target  []entity.MatchResult
	Reach   []entity.MatchResult
	Skipped []similarity.SkippedCandidate
}

type Recommender struct {
	matcher  similarity.Matcher
	enricher Enricher
	opts     Options
}

func NewRecommender(matcher similarity.Matcher, enricher Enricher, opts Options) *Recommender {
	if enricher == nil {
		enricher = NewTableEnricher(nil)
	}
	return &Recommender{
		matcher:  matcher,
		enricher: enricher,
		opts:     opts,
	}
}

func (r *Recommender) Options() Options {
	return r.opts
}

// Recommend runs an unfiltered search for targets and a rank-restricted one for reaches.
// The two lists may share programs unless Deduplicate is set.
func (r *Recommender) Recommend(ctx context.Context, profileVector []float32) (*Recommendation, error) {
	if len(profileVector) == 0 {
		return nil, fmt.Errorf("%w: profile vector is missing", apperror.ErrSessionNotReady)
	}

	targetRes, err := r.matcher.Search(ctx, profileVector, entity.ProgramFilter{}, r.opts.TargetCount)
	if err != nil {
		return nil, err
	}
	// A ceiling below 1 admits no program; MaxRank 0 would mean "unfiltered".
	var reachRes similarity.Result
	if r.opts.ReachRankCeiling > 0 {
		reachRes, err = r.matcher.Search(ctx, profileVector, entity.ProgramFilter{MaxRank: r.opts.ReachRankCeiling}, r.opts.ReachCount)
		if err != nil {
			return nil, err
		}
	}

	rec := &Recommendation{
		Target:  make([]entity.MatchResult, 0, len(targetRes.Matches)),
		Reach:   make([]entity.MatchResult, 0, len(reachRes.Matches)),
		Skipped: append(targetRes.Skipped, reachRes.Skipped...),
	}

	targetIds := make(map[string]bool, len(targetRes.Matches))
	for _, sp := range targetRes.Matches {
		m := entity.NewMatchResult(sp.Program, sp.Similarity, TargetScore(sp.Similarity), entity.TierTarget)
		r.enricher.Enrich(&m, KindRanked)
		rec.Target = append(rec.Target, m)
		targetIds[sp.Program.Id] = true
	}
	for _, sp := range reachRes.Matches {
		if r.opts.Deduplicate && targetIds[sp.Program.Id] {
			continue
		}
		m := entity.NewMatchResult(sp.Program, sp.Similarity, ReachScore(sp.Similarity), entity.TierReach)
		r.enricher.Enrich(&m, KindRanked)
		rec.Reach = append(rec.Reach, m)
	}
	return rec, nil
}

// Replacement finds the most similar program of the tier's replacement window
// that is not in exclude. It returns nil when the window is exhausted.
func (r *Recommender) Replacement(ctx context.Context, profileVector []float32, tier entity.Tier, exclude []string) (*entity.MatchResult, error) {
	if len(profileVector) == 0 {
		return nil, fmt.Errorf("%w: profile vector is missing", apperror.ErrSessionNotReady)
	}

	filter := entity.ProgramFilter{ExcludeIds: exclude}
	score := replacementTargetScore
	switch tier {
	case entity.TierTarget:
		filter.MinRank = replacementTargetMinRank
		filter.MaxRank = replacementTargetMaxRank
	case entity.TierReach:
		filter.MaxRank = replacementReachMaxRank
		score = replacementReachScore
	default:
		return nil, fmt.Errorf("%w: unknown tier %q", apperror.ErrInvalidInput, tier)
	}

	res, err := r.matcher.Search(ctx, profileVector, filter, 1)
	if err != nil {
		return nil, err
	}
	if len(res.Matches) == 0 {
		return nil, nil
	}

	sp := res.Matches[0]
	m := entity.NewMatchResult(sp.Program, sp.Similarity, score, tier)
	r.enricher.Enrich(&m, KindReplacement)
	return &m, nil
}
