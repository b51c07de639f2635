// Package normalize decodes the loosely structured analysis payload returned by
// the upstream service into a fully populated ai.Result.
package normalize

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jd-matcher/internal/ai"
	"github.com/spigell/jd-matcher/internal/logger"
	"github.com/spigell/jd-matcher/internal/utils"
)

const (
	// SelectionThreshold is the score from which a payload without an explicit
	// match flag counts as a match.
	SelectionThreshold = 70
	// MatchFallbackScore is used when no score is readable but match says YES.
	MatchFallbackScore = 75

	defaultSummary = "Analysis complete."
	defaultName    = "Candidate"

	snippetLength = 100
)

var positiveMatches = map[string]struct{}{
	"yes":      {},
	"true":     {},
	"selected": {},
	"hire":     {},
}

type Normalizer struct {
	logger *zap.Logger
	stages []Stage
}

func New(l *zap.Logger) *Normalizer {
	return &Normalizer{
		logger: logger.OrNop(l),
		stages: DefaultStages(),
	}
}

var defaultNormalizer = New(nil)

// Normalize decodes raw with the default stages and no logging.
func Normalize(raw string) (*ai.Result, error) {
	return defaultNormalizer.Normalize(raw)
}

func (n *Normalizer) Normalize(raw string) (*ai.Result, error) {
	parsed, err := decodeJSON([]byte(raw))
	if err != nil {
		return nil, &ai.InvalidJSONError{Snippet: utils.Preview(raw, snippetLength), Err: err}
	}

	ctx := n.run(parsed)
	return build(ctx), nil
}

// run applies the stages in order and returns the object all field reads use.
func (n *Normalizer) run(v any) Object {
	for _, stage := range n.stages {
		next, applied := stage.Apply(v)
		if !applied {
			continue
		}

		n.logger.Debug("normalize stage applied", zap.String("name", stage.Name()))
		v = next
	}

	obj, ok := asObject(v)
	if !ok {
		n.logger.Debug("payload is not an object; using defaults")
		return Object{}
	}

	return obj
}

func build(o Object) *ai.Result {
	score, ok := o.Number("score")
	if !ok {
		score = 0
		if m := o.Get("match"); m == ai.MatchYes || m == true {
			score = MatchFallbackScore
		}
	}

	match, status := decision(o, score)

	summary := o.Text(defaultSummary, "summary", "reason", "analysis")
	recommendation := o.Text(summary, "recommendation")
	reasoning := o.Text(recommendation, "reasoning")

	return &ai.Result{
		CandidateName:    o.Text(defaultName, "candidate_name"),
		CandidateEmail:   o.Text("", "candidate_email"),
		Score:            score,
		Match:            match,
		Status:           status,
		Summary:          summary,
		Recommendation:   recommendation,
		KeySkillsMatched: o.List("key_skills_matched"),
		SkillsMissing:    o.List("skills_missing"),
		Breakdown:        breakdown(o, score),
		Reasoning:        reasoning,
	}
}

func decision(o Object, score float64) (string, string) {
	if v, found := o.Lookup("match"); found {
		if _, ok := positiveMatches[strings.ToLower(looseString(v))]; ok {
			return ai.MatchYes, ai.StatusSelected
		}
		return ai.MatchNo, ai.StatusRejected
	}

	if score >= SelectionThreshold {
		return ai.MatchYes, ai.StatusSelected
	}
	return ai.MatchNo, ai.StatusRejected
}

func breakdown(o Object, score float64) ai.Breakdown {
	b, ok := o.Object("analysis_breakdown")
	if !ok {
		return ai.Breakdown{
			TechnicalScore:  score,
			ExperienceScore: score,
			SoftSkillsScore: score,
			OverallScore:    score,
		}
	}

	return ai.Breakdown{
		TechnicalScore:  b.NumberOr("technical_score", 0),
		ExperienceScore: b.NumberOr("experience_score", 0),
		SoftSkillsScore: b.NumberOr("soft_skills_score", 0),
		OverallScore:    overall(b, score),
	}
}

// overall falls back to the top-level score for a missing, unreadable or zero
// overall_score.
func overall(b Object, score float64) float64 {
	if n, ok := b.Number("overall_score"); ok && n != 0 {
		return n
	}
	return score
}
