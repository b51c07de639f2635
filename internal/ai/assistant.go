// Package ai holds the analysis result model shared by the normalizer, the
// orchestrator and the backends that talk to the upstream analysis service.
package ai

import "context"

const (
	MatchYes = "YES"
	MatchNo  = "NO"

	StatusSelected = "SELECTED"
	StatusRejected = "REJECTED"
)

// Request is the payload sent upstream. Email is optional.
type Request struct {
	JDText     string `json:"jd_text"`
	ResumeText string `json:"resume_text"`
	Email      string `json:"email,omitempty"`
}

type Breakdown struct {
	TechnicalScore  float64 `json:"technical_score"`
	ExperienceScore float64 `json:"experience_score"`
	SoftSkillsScore float64 `json:"soft_skills_score"`
	OverallScore    float64 `json:"overall_score"`
}

// Result is the canonical analysis record. Every field is populated by the
// normalizer; Match and Status always form a consistent pair.
type Result struct {
	CandidateName    string    `json:"candidate_name"`
	CandidateEmail   string    `json:"candidate_email"`
	Score            float64   `json:"score"`
	Match            string    `json:"match"`
	Status           string    `json:"status"`
	Summary          string    `json:"summary"`
	Recommendation   string    `json:"recommendation"`
	KeySkillsMatched []string  `json:"key_skills_matched"`
	SkillsMissing    []string  `json:"skills_missing"`
	Breakdown        Breakdown `json:"analysis_breakdown"`
	Reasoning        string    `json:"reasoning"`
}

// Selected reports whether the candidate was accepted.
func (r *Result) Selected() bool {
	return r != nil && r.Status == StatusSelected
}

// Backend performs the single upstream exchange and returns the raw body.
type Backend interface {
	Send(ctx context.Context, req Request) (string, error)
	// Name identifies the backend in logs.
	Name() string
}
