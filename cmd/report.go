package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spigell/jd-matcher/internal/ai"
)

func writeReport(w io.Writer, r *ai.Result) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Candidate: %s", r.CandidateName)
	if r.CandidateEmail != "" {
		fmt.Fprintf(&b, " <%s>", r.CandidateEmail)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Score: %s (%s, match: %s)\n", formatScore(r.Score), r.Status, r.Match)
	fmt.Fprintf(&b, "Breakdown: technical %s, experience %s, soft skills %s, overall %s\n",
		formatScore(r.Breakdown.TechnicalScore),
		formatScore(r.Breakdown.ExperienceScore),
		formatScore(r.Breakdown.SoftSkillsScore),
		formatScore(r.Breakdown.OverallScore),
	)
	fmt.Fprintf(&b, "\nSummary:\n  %s\n", r.Summary)
	fmt.Fprintf(&b, "\nRecommendation:\n  %s\n", r.Recommendation)
	writeList(&b, "Skills matched", r.KeySkillsMatched)
	writeList(&b, "Skills missing", r.SkillsMissing)
	fmt.Fprintf(&b, "\nReasoning:\n  %s\n", r.Reasoning)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, title string, items []string) {
	fmt.Fprintf(b, "\n%s:\n", title)
	if len(items) == 0 {
		b.WriteString("  none\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "  - %s\n", item)
	}
}

func formatScore(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
