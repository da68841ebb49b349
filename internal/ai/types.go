package ai

import "decision-analyzer/internal/scoring"

// Decision captures the structured response expected from an explainer.
type Decision struct {
	Narrative      string `json:"narrative"`
	Recommendation string `json:"recommendation"`
	Source         string `json:"-"`
}

// ExplanationInput describes the evaluation an explainer narrates.
type ExplanationInput struct {
	Result             scoring.Result
	Locale             string
	ModelText          string
	RecommendationText string
	Label              string
}
