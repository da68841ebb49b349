package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput marks decision inputs outside the evaluator's domain.
var ErrInvalidInput = errors.New("invalid input")

// Scenario frames the decision as a potential gain or a potential loss.
type Scenario string

const (
	ScenarioGain Scenario = "gain"
	ScenarioLoss Scenario = "loss"
)

// ComparisonModel selects how the safe option's probability is assigned.
// The zero value behaves as ModelComplementary.
type ComparisonModel string

const (
	// ModelComplementary weights the safe option by 1 - p.
	ModelComplementary ComparisonModel = "complementary"
	// ModelCertainSafe treats the safe option as certain (probability 1).
	ModelCertainSafe ComparisonModel = "certain_safe"
)

// Recommendation is the expected-value verdict between the two options.
type Recommendation string

const (
	PreferSafe  Recommendation = "PREFER_SAFE"
	PreferRisky Recommendation = "PREFER_RISKY"
	Equivalent  Recommendation = "EQUIVALENT"
)

// Quadrant is one of the four Kahneman framing quadrants (1-4).
type Quadrant int

const (
	QuadrantGainProbable   Quadrant = 1
	QuadrantGainImprobable Quadrant = 2
	QuadrantLossProbable   Quadrant = 3
	QuadrantLossImprobable Quadrant = 4
)

// ProbableThreshold is the lowest probability treated as "probable".
const ProbableThreshold = 0.5

// Input describes one decision to evaluate.
type Input struct {
	Scenario        Scenario        `json:"scenario"`
	RiskProbability float64         `json:"risk_probability"`
	SafeValue       float64         `json:"safe_value"`
	RiskyValue      float64         `json:"risky_value"`
	Model           ComparisonModel `json:"comparison_model"`
}

// ExpectedValues holds the probability-weighted payoffs of both options.
type ExpectedValues struct {
	SafeProbability    float64 `json:"safe_probability"`
	RiskProbability    float64 `json:"risk_probability"`
	SafeExpectedValue  float64 `json:"safe_expected_value"`
	RiskyExpectedValue float64 `json:"risky_expected_value"`
}

// QuadrantResult is the behavioural classification of a decision.
type QuadrantResult struct {
	Quadrant        Quadrant `json:"quadrant"`
	Title           string   `json:"title"`
	BiasLabel       string   `json:"bias_label"`
	BiasDescription string   `json:"bias_description"`
}

// Result is the full outcome of one evaluation.
type Result struct {
	Scenario   Scenario        `json:"scenario"`
	Model      ComparisonModel `json:"comparison_model"`
	SafeValue  float64         `json:"safe_value"`
	RiskyValue float64         `json:"risky_value"`
	ExpectedValues
	QuadrantResult
	Recommendation Recommendation `json:"recommendation"`
}

// Probable reports whether p falls on the "probable" side of the threshold.
func Probable(p float64) bool {
	return p >= ProbableThreshold
}

// ParseScenario accepts the canonical codes and their Spanish labels.
func ParseScenario(value string) (Scenario, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "gain", "ganancia":
		return ScenarioGain, nil
	case "loss", "pérdida", "perdida":
		return ScenarioLoss, nil
	default:
		return "", fmt.Errorf("%w: unknown scenario %q", ErrInvalidInput, value)
	}
}

// ParseComparisonModel accepts canonical codes as well as the A/B model
// letters. An empty value selects ModelComplementary.
func ParseComparisonModel(value string) (ComparisonModel, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "complementary", "a", "model_a":
		return ModelComplementary, nil
	case "certain_safe", "certain", "b", "model_b":
		return ModelCertainSafe, nil
	default:
		return "", fmt.Errorf("%w: unknown comparison model %q", ErrInvalidInput, value)
	}
}

// Normalize resolves the zero ComparisonModel to its default.
func (m ComparisonModel) Normalize() ComparisonModel {
	if m == "" {
		return ModelComplementary
	}
	return m
}

// Valid reports whether the scenario is one of the declared values.
func (s Scenario) Valid() bool {
	return s == ScenarioGain || s == ScenarioLoss
}

// Valid reports whether the model is one of the declared values.
func (m ComparisonModel) Valid() bool {
	switch m.Normalize() {
	case ModelComplementary, ModelCertainSafe:
		return true
	}
	return false
}

// Valid reports whether the recommendation is one of the declared values.
func (r Recommendation) Valid() bool {
	switch r {
	case PreferSafe, PreferRisky, Equivalent:
		return true
	}
	return false
}

// Scenarios lists the supported scenarios in display order.
func Scenarios() []Scenario {
	return []Scenario{ScenarioGain, ScenarioLoss}
}

// Models lists the supported comparison models in display order.
func Models() []ComparisonModel {
	return []ComparisonModel{ModelComplementary, ModelCertainSafe}
}

// Quadrants lists all quadrants in order.
func Quadrants() []Quadrant {
	return []Quadrant{QuadrantGainProbable, QuadrantGainImprobable, QuadrantLossProbable, QuadrantLossImprobable}
}
