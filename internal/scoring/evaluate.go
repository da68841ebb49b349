package scoring

import (
	"fmt"
	"math"
)

// ComputeExpectedValues weights both options by their probabilities. Values
// are not rounded or clamped.
func ComputeExpectedValues(in Input) ExpectedValues {
	safeP := 1 - in.RiskProbability
	safeEV := safeP * in.SafeValue
	if in.Model.Normalize() == ModelCertainSafe {
		safeP = 1
		safeEV = in.SafeValue
	}
	return ExpectedValues{
		SafeProbability:    safeP,
		RiskProbability:    in.RiskProbability,
		SafeExpectedValue:  safeEV,
		RiskyExpectedValue: in.RiskProbability * in.RiskyValue,
	}
}

// Recommend compares the expected values exactly, without tolerance.
func Recommend(safeExpectedValue, riskyExpectedValue float64) Recommendation {
	switch {
	case safeExpectedValue > riskyExpectedValue:
		return PreferSafe
	case riskyExpectedValue > safeExpectedValue:
		return PreferRisky
	default:
		return Equivalent
	}
}

// Evaluate runs the full evaluation with English catalog text. It never
// fails; use EvaluateStrict to reject out-of-domain input.
func Evaluate(in Input) Result {
	return defaultCatalog.Evaluate(in, DefaultLocale)
}

// Evaluate runs the full evaluation using the locale's text.
func (c *Catalog) Evaluate(in Input, locale string) Result {
	ev := ComputeExpectedValues(in)
	return Result{
		Scenario:       in.Scenario,
		Model:          in.Model.Normalize(),
		SafeValue:      in.SafeValue,
		RiskyValue:     in.RiskyValue,
		ExpectedValues: ev,
		QuadrantResult: c.Classify(in.Scenario, in.RiskProbability, locale),
		Recommendation: Recommend(ev.SafeExpectedValue, ev.RiskyExpectedValue),
	}
}

// Validate rejects inputs outside the evaluator's declared domain. Negative
// values are accepted; callers that need non-negative payoffs check that
// themselves.
func Validate(in Input) error {
	if !in.Scenario.Valid() {
		return fmt.Errorf("%w: unknown scenario %q", ErrInvalidInput, in.Scenario)
	}
	if !in.Model.Valid() {
		return fmt.Errorf("%w: unknown comparison model %q", ErrInvalidInput, in.Model)
	}
	p := in.RiskProbability
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: risk probability %v outside [0,1]", ErrInvalidInput, p)
	}
	if !finite(in.SafeValue) {
		return fmt.Errorf("%w: safe value %v is not finite", ErrInvalidInput, in.SafeValue)
	}
	if !finite(in.RiskyValue) {
		return fmt.Errorf("%w: risky value %v is not finite", ErrInvalidInput, in.RiskyValue)
	}
	return nil
}

// EvaluateStrict validates the input before evaluating it.
func EvaluateStrict(in Input) (Result, error) {
	return defaultCatalog.EvaluateStrict(in, DefaultLocale)
}

// EvaluateStrict validates the input before evaluating it with the locale's
// text.
func (c *Catalog) EvaluateStrict(in Input, locale string) (Result, error) {
	if err := Validate(in); err != nil {
		return Result{}, err
	}
	return c.Evaluate(in, locale), nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
