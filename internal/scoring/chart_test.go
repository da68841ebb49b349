package scoring

import "testing"

func TestScatterPoints(t *testing.T) {
	tests := []struct {
		name       string
		input      Input
		safeColor  string
		riskyColor string
	}{
		{"risky favoured", Input{Scenario: ScenarioGain, RiskProbability: 0.3, SafeValue: 1000, RiskyValue: 5000}, "red", "green"},
		{"safe favoured", Input{Scenario: ScenarioLoss, RiskProbability: 0.8, SafeValue: 2000, RiskyValue: 2000, Model: ModelCertainSafe}, "green", "red"},
		{"equivalent", Input{Scenario: ScenarioGain, RiskProbability: 0.5, SafeValue: 1000, RiskyValue: 2000, Model: ModelCertainSafe}, "green", "green"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := Evaluate(tc.input)
			points := ScatterPoints(r)
			if len(points) != 2 {
				t.Fatalf("expected 2 points got %d", len(points))
			}
			safe, risky := points[0], points[1]
			if safe.Option != "S" || risky.Option != "R" {
				t.Fatalf("unexpected option order %s/%s", safe.Option, risky.Option)
			}
			if safe.X != r.SafeProbability || safe.Y != r.SafeExpectedValue {
				t.Fatalf("safe point %+v does not match result", safe)
			}
			if risky.X != r.RiskProbability || risky.Y != r.RiskyExpectedValue {
				t.Fatalf("risky point %+v does not match result", risky)
			}
			if safe.Color != tc.safeColor || risky.Color != tc.riskyColor {
				t.Fatalf("expected colors %s/%s got %s/%s", tc.safeColor, tc.riskyColor, safe.Color, risky.Color)
			}
		})
	}
}

func TestFormatting(t *testing.T) {
	if got := FormatProbability(0.7); got != "0.70" {
		t.Fatalf("unexpected probability %q", got)
	}
	tests := map[float64]string{
		700:     "$700",
		1500:    "$1,500",
		1234567: "$1,234,567",
		0:       "$0",
	}
	for in, want := range tests {
		if got := FormatCurrency(in); got != want {
			t.Fatalf("FormatCurrency(%v) = %q want %q", in, got, want)
		}
	}
}
