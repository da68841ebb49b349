package api

import (
	"errors"
	"strings"
	"testing"

	"decision-analyzer/internal/scoring"
)

func TestParseScenarioCSV(t *testing.T) {
	data := "\ufeffName,Escenario,P,Safe,Risky,Modelo\n" +
		"a,ganancia,0.3,\"$1,000\",5000,\n" +
		"b,loss,0.8,2000,2000,B\n" +
		"c,gain,1.4,1,2,\n" +
		"d,gain,0.5,-1,2,\n" +
		",,,,,\n" +
		"e,draw,0.5,1,2,\n"

	parsed, err := parseScenarioCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.rowCount != 5 {
		t.Fatalf("expected 5 counted rows, got %d", parsed.rowCount)
	}
	if len(parsed.rows) != 2 {
		t.Fatalf("expected 2 valid rows, got %d", len(parsed.rows))
	}

	first := parsed.rows[0]
	if first.label != "a" || first.input.Scenario != scoring.ScenarioGain || first.input.SafeValue != 1000 {
		t.Fatalf("unexpected first row %+v", first)
	}
	if first.input.Model != scoring.ModelComplementary {
		t.Fatalf("expected default model, got %q", first.input.Model)
	}
	if second := parsed.rows[1]; second.input.Model != scoring.ModelCertainSafe || second.rowIndex != 2 {
		t.Fatalf("unexpected second row %+v", second)
	}

	wantRows := []int{3, 4, 5}
	if len(parsed.errors) != len(wantRows) {
		t.Fatalf("expected %d row errors, got %+v", len(wantRows), parsed.errors)
	}
	for i, row := range wantRows {
		if parsed.errors[i].Row != row {
			t.Fatalf("error %d: expected row %d, got %d", i, row, parsed.errors[i].Row)
		}
	}
}

func TestParseScenarioCSVHeaderErrors(t *testing.T) {
	if _, err := parseScenarioCSV(strings.NewReader("")); err == nil {
		t.Fatalf("expected error for empty csv")
	}
	_, err := parseScenarioCSV(strings.NewReader("scenario,label\ngain,x\n"))
	if err == nil || !strings.Contains(err.Error(), "risk_probability") {
		t.Fatalf("expected missing column error, got %v", err)
	}
}

func TestParseNumberThousandsSeparator(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1,500", 1500, true},
		{"$1,234,567.50", 1234567.5, true},
		{"-2,000", -2000, true},
		{"1_000", 1000, true},
		{"0.25", 0.25, true},
		{"1,5", 0, false},
		{"2,50", 0, false},
		{"1,5000", 0, false},
		{",500", 0, false},
		{"1.500,25", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseNumber(colSafe, tc.in)
			if !tc.ok {
				if !errors.Is(err, scoring.ErrInvalidInput) {
					t.Fatalf("expected invalid input for %q, got %v (%v)", tc.in, got, err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("parseNumber(%q) = %v, %v want %v", tc.in, got, err, tc.want)
			}
		})
	}
}

func TestParseScenarioCSVRejectsDecimalComma(t *testing.T) {
	data := "escenario,p,valor_seguro,valor_riesgo\nganancia,0.5,\"1,5\",\"2,5\"\n"
	parsed, err := parseScenarioCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(parsed.rows) != 0 {
		t.Fatalf("expected no valid rows, got %+v", parsed.rows)
	}
	if len(parsed.errors) != 1 || parsed.errors[0].Row != 1 {
		t.Fatalf("expected a row error for row 1, got %+v", parsed.errors)
	}
}
