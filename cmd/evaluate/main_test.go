package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"decision-analyzer/internal/scoring"
)

func TestRunJSON(t *testing.T) {
	var out bytes.Buffer
	args := []string{"-scenario", "loss", "-p", "0.8", "-safe", "2000", "-risky", "2000", "-model", "certain_safe", "-json"}
	if err := run(args, &out, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}

	var got report
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Quadrant != 3 || got.Recommendation != string(scoring.PreferSafe) {
		t.Fatalf("unexpected report %+v", got)
	}
	if got.SafeExpectedValue != 2000 || got.RiskyExpectedValue != 1600 {
		t.Fatalf("unexpected expected values %+v", got)
	}
}

func TestRunText(t *testing.T) {
	var out bytes.Buffer
	args := []string{"-p", "0.3", "-safe", "1000", "-risky", "5000"}
	if err := run(args, &out, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	text := out.String()
	for _, want := range []string{"Quadrant 2", "Risk seeking", "EV=$1,500", "PREFER_RISKY"} {
		if !strings.Contains(text, want) {
			t.Fatalf("report missing %q:\n%s", want, text)
		}
	}
}

func TestRunLocales(t *testing.T) {
	tests := []struct {
		locale string
		title  string
	}{
		{"es", "CUADRANTE 2"},
		{"es-AR", "CUADRANTE 2"},
		{"fr", "Quadrant 2"},
	}
	for _, tc := range tests {
		t.Run(tc.locale, func(t *testing.T) {
			var out bytes.Buffer
			args := []string{"-p", "0.3", "-safe", "1000", "-risky", "5000", "-locale", tc.locale}
			if err := run(args, &out, io.Discard); err != nil {
				t.Fatalf("run: %v", err)
			}
			text := out.String()
			if !strings.Contains(text, tc.title) || !strings.Contains(text, "EV=$1,500") {
				t.Fatalf("unexpected report for %s:\n%s", tc.locale, text)
			}
		})
	}
}

func TestRunRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing probability", []string{"-safe", "1", "-risky", "2"}},
		{"probability above one", []string{"-p", "1.5"}},
		{"negative value", []string{"-p", "0.5", "-safe", "-1"}},
		{"unknown scenario", []string{"-scenario", "draw", "-p", "0.5"}},
		{"unknown model", []string{"-model", "c", "-p", "0.5"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := run(tc.args, io.Discard, io.Discard)
			if !errors.Is(err, scoring.ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}
