package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"decision-analyzer/internal/scoring"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		logrus.Fatalf("evaluate: %v", err)
	}
}

type report struct {
	Scenario           string               `json:"scenario"`
	ComparisonModel    string               `json:"comparison_model"`
	SafeProbability    float64              `json:"safe_probability"`
	RiskProbability    float64              `json:"risk_probability"`
	SafeExpectedValue  float64              `json:"safe_expected_value"`
	RiskyExpectedValue float64              `json:"risky_expected_value"`
	Quadrant           int                  `json:"quadrant"`
	QuadrantTitle      string               `json:"quadrant_title"`
	BiasLabel          string               `json:"bias_label"`
	BiasDescription    string               `json:"bias_description"`
	Recommendation     string               `json:"recommendation"`
	RecommendationText string               `json:"recommendation_text"`
	Points             []scoring.ChartPoint `json:"points"`
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		scenario    = fs.String("scenario", "gain", "Scenario framing: gain or loss")
		probability = fs.Float64("p", -1, "Probability of the risky outcome, between 0 and 1")
		safe        = fs.Float64("safe", 0, "Value of the safe option")
		risky       = fs.Float64("risky", 0, "Value of the risky option")
		model       = fs.String("model", "complementary", "Comparison model: complementary or certain_safe")
		locale      = fs.String("locale", scoring.DefaultLocale, "Locale for labels (en, es)")
		catalogPath = fs.String("catalog", "", "Optional JSON catalog overriding the built-in texts")
		asJSON      = fs.Bool("json", false, "Print the result as JSON")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	catalog := scoring.DefaultCatalog()
	if path := strings.TrimSpace(*catalogPath); path != "" {
		loaded, err := scoring.NewCatalog(path)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		catalog = loaded
	}
	if !catalog.HasLocale(*locale) {
		logrus.WithField("locale", *locale).Warn("locale not in catalog, using default")
		*locale = scoring.DefaultLocale
	}

	sc, err := scoring.ParseScenario(*scenario)
	if err != nil {
		return err
	}
	cm, err := scoring.ParseComparisonModel(*model)
	if err != nil {
		return err
	}
	if *safe < 0 || *risky < 0 {
		return fmt.Errorf("%w: values must not be negative", scoring.ErrInvalidInput)
	}

	result, err := catalog.EvaluateStrict(scoring.Input{
		Scenario:        sc,
		RiskProbability: *probability,
		SafeValue:       *safe,
		RiskyValue:      *risky,
		Model:           cm,
	}, *locale)
	if err != nil {
		return err
	}

	out := report{
		Scenario:           string(result.Scenario),
		ComparisonModel:    string(result.Model),
		SafeProbability:    result.SafeProbability,
		RiskProbability:    result.RiskProbability,
		SafeExpectedValue:  result.SafeExpectedValue,
		RiskyExpectedValue: result.RiskyExpectedValue,
		Quadrant:           int(result.Quadrant),
		QuadrantTitle:      result.Title,
		BiasLabel:          result.BiasLabel,
		BiasDescription:    result.BiasDescription,
		Recommendation:     string(result.Recommendation),
		RecommendationText: catalog.RecommendationText(result.Recommendation, *locale),
		Points:             scoring.ScatterPoints(result),
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return writeReport(stdout, catalog, out, *locale)
}

func writeReport(w io.Writer, catalog *scoring.Catalog, r report, locale string) error {
	lines := []string{
		r.QuadrantTitle,
		fmt.Sprintf("%s: %s", r.BiasLabel, r.BiasDescription),
		"",
		catalog.ModelText(scoring.ComparisonModel(r.ComparisonModel), locale),
		fmt.Sprintf("  S  p=%s  EV=%s", scoring.FormatProbability(r.SafeProbability), scoring.FormatCurrency(r.SafeExpectedValue)),
		fmt.Sprintf("  R  p=%s  EV=%s", scoring.FormatProbability(r.RiskProbability), scoring.FormatCurrency(r.RiskyExpectedValue)),
		"",
		fmt.Sprintf("%s (%s)", r.RecommendationText, r.Recommendation),
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}
