package ai

import (
	"context"
	"fmt"
	"strings"

	"decision-analyzer/internal/scoring"
)

const SourceTemplate = "template"

// TemplateExplainer narrates a result from the catalog text alone. It is
// always enabled and never fails.
type TemplateExplainer struct{}

// NewTemplateExplainer returns the local explainer.
func NewTemplateExplainer() *TemplateExplainer {
	return &TemplateExplainer{}
}

// Enabled always reports true.
func (t *TemplateExplainer) Enabled() bool { return true }

// Explain builds a two-sentence narrative.
func (t *TemplateExplainer) Explain(_ context.Context, input ExplanationInput) (Decision, error) {
	r := input.Result
	safe := scoring.FormatCurrency(r.SafeExpectedValue)
	risky := scoring.FormatCurrency(r.RiskyExpectedValue)

	var first, second string
	if strings.HasPrefix(strings.ToLower(input.Locale), "es") {
		first = fmt.Sprintf("La opción segura vale %s en valor esperado frente a %s de la opción riesgosa: %s.", safe, risky, strings.ToLower(input.RecommendationText))
		second = fmt.Sprintf("%s: %s (%s).", r.Title, r.BiasLabel, strings.TrimSuffix(r.BiasDescription, "."))
	} else {
		first = fmt.Sprintf("The safe option is worth %s in expected value against %s for the risky option, so: %s.", safe, risky, strings.ToLower(input.RecommendationText))
		second = fmt.Sprintf("%s suggests %s (%s).", r.Title, strings.ToLower(r.BiasLabel), r.BiasDescription)
	}
	return Decision{
		Narrative:      first + "\n" + second,
		Recommendation: string(r.Recommendation),
		Source:         SourceTemplate,
	}, nil
}
