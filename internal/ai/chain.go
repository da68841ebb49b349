package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
)

// chain asks each explainer in order and keeps the first usable narrative.
type chain struct {
	explainers []Explainer
}

// WithFallback returns an explainer that tries primary first and falls back
// when it is disabled, fails or returns an empty narrative. Nil explainers
// are skipped.
func WithFallback(primary, fallback Explainer) Explainer {
	var list []Explainer
	for _, e := range []Explainer{primary, fallback} {
		if e != nil {
			list = append(list, e)
		}
	}
	switch len(list) {
	case 0:
		return nil
	case 1:
		return list[0]
	}
	return &chain{explainers: list}
}

func (c *chain) Enabled() bool {
	for _, e := range c.explainers {
		if e.Enabled() {
			return true
		}
	}
	return false
}

func (c *chain) Explain(ctx context.Context, input ExplanationInput) (Decision, error) {
	var errs []error
	for i, e := range c.explainers {
		if !e.Enabled() {
			continue
		}
		decision, err := e.Explain(ctx, input)
		if err == nil && strings.TrimSpace(decision.Narrative) == "" {
			err = errors.New("empty narrative")
		}
		if err != nil {
			errs = append(errs, err)
			logrus.WithError(err).WithField("position", i).Warn("explainer failed, trying next")
			continue
		}
		sanitizeDecision(&decision, input.Result.Recommendation)
		return decision, nil
	}
	if len(errs) == 0 {
		return Decision{}, ErrDisabled
	}
	return Decision{}, errors.Join(errs...)
}
