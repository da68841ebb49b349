package api

import (
	"strings"
	"time"

	"decision-analyzer/internal/scoring"
	"decision-analyzer/internal/store"
)

// EvaluateRequest is the payload of a single evaluation.
type EvaluateRequest struct {
	Scenario        string   `json:"scenario"`
	RiskProbability *float64 `json:"risk_probability"`
	SafeValue       float64  `json:"safe_value"`
	RiskyValue      float64  `json:"risky_value"`
	ComparisonModel string   `json:"comparison_model"`
	Label           string   `json:"label"`
	Locale          string   `json:"locale"`
	Explain         bool     `json:"explain"`
	DryRun          bool     `json:"dry_run"`
}

// DisplayDTO carries the values already formatted for a form readout.
type DisplayDTO struct {
	SafeProbability    string `json:"safe_probability"`
	RiskProbability    string `json:"risk_probability"`
	SafeExpectedValue  string `json:"safe_expected_value"`
	RiskyExpectedValue string `json:"risky_expected_value"`
}

// EvaluationDTO is the API representation for an evaluation.
type EvaluationDTO struct {
	ID                 string               `json:"id,omitempty"`
	BatchID            *uint                `json:"batch_id,omitempty"`
	RowIndex           int                  `json:"row_index,omitempty"`
	Label              string               `json:"label,omitempty"`
	Locale             string               `json:"locale"`
	Scenario           string               `json:"scenario"`
	ComparisonModel    string               `json:"comparison_model"`
	ModelText          string               `json:"model_text"`
	RiskProbability    float64              `json:"risk_probability"`
	SafeProbability    float64              `json:"safe_probability"`
	SafeValue          float64              `json:"safe_value"`
	RiskyValue         float64              `json:"risky_value"`
	SafeExpectedValue  float64              `json:"safe_expected_value"`
	RiskyExpectedValue float64              `json:"risky_expected_value"`
	Quadrant           int                  `json:"quadrant"`
	QuadrantTitle      string               `json:"quadrant_title"`
	BiasLabel          string               `json:"bias_label"`
	BiasDescription    string               `json:"bias_description"`
	Recommendation     string               `json:"recommendation"`
	RecommendationText string               `json:"recommendation_text"`
	Display            DisplayDTO           `json:"display"`
	Points             []scoring.ChartPoint `json:"points"`
	Narrative          string               `json:"narrative,omitempty"`
	NarrativeSource    string               `json:"narrative_source,omitempty"`
	CreatedAt          *time.Time           `json:"created_at,omitempty"`
}

// EvaluationsResponse holds evaluation items and totals.
type EvaluationsResponse struct {
	Items []EvaluationDTO `json:"items"`
	Total int64           `json:"total"`
}

// QuadrantDTO describes one row of the classification table.
type QuadrantDTO struct {
	Quadrant        int    `json:"quadrant"`
	Scenario        string `json:"scenario"`
	Probable        bool   `json:"probable"`
	Condition       string `json:"condition"`
	Title           string `json:"title"`
	BiasLabel       string `json:"bias_label"`
	BiasDescription string `json:"bias_description"`
}

// OptionDTO pairs an enum code with its display text.
type OptionDTO struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// BatchDTO represents metadata for an uploaded CSV dataset.
type BatchDTO struct {
	ID               uint      `json:"id"`
	JobID            string    `json:"job_id"`
	Name             string    `json:"name"`
	Owner            string    `json:"owner"`
	OriginalFilename string    `json:"original_filename"`
	RowCount         int       `json:"row_count"`
	EvaluatedRows    int       `json:"evaluated_rows"`
	InvalidRows      int       `json:"invalid_rows"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

// BatchesResponse is the paginated response for CSV batches.
type BatchesResponse struct {
	Items []BatchDTO `json:"items"`
	Total int64      `json:"total"`
}

// RowError reports a CSV row that could not be evaluated.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// BatchUploadResponse reports batch statistics after processing a CSV upload.
type BatchUploadResponse struct {
	Batch           BatchDTO         `json:"batch"`
	Errors          []RowError       `json:"errors"`
	Quadrants       map[string]int64 `json:"quadrants"`
	Recommendations map[string]int64 `json:"recommendations"`
}

// StatsResponse summarises stored evaluations.
type StatsResponse struct {
	Total           int64            `json:"total"`
	Quadrants       map[string]int64 `json:"quadrants"`
	Recommendations map[string]int64 `json:"recommendations"`
}

// resultFromModel rebuilds the evaluator result persisted in a row.
func resultFromModel(e store.Evaluation) scoring.Result {
	return scoring.Result{
		Scenario:   scoring.Scenario(e.Scenario),
		Model:      scoring.ComparisonModel(e.ComparisonModel),
		SafeValue:  e.SafeValue,
		RiskyValue: e.RiskyValue,
		ExpectedValues: scoring.ExpectedValues{
			SafeProbability:    e.SafeProbability,
			RiskProbability:    e.RiskProbability,
			SafeExpectedValue:  e.SafeExpectedValue,
			RiskyExpectedValue: e.RiskyExpectedValue,
		},
		QuadrantResult: scoring.QuadrantResult{
			Quadrant:        scoring.Quadrant(e.Quadrant),
			BiasLabel:       e.BiasLabel,
			BiasDescription: e.BiasDescription,
		},
		Recommendation: scoring.Recommendation(e.Recommendation),
	}
}

// modelFromResult converts an evaluator result into a store row.
func modelFromResult(r scoring.Result, locale, label string) store.Evaluation {
	return store.Evaluation{
		Label:              strings.TrimSpace(label),
		Locale:             locale,
		Scenario:           string(r.Scenario),
		ComparisonModel:    string(r.Model),
		RiskProbability:    r.RiskProbability,
		SafeProbability:    r.SafeProbability,
		SafeValue:          r.SafeValue,
		RiskyValue:         r.RiskyValue,
		SafeExpectedValue:  r.SafeExpectedValue,
		RiskyExpectedValue: r.RiskyExpectedValue,
		Quadrant:           int(r.Quadrant),
		BiasLabel:          r.BiasLabel,
		BiasDescription:    r.BiasDescription,
		Recommendation:     string(r.Recommendation),
	}
}

// FromModel converts a store.Evaluation into the DTO representation.
func FromModel(e store.Evaluation, catalog *scoring.Catalog) EvaluationDTO {
	r := resultFromModel(e)
	dto := EvaluationDTO{
		ID:                 e.PublicID,
		BatchID:            e.BatchID,
		RowIndex:           e.RowIndex,
		Label:              e.Label,
		Locale:             e.Locale,
		Scenario:           e.Scenario,
		ComparisonModel:    e.ComparisonModel,
		ModelText:          catalog.ModelText(r.Model, e.Locale),
		RiskProbability:    e.RiskProbability,
		SafeProbability:    e.SafeProbability,
		SafeValue:          e.SafeValue,
		RiskyValue:         e.RiskyValue,
		SafeExpectedValue:  e.SafeExpectedValue,
		RiskyExpectedValue: e.RiskyExpectedValue,
		Quadrant:           e.Quadrant,
		QuadrantTitle:      catalog.Describe(r.Quadrant, e.Locale).Title,
		BiasLabel:          e.BiasLabel,
		BiasDescription:    e.BiasDescription,
		Recommendation:     e.Recommendation,
		RecommendationText: catalog.RecommendationText(r.Recommendation, e.Locale),
		Display: DisplayDTO{
			SafeProbability:    scoring.FormatProbability(e.SafeProbability),
			RiskProbability:    scoring.FormatProbability(e.RiskProbability),
			SafeExpectedValue:  scoring.FormatCurrency(e.SafeExpectedValue),
			RiskyExpectedValue: scoring.FormatCurrency(e.RiskyExpectedValue),
		},
		Points:          scoring.ScatterPoints(r),
		Narrative:       strings.TrimSpace(e.Narrative),
		NarrativeSource: e.NarrativeSource,
	}
	if !e.CreatedAt.IsZero() {
		created := e.CreatedAt
		dto.CreatedAt = &created
	}
	return dto
}

// BatchFromModel converts a store.Batch into a DTO.
func BatchFromModel(b store.Batch) BatchDTO {
	return BatchDTO{
		ID:               b.ID,
		JobID:            b.JobID,
		Name:             b.Name,
		Owner:            b.Owner,
		OriginalFilename: b.OriginalFilename,
		RowCount:         b.RowCount,
		EvaluatedRows:    b.EvaluatedRows,
		InvalidRows:      b.InvalidRows,
		ProcessingTimeMs: b.ProcessingTimeMs,
		CreatedAt:        b.CreatedAt,
	}
}
