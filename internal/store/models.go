package store

import (
	"time"
)

// Evaluation is one persisted decision evaluation.
type Evaluation struct {
	ID                 uint   `gorm:"primaryKey"`
	PublicID           string `gorm:"size:36;uniqueIndex"`
	BatchID            *uint  `gorm:"index"`
	RowIndex           int
	Label              string `gorm:"size:255"`
	Locale             string `gorm:"size:16"`
	Scenario           string `gorm:"size:16;index"`
	ComparisonModel    string `gorm:"size:32;index"`
	RiskProbability    float64
	SafeProbability    float64
	SafeValue          float64
	RiskyValue         float64
	SafeExpectedValue  float64
	RiskyExpectedValue float64
	Quadrant           int       `gorm:"index"`
	BiasLabel          string    `gorm:"size:128"`
	BiasDescription    string    `gorm:"size:255"`
	Recommendation     string    `gorm:"size:32;index"`
	Narrative          string    `gorm:"type:text"`
	NarrativeSource    string    `gorm:"size:32"`
	CreatedAt          time.Time `gorm:"autoCreateTime"`
}

// Batch represents an uploaded CSV file of scenarios.
type Batch struct {
	ID               uint   `gorm:"primaryKey"`
	JobID            string `gorm:"size:36;index"`
	Name             string `gorm:"size:128;index"`
	Owner            string `gorm:"size:128;index"`
	OriginalFilename string `gorm:"size:256"`
	RowCount         int
	EvaluatedRows    int
	InvalidRows      int
	ProcessingTimeMs int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// QuadrantCount is one row of the quadrant summary.
type QuadrantCount struct {
	Quadrant int
	Total    int64
}

// RecommendationCount is one row of the recommendation summary.
type RecommendationCount struct {
	Recommendation string
	Total          int64
}
