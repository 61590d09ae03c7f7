package analysis

import (
	"encoding/json"
	"time"
)

// RecordID identifier type
type RecordID string

// Result is the normalized outcome of one analysis run. It always carries
// every field the persister consumes, whether the values came from the
// completion provider or from the deterministic fallback.
type Result struct {
	OperationType  string         `json:"operationType"`
	Category       string         `json:"category"`
	Title          string         `json:"title"`
	Amount         float64        `json:"amount"`
	Taxes          map[string]any `json:"taxes"`
	Insights       []string       `json:"insights,omitempty"`
	MonthlySummary string         `json:"monthlySummary"`

	// Extended advisory fields. Opaque structures produced by the model;
	// stored and returned as-is.
	FinancialAnalysis  map[string]any `json:"financialAnalysis,omitempty"`
	DocumentationGuide map[string]any `json:"documentationGuide,omitempty"`
	PracticalSteps     []string       `json:"practicalSteps,omitempty"`
	LegalObligations   []string       `json:"legalObligations,omitempty"`
	BestPractices      []string       `json:"bestPractices,omitempty"`
	StrategicInsights  []string       `json:"strategicInsights,omitempty"`
	Alerts             []string       `json:"alerts,omitempty"`
}

// Advisory bundles the extended advisory fields into one JSON object for
// storage in a single column.
func (r *Result) Advisory() json.RawMessage {
	adv := map[string]any{}
	if r.FinancialAnalysis != nil {
		adv["financialAnalysis"] = r.FinancialAnalysis
	}
	if r.DocumentationGuide != nil {
		adv["documentationGuide"] = r.DocumentationGuide
	}
	if len(r.PracticalSteps) > 0 {
		adv["practicalSteps"] = r.PracticalSteps
	}
	if len(r.LegalObligations) > 0 {
		adv["legalObligations"] = r.LegalObligations
	}
	if len(r.BestPractices) > 0 {
		adv["bestPractices"] = r.BestPractices
	}
	if len(r.StrategicInsights) > 0 {
		adv["strategicInsights"] = r.StrategicInsights
	}
	if len(r.Alerts) > 0 {
		adv["alerts"] = r.Alerts
	}
	if len(adv) == 0 {
		return nil
	}
	b, err := json.Marshal(adv)
	if err != nil {
		return nil
	}
	return b
}

// Record is an analysis as persisted: one row per upload/analysis event,
// immutable after creation, scoped to its owner.
type Record struct {
	ID             RecordID        `json:"id"`
	UserID         string          `json:"user_id"`
	Title          string          `json:"title"`
	Category       string          `json:"category"`
	Amount         float64         `json:"amount"`
	Taxes          json.RawMessage `json:"taxes"`
	Insights       json.RawMessage `json:"insights,omitempty"`
	MonthlySummary string          `json:"monthly_summary"`
	OriginalData   string          `json:"original_data"`
	OperationType  string          `json:"operation_type"`
	Advisory       json.RawMessage `json:"advisory,omitempty"`
	ArtifactURL    string          `json:"artifact_url,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
