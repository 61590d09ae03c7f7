package analysis

import (
	"encoding/json"
	"math"
	"strings"

	domain "github.com/fiscalia/fiscalia-api/internal/domain/analysis"
)

// Normalize turns raw completion text into a complete Result. Model output
// is untrusted: it routinely wraps the JSON in prose or markdown fences
// despite instructions, so extraction is best-effort and any failure falls
// through to the deterministic fallback built from the decoded source text.
// Normalize never fails.
func Normalize(raw, sourceText, filename string) *domain.Result {
	span := jsonSpan(raw)
	if span == "" {
		return fallbackResult(sourceText, filename)
	}

	var res domain.Result
	if err := json.Unmarshal([]byte(span), &res); err != nil {
		return fallbackResult(sourceText, filename)
	}

	// Older prompt revisions emitted insights under strategicInsights only;
	// copy forward when the current field is absent.
	if len(res.Insights) == 0 && len(res.StrategicInsights) > 0 {
		res.Insights = res.StrategicInsights
	}

	// Amount must stay finite and non-negative regardless of what the model
	// returned; re-derive from the source text when it is not.
	if res.Amount < 0 || math.IsNaN(res.Amount) || math.IsInf(res.Amount, 0) {
		res.Amount = extractAmount(sourceText)
	}
	return &res
}

// jsonSpan slices raw from the first '{' to the last '}'. A greedy match is
// deliberate: the object of interest is the outermost one.
func jsonSpan(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}
