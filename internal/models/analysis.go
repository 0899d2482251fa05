package models

// MessageAnalysis is the result of analyzing a customer message for
// sentiment, summary, and keywords.
type MessageAnalysis struct {
	Sentiment  string   `json:"sentiment"` // positive, negative, neutral
	Summary    string   `json:"summary,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// AnalysisOptions selects which parts of the analysis to produce.
type AnalysisOptions struct {
	IncludeSentiment  bool `json:"includeSentiment"`
	IncludeSummary    bool `json:"includeSummary"`
	IncludeKeywords   bool `json:"includeKeywords"`
	IncludeSuggestion bool `json:"includeSuggestion"`
}

// DefaultAnalysisOptions returns the default option set: sentiment, summary
// and keywords enabled, suggestion disabled.
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		IncludeSentiment: true,
		IncludeSummary:   true,
		IncludeKeywords:  true,
	}
}
