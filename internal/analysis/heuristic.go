package analysis

import (
	"regexp"
	"sort"
	"strings"

	"github.com/harvestlane/contactsync/internal/models"
)

// stopwords are excluded from keyword extraction.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "can": true, "do": true, "for": true,
	"from": true, "had": true, "has": true, "have": true, "i": true, "if": true,
	"in": true, "is": true, "it": true, "its": true, "me": true, "my": true,
	"no": true, "not": true, "of": true, "on": true, "or": true, "our": true,
	"so": true, "that": true, "the": true, "their": true, "them": true,
	"there": true, "they": true, "this": true, "to": true, "was": true,
	"we": true, "were": true, "will": true, "with": true, "would": true,
	"you": true, "your": true,
}

// positiveWords and negativeWords form a small sentiment lexicon tuned for
// customer inquiries.
var positiveWords = map[string]bool{
	"amazing": true, "appreciate": true, "awesome": true, "best": true,
	"delicious": true, "excellent": true, "fantastic": true, "fresh": true,
	"friendly": true, "good": true, "great": true, "happy": true,
	"helpful": true, "love": true, "loved": true, "perfect": true,
	"pleased": true, "recommend": true, "thank": true, "thanks": true,
	"wonderful": true,
}

var negativeWords = map[string]bool{
	"angry": true, "awful": true, "bad": true, "broken": true,
	"complaint": true, "damaged": true, "disappointed": true,
	"disappointing": true, "horrible": true, "issue": true, "late": true,
	"missing": true, "never": true, "poor": true, "problem": true,
	"refund": true, "rotten": true, "rude": true, "terrible": true,
	"unhappy": true, "worst": true, "wrong": true,
}

var wordPattern = regexp.MustCompile(`[a-zA-Z']+`)

var sentenceEnd = regexp.MustCompile(`[.!?]+\s+`)

// Heuristic analyzes messages without any external service: lexicon-based
// sentiment, frequency-based keywords, and a leading-sentence summary.
type Heuristic struct{}

// NewHeuristic creates a Heuristic analyzer.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Analyze produces the requested analysis from the message text alone.
func (h *Heuristic) Analyze(message string, opts models.AnalysisOptions) *models.MessageAnalysis {
	result := &models.MessageAnalysis{Sentiment: "neutral"}

	if opts.IncludeSentiment {
		result.Sentiment = h.sentiment(message)
	}
	if opts.IncludeSummary {
		result.Summary = h.summarize(message)
	}
	if opts.IncludeKeywords {
		result.Keywords = h.keywords(message, 5)
	}
	return result
}

// sentiment scores the message against the lexicon.
func (h *Heuristic) sentiment(message string) string {
	score := 0
	for _, word := range wordPattern.FindAllString(strings.ToLower(message), -1) {
		if positiveWords[word] {
			score++
		}
		if negativeWords[word] {
			score--
		}
	}

	switch {
	case score > 0:
		return "positive"
	case score < 0:
		return "negative"
	default:
		return "neutral"
	}
}

// summarize keeps the first two sentences, capped at 200 characters.
func (h *Heuristic) summarize(message string) string {
	message = strings.TrimSpace(message)

	sentences := sentenceEnd.Split(message, 3)
	summary := message
	if len(sentences) > 2 {
		summary = strings.TrimSpace(sentences[0] + ". " + sentences[1] + ".")
	}

	if len(summary) > 200 {
		summary = summary[:200] + "..."
	}
	return summary
}

// keywords returns the most frequent non-stopwords, ties broken
// alphabetically for deterministic output.
func (h *Heuristic) keywords(message string, limit int) []string {
	counts := make(map[string]int)
	for _, word := range wordPattern.FindAllString(strings.ToLower(message), -1) {
		if len(word) < 3 || stopwords[word] {
			continue
		}
		counts[word]++
	}

	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > limit {
		words = words[:limit]
	}
	return words
}
