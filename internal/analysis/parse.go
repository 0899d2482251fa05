package analysis

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/harvestlane/contactsync/internal/models"
)

// jsonBlock extracts the first {...} span from a model response.
var jsonBlock = regexp.MustCompile(`(?s)(\{.*\})`)

// codeFence strips markdown code block markers the model sometimes adds.
var codeFence = regexp.MustCompile("```json|```")

// ParseResponse extracts a MessageAnalysis from a model's text response.
// Models are asked for pure JSON but do not always comply; when no JSON can
// be found, the sentiment is sniffed from the raw text and the text itself
// becomes the summary.
func ParseResponse(text string) *models.MessageAnalysis {
	if match := jsonBlock.FindStringSubmatch(text); match != nil {
		cleaned := strings.TrimSpace(codeFence.ReplaceAllString(match[1], ""))

		var decoded struct {
			Sentiment  string   `json:"sentiment"`
			Summary    string   `json:"summary"`
			Keywords   []string `json:"keywords"`
			Suggestion string   `json:"suggestion"`
		}
		if err := json.Unmarshal([]byte(cleaned), &decoded); err == nil {
			return &models.MessageAnalysis{
				Sentiment:  normalizeSentiment(decoded.Sentiment),
				Summary:    decoded.Summary,
				Keywords:   decoded.Keywords,
				Suggestion: decoded.Suggestion,
			}
		}
	}

	// Fallback: sniff the sentiment from the raw text.
	sentiment := "neutral"
	lower := strings.ToLower(text)
	if strings.Contains(lower, "positive") {
		sentiment = "positive"
	} else if strings.Contains(lower, "negative") {
		sentiment = "negative"
	}

	summary := text
	if len(summary) > 200 {
		summary = summary[:200] + "..."
	}

	return &models.MessageAnalysis{
		Sentiment: sentiment,
		Summary:   summary,
		Keywords:  []string{},
	}
}

// normalizeSentiment coerces provider variants onto the three-value scale.
func normalizeSentiment(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return "positive"
	case "negative":
		return "negative"
	default:
		return "neutral"
	}
}
