package analysis

import (
	"strings"
	"testing"
)

// TestParseResponse_plainJSON verifies the happy path.
func TestParseResponse_plainJSON(t *testing.T) {
	result := ParseResponse(`{"sentiment":"Positive","summary":"All good.","keywords":["eggs","delivery"],"suggestion":"Thank them."}`)

	if result.Sentiment != "positive" {
		t.Errorf("Sentiment = %q, want positive", result.Sentiment)
	}
	if result.Summary != "All good." {
		t.Errorf("Summary = %q", result.Summary)
	}
	if len(result.Keywords) != 2 {
		t.Errorf("Keywords = %v, want 2 entries", result.Keywords)
	}
	if result.Suggestion != "Thank them." {
		t.Errorf("Suggestion = %q", result.Suggestion)
	}
}

// TestParseResponse_codeFence verifies markdown-fenced JSON is accepted.
func TestParseResponse_codeFence(t *testing.T) {
	text := "```json\n{\"sentiment\":\"negative\",\"summary\":\"Complaint.\",\"keywords\":[]}\n```"

	result := ParseResponse(text)
	if result.Sentiment != "negative" {
		t.Errorf("Sentiment = %q, want negative", result.Sentiment)
	}
	if result.Summary != "Complaint." {
		t.Errorf("Summary = %q", result.Summary)
	}
}

// TestParseResponse_surroundingProse verifies JSON embedded in chatter is
// still extracted.
func TestParseResponse_surroundingProse(t *testing.T) {
	text := `Sure! Here is the analysis you asked for:
{"sentiment":"neutral","summary":"A question about hours.","keywords":["hours"]}
Let me know if you need anything else.`

	result := ParseResponse(text)
	if result.Sentiment != "neutral" {
		t.Errorf("Sentiment = %q, want neutral", result.Sentiment)
	}
	if result.Summary != "A question about hours." {
		t.Errorf("Summary = %q", result.Summary)
	}
}

// TestParseResponse_noJSONSniffsSentiment verifies the raw-text fallback.
func TestParseResponse_noJSONSniffsSentiment(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"The overall tone is clearly positive and thankful.", "positive"},
		{"This reads as a negative complaint about shipping.", "negative"},
		{"Hard to tell either way from this message.", "neutral"},
	}

	for _, tc := range cases {
		result := ParseResponse(tc.text)
		if result.Sentiment != tc.want {
			t.Errorf("ParseResponse(%q).Sentiment = %q, want %q", tc.text, result.Sentiment, tc.want)
		}
		if result.Summary == "" {
			t.Errorf("ParseResponse(%q) fallback summary is empty", tc.text)
		}
	}
}

// TestParseResponse_fallbackTruncatesSummary verifies the 200-char cap.
func TestParseResponse_fallbackTruncatesSummary(t *testing.T) {
	long := strings.Repeat("words and more words ", 30)

	result := ParseResponse(long)
	if len(result.Summary) != 203 { // 200 chars + "..."
		t.Errorf("len(Summary) = %d, want 203", len(result.Summary))
	}
	if !strings.HasSuffix(result.Summary, "...") {
		t.Error("truncated summary should end with ellipsis")
	}
}

// TestParseResponse_malformedJSONFallsBack verifies invalid JSON inside
// braces degrades to sniffing instead of erroring.
func TestParseResponse_malformedJSONFallsBack(t *testing.T) {
	result := ParseResponse(`{"sentiment": "positive", "summary": unquoted}`)

	if result.Sentiment != "positive" {
		t.Errorf("Sentiment = %q, want positive from sniffing", result.Sentiment)
	}
}

// TestNormalizeSentiment verifies coercion onto the three-value scale.
func TestNormalizeSentiment(t *testing.T) {
	cases := map[string]string{
		"positive":   "positive",
		" Positive ": "positive",
		"NEGATIVE":   "negative",
		"neutral":    "neutral",
		"mixed":      "neutral",
		"":           "neutral",
	}
	for input, want := range cases {
		if got := normalizeSentiment(input); got != want {
			t.Errorf("normalizeSentiment(%q) = %q, want %q", input, got, want)
		}
	}
}
