package quiz

import "github.com/trendtactics/academy-api/internal/apperr"

// Submission is one posted quiz result. Payload keeps every field the caller
// sent so the fallback file stores it verbatim.
type Submission struct {
	Email     string
	Summary   map[string]any
	Answers   []any
	Timestamp string
	Payload   map[string]any
}

// Receipt is the POST /quiz-results response body.
type Receipt struct {
	OK      bool   `json:"ok"`
	ID      any    `json:"id,omitempty"`
	Storage string `json:"storage"`
	Message string `json:"message,omitempty"`
}

// Listing is the GET /quiz-results response body.
type Listing struct {
	OK      bool             `json:"ok"`
	Results []map[string]any `json:"results"`
	Storage string           `json:"storage"`
}

type failure struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ParseSubmission checks that payload carries a summary object and an
// answers array. Email and timestamp are optional strings.
func ParseSubmission(payload map[string]any) (Submission, error) {
	summary, okSummary := payload["summary"].(map[string]any)
	answers, okAnswers := payload["answers"].([]any)
	if !okSummary || !okAnswers {
		return Submission{}, apperr.BadRequest("Missing required fields: summary and answers")
	}
	sub := Submission{Summary: summary, Answers: answers, Payload: payload}
	sub.Email, _ = payload["email"].(string)
	sub.Timestamp, _ = payload["timestamp"].(string)
	return sub, nil
}
