package domain

import "time"

// Response holds one respondent's answers to a survey.
// Answers are stored opaquely; positional alignment with the survey's
// questions is the client's responsibility. Responses are insert-only.
type Response struct {
	ID          string
	SurveyID    string
	UserID      string
	Answers     []any
	SubmittedAt time.Time
}
