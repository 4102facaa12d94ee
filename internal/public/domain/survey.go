package domain

import "time"

// Survey represents a published question set open for responses.
// Creation and editing live in the management context; this context reads
// surveys and only ever mutates the response counter.
type Survey struct {
	ID            string
	Title         string
	Description   string
	Questions     []any
	CreatedBy     string
	ResponseCount int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsCreatedBy reports whether the given identity owns this survey.
func (s Survey) IsCreatedBy(userID string) bool {
	return userID != "" && userID == s.CreatedBy
}
