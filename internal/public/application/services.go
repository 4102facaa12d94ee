package application

import (
	"context"

	"github.com/sondago/survey-services/api/internal/public/domain"
)

// SurveyRepository abstracts read access to surveys.
// SurveyRepository は Public コンテキストでアンケートを読み取るためのポート。
type SurveyRepository interface {
	Find(ctx context.Context, filter SurveyFilter, paging Paging) ([]domain.Survey, error)
	FindByID(ctx context.Context, id string) (*domain.Survey, error)
	IncrementResponseCount(ctx context.Context, id string) error
}

// ResponseRepository persists respondent submissions.
// Insert must be atomic against duplicates: a second insert for the same
// (survey, user) pair returns domain.ErrAlreadyResponded.
type ResponseRepository interface {
	Insert(ctx context.Context, response *domain.Response) error
	Exists(ctx context.Context, surveyID, userID string) (bool, error)
}

// SurveyFilter expresses search criteria for surveys.
type SurveyFilter struct {
	Keyword   string
	CreatedBy string
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
	Sort  string
}

// SurveyQueryService describes survey read use-cases.
// SurveyQueryService はアンケート参照ユースケースを提供するリーダーモデル。
type SurveyQueryService interface {
	List(ctx context.Context, filter SurveyFilter, paging Paging) ([]domain.Survey, error)
	Detail(ctx context.Context, id, userID string) (*SurveyView, error)
}

// SurveyView is the public projection of a survey for one viewer.
// Answers of other respondents are never part of it.
type SurveyView struct {
	Survey       domain.Survey
	HasResponded bool
}

// ResponseService handles the submission use-case.
type ResponseService interface {
	Submit(ctx context.Context, cmd SubmitResponseCommand) (*domain.Response, error)
}

// SubmitResponseCommand captures an authenticated submission.
type SubmitResponseCommand struct {
	SurveyID string
	UserID   string
	Answers  []any
}
