package public

import (
	"time"

	"github.com/sondago/survey-services/api/internal/public/application"
	"github.com/sondago/survey-services/api/internal/public/domain"
)

// surveyViewResponse はアンケート公開ビューの DTO。キー名は既存クライアントとの互換を保つ。
// 他の回答者の回答内容は決して含めない。
type surveyViewResponse struct {
	ID           string `json:"_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Questions    []any  `json:"questions"`
	CreatedBy    string `json:"created_by"`
	HasResponded bool   `json:"has_responded"`
}

type surveySummaryResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	QuestionCount int    `json:"questionCount"`
	ResponseCount int    `json:"responseCount"`
	CreatedAt     string `json:"createdAt"`
}

type surveyListResponse struct {
	Items []surveySummaryResponse `json:"items"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
	Total int                     `json:"total"`
}

type submitResponseRequest struct {
	Answers []any `json:"answers"`
}

type submitResponseResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	ResponseID  string `json:"responseId"`
	SubmittedAt string `json:"submittedAt"`
}

// buildSurveyViewResponse はドメインの SurveyView をハンドラ DTO へ整形する。
func buildSurveyViewResponse(view application.SurveyView) surveyViewResponse {
	questions := view.Survey.Questions
	if questions == nil {
		questions = []any{}
	}
	return surveyViewResponse{
		ID:           view.Survey.ID,
		Title:        view.Survey.Title,
		Description:  view.Survey.Description,
		Questions:    questions,
		CreatedBy:    view.Survey.CreatedBy,
		HasResponded: view.HasResponded,
	}
}

func buildSurveySummaryResponse(survey domain.Survey) surveySummaryResponse {
	return surveySummaryResponse{
		ID:            survey.ID,
		Title:         survey.Title,
		Description:   survey.Description,
		QuestionCount: len(survey.Questions),
		ResponseCount: survey.ResponseCount,
		CreatedAt:     survey.CreatedAt.UTC().Format(time.RFC3339),
	}
}
