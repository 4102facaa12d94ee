package application

import (
	"context"
	"time"

	"github.com/sondago/survey-services/api/internal/public/domain"
)

// responseService implements ResponseService.
type responseService struct {
	surveys   SurveyRepository
	responses ResponseRepository
}

// NewResponseService creates a new ResponseService.
func NewResponseService(surveys SurveyRepository, responses ResponseRepository) ResponseService {
	return &responseService{surveys: surveys, responses: responses}
}

// Submit は回答投稿のユースケース本体。チェックは順番に評価し、最初の失敗で打ち切る。
// 重複判定は事前チェックではなく挿入時の一意制約に任せるため、同一ユーザーの
// 同時投稿でも Response が二重に作られることはない。カウンタ加算は挿入成功後のみ。
func (s *responseService) Submit(ctx context.Context, cmd SubmitResponseCommand) (*domain.Response, error) {
	survey, err := s.surveys.FindByID(ctx, cmd.SurveyID)
	if err != nil {
		return nil, err
	}

	if survey.IsCreatedBy(cmd.UserID) {
		return nil, domain.ErrOwnSurvey
	}

	response := &domain.Response{
		SurveyID:    survey.ID,
		UserID:      cmd.UserID,
		Answers:     append([]any{}, cmd.Answers...),
		SubmittedAt: time.Now().UTC(),
	}
	if err := s.responses.Insert(ctx, response); err != nil {
		return nil, err
	}

	if err := s.surveys.IncrementResponseCount(ctx, survey.ID); err != nil {
		return nil, err
	}

	return response, nil
}
