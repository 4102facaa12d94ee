package application

import (
	"context"
	"sort"

	"github.com/sondago/survey-services/api/internal/public/domain"
)

// surveyQueryService implements SurveyQueryService.
type surveyQueryService struct {
	surveys   SurveyRepository
	responses ResponseRepository
}

// NewSurveyQueryService creates a new SurveyQueryService.
func NewSurveyQueryService(surveys SurveyRepository, responses ResponseRepository) SurveyQueryService {
	return &surveyQueryService{surveys: surveys, responses: responses}
}

func (s *surveyQueryService) List(ctx context.Context, filter SurveyFilter, paging Paging) ([]domain.Survey, error) {
	surveys, err := s.surveys.Find(ctx, filter, paging)
	if err != nil {
		return nil, err
	}
	sortSurveys(surveys, paging.Sort)
	return surveys, nil
}

// Detail はアンケート本体と閲覧者の回答済みフラグを組み立てる。
// 匿名閲覧者（userID 空）は常に未回答扱いとする。
func (s *surveyQueryService) Detail(ctx context.Context, id, userID string) (*SurveyView, error) {
	survey, err := s.surveys.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	hasResponded := false
	if userID != "" {
		hasResponded, err = s.responses.Exists(ctx, survey.ID, userID)
		if err != nil {
			return nil, err
		}
	}

	return &SurveyView{Survey: *survey, HasResponded: hasResponded}, nil
}

func sortSurveys(surveys []domain.Survey, sortKey string) {
	switch sortKey {
	case "responses":
		sort.SliceStable(surveys, func(i, j int) bool {
			if surveys[i].ResponseCount == surveys[j].ResponseCount {
				return surveys[i].CreatedAt.After(surveys[j].CreatedAt)
			}
			return surveys[i].ResponseCount > surveys[j].ResponseCount
		})
	default:
		sort.SliceStable(surveys, func(i, j int) bool {
			return surveys[i].CreatedAt.After(surveys[j].CreatedAt)
		})
	}
}
