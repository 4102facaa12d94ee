package public

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sondago/survey-services/api/internal/interfaces/http/common"
	publicapp "github.com/sondago/survey-services/api/internal/public/application"
	"github.com/sondago/survey-services/api/internal/public/domain"
)

var testSecret = []byte("handler-test-secret")

// fakeSurveyRepo / fakeResponseRepo stand in for the Mongo repositories so
// the full stack (router, auth middleware, application services, handlers)
// runs in-process.
type fakeSurveyRepo struct {
	surveys map[string]domain.Survey
}

func (r *fakeSurveyRepo) Find(_ context.Context, filter publicapp.SurveyFilter, _ publicapp.Paging) ([]domain.Survey, error) {
	result := make([]domain.Survey, 0, len(r.surveys))
	for _, survey := range r.surveys {
		if filter.CreatedBy != "" && survey.CreatedBy != filter.CreatedBy {
			continue
		}
		result = append(result, survey)
	}
	return result, nil
}

func (r *fakeSurveyRepo) FindByID(_ context.Context, id string) (*domain.Survey, error) {
	if _, err := primitive.ObjectIDFromHex(strings.TrimSpace(id)); err != nil {
		return nil, domain.ErrInvalidSurveyID
	}
	survey, ok := r.surveys[id]
	if !ok {
		return nil, domain.ErrSurveyNotFound
	}
	return &survey, nil
}

func (r *fakeSurveyRepo) IncrementResponseCount(_ context.Context, id string) error {
	survey, ok := r.surveys[id]
	if !ok {
		return domain.ErrSurveyNotFound
	}
	survey.ResponseCount++
	r.surveys[id] = survey
	return nil
}

type responseKey struct {
	surveyID string
	userID   string
}

type fakeResponseRepo struct {
	responses map[responseKey]domain.Response
}

func (r *fakeResponseRepo) Insert(_ context.Context, response *domain.Response) error {
	key := responseKey{surveyID: response.SurveyID, userID: response.UserID}
	if _, exists := r.responses[key]; exists {
		return domain.ErrAlreadyResponded
	}
	response.ID = primitive.NewObjectID().Hex()
	r.responses[key] = *response
	return nil
}

func (r *fakeResponseRepo) Exists(_ context.Context, surveyID, userID string) (bool, error) {
	_, exists := r.responses[responseKey{surveyID: surveyID, userID: userID}]
	return exists, nil
}

type testEnv struct {
	router    chi.Router
	surveys   *fakeSurveyRepo
	responses *fakeResponseRepo
}

func newTestEnv(t *testing.T, surveys ...domain.Survey) *testEnv {
	t.Helper()

	surveyRepo := &fakeSurveyRepo{surveys: make(map[string]domain.Survey)}
	for _, survey := range surveys {
		surveyRepo.surveys[survey.ID] = survey
	}
	responseRepo := &fakeResponseRepo{responses: make(map[responseKey]domain.Response)}

	handler := NewHandler(Config{
		Logger:        log.New(io.Discard, "", 0),
		SurveyQueries: publicapp.NewSurveyQueryService(surveyRepo, responseRepo),
		Responses:     publicapp.NewResponseService(surveyRepo, responseRepo),
	})

	verifier := common.NewTokenVerifier(testSecret, "", "")
	router := chi.NewRouter()
	handler.Register(router, verifier.OptionalAuth, verifier.RequireAuth)

	return &testEnv{router: router, surveys: surveyRepo, responses: responseRepo}
}

func (e *testEnv) do(t *testing.T, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	payload := map[string]any{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	return payload
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func expiredTokenFor(t *testing.T, userID string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(-2 * time.Minute).Unix(),
	}).SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func sampleSurvey(createdBy string) domain.Survey {
	return domain.Survey{
		ID:          primitive.NewObjectID().Hex(),
		Title:       "利用者満足度アンケート",
		Description: "月次の満足度調査",
		Questions:   []any{map[string]any{"id": "q1", "text": "満足度は?"}, map[string]any{"id": "q2", "text": "改善点は?"}},
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestAuthVerify(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, http.MethodGet, "/auth/verify", tokenFor(t, "user-1"), "")
	require.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeBody(t, recorder)
	require.Equal(t, "ok", payload["status"])

	recorder = env.do(t, http.MethodGet, "/auth/verify", "", "")
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}
