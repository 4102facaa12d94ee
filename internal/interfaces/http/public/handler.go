package public

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	publicapp "github.com/sondago/survey-services/api/internal/public/application"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger        *log.Logger
	surveyQueries publicapp.SurveyQueryService
	responses     publicapp.ResponseService
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger        *log.Logger
	SurveyQueries publicapp.SurveyQueryService
	Responses     publicapp.ResponseService
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:        cfg.Logger,
		surveyQueries: cfg.SurveyQueries,
		responses:     cfg.Responses,
	}
}

// Register mounts all public routes onto the router.
// 閲覧系は optionalAuth（匿名可、検証結果だけ持ち回る）、/auth/verify のみ requireAuth。
// 回答投稿も optionalAuth を通す。401 の分類はハンドラ側で行うため。
func (h *Handler) Register(r chi.Router, optionalAuth, requireAuth func(http.Handler) http.Handler) {
	r.With(optionalAuth).Get("/surveys", h.surveyListHandler())
	r.With(optionalAuth).Get("/surveys/{id}", h.surveyDetailHandler())
	r.With(optionalAuth).Post("/surveys/{id}/respond", h.respondHandler())
	r.With(requireAuth).Get("/auth/verify", h.authVerifyHandler())
}
