package public

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sondago/survey-services/api/internal/interfaces/http/common"
	publicapp "github.com/sondago/survey-services/api/internal/public/application"
	"github.com/sondago/survey-services/api/internal/public/domain"
)

// surveyListHandler はユーザー向けのアンケート一覧 API。
// DDD では Query Service を介して読み取り専用ユースケースを実現する。
func (h *Handler) surveyListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		query := r.URL.Query()
		filter := publicapp.SurveyFilter{
			Keyword: strings.TrimSpace(query.Get("q")),
		}

		// mine=true は認証済みユーザー自身が作成したアンケートに絞り込む。匿名時は無視。
		if mine := strings.TrimSpace(query.Get("mine")); mine == "true" || mine == "1" {
			if user, ok := common.UserFromContext(r.Context()); ok {
				filter.CreatedBy = user.ID
			}
		}

		paging := publicapp.Paging{
			Sort: strings.TrimSpace(query.Get("sort")),
		}
		paging.Page, _ = common.ParsePositiveInt(query.Get("page"), 1)
		paging.Limit, _ = common.ParsePositiveInt(query.Get("limit"), 10)

		surveys, err := h.surveyQueries.List(ctx, filter, paging)
		if err != nil {
			h.logger.Printf("アンケート一覧の取得に失敗: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "アンケートの取得に失敗しました"})
			return
		}

		summaries := make([]surveySummaryResponse, 0, len(surveys))
		for _, survey := range surveys {
			summaries = append(summaries, buildSurveySummaryResponse(survey))
		}

		total := len(summaries)
		start := (paging.Page - 1) * paging.Limit
		if start >= total {
			start = total
		}
		end := start + paging.Limit
		if end > total {
			end = total
		}

		common.WriteJSON(h.logger, w, http.StatusOK, surveyListResponse{
			Items: summaries[start:end],
			Page:  paging.Page,
			Limit: paging.Limit,
			Total: total,
		})
	}
}

// surveyDetailHandler はアンケートIDを指定して公開ビューを返す。
// 認証は任意。トークンの検証失敗はここでは無視し、匿名閲覧者を塞がない。
func (h *Handler) surveyDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if _, err := primitive.ObjectIDFromHex(idParam); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "アンケートIDの形式が不正です"})
			return
		}

		userID := ""
		if user, ok := common.UserFromContext(r.Context()); ok {
			userID = user.ID
		}

		view, err := h.surveyQueries.Detail(ctx, idParam, userID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidSurveyID):
				common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "アンケートIDの形式が不正です"})
			case errors.Is(err, domain.ErrSurveyNotFound):
				common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "アンケートが見つかりません"})
			default:
				h.logger.Printf("アンケート詳細の取得に失敗: survey=%s err=%v", idParam, err)
				common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "アンケート詳細の取得に失敗しました"})
			}
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, buildSurveyViewResponse(*view))
	}
}
