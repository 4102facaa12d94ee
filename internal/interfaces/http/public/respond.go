package public

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sondago/survey-services/api/internal/interfaces/http/common"
	publicapp "github.com/sondago/survey-services/api/internal/public/application"
	"github.com/sondago/survey-services/api/internal/public/domain"
)

// maxRespondRequestBody limits JSON request bodies for the respond endpoint.
const maxRespondRequestBody = 1 << 20

// respondHandler は回答投稿 API。閲覧と違い認証必須で、チェックは順に評価して
// 最初の失敗で打ち切る: 分類済みトークン失敗 → 匿名 → ID 形式 → 以降はユースケース側。
func (h *Handler) respondHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if failure, ok := common.AuthFailureFromContext(r.Context()); ok {
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{
				"error": failure.Message,
				"code":  string(failure.Kind),
			})
			return
		}

		user, ok := common.UserFromContext(r.Context())
		if !ok || user.ID == "" {
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{"error": "回答には認証が必要です"})
			return
		}

		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if _, err := primitive.ObjectIDFromHex(idParam); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "アンケートIDの形式が不正です"})
			return
		}

		defer r.Body.Close()

		var req submitResponseRequest
		decoder := json.NewDecoder(io.LimitReader(r.Body, maxRespondRequestBody))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("リクエストの形式が不正です: %v", err),
			})
			return
		}
		if len(req.Answers) == 0 {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "answers は1件以上指定してください"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		response, err := h.responses.Submit(ctx, publicapp.SubmitResponseCommand{
			SurveyID: idParam,
			UserID:   user.ID,
			Answers:  req.Answers,
		})
		if err != nil {
			h.writeSubmitError(w, idParam, user.ID, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, submitResponseResponse{
			Status:      "ok",
			Message:     "回答を受け付けました",
			ResponseID:  response.ID,
			SubmittedAt: response.SubmittedAt.UTC().Format(time.RFC3339),
		})
	}
}

// writeSubmitError はユースケースのセンチネルエラーをステータスコードへ 1:1 で写像する。
func (h *Handler) writeSubmitError(w http.ResponseWriter, surveyID, userID string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidSurveyID):
		common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "アンケートIDの形式が不正です"})
	case errors.Is(err, domain.ErrSurveyNotFound):
		common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "アンケートが見つかりません"})
	case errors.Is(err, domain.ErrOwnSurvey):
		common.WriteJSON(h.logger, w, http.StatusForbidden, map[string]string{"error": "自分のアンケートには回答できません"})
	case errors.Is(err, domain.ErrAlreadyResponded):
		common.WriteJSON(h.logger, w, http.StatusConflict, map[string]string{"error": "このアンケートには回答済みです"})
	default:
		h.logger.Printf("回答の保存に失敗: survey=%s user=%s err=%v", surveyID, userID, err)
		common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "回答の保存に失敗しました"})
	}
}
