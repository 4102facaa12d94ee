package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sondago/survey-services/api/internal/public/domain"
)

// ResponseRepository は回答ドキュメントを MongoDB で扱う実装リポジトリ。
// 重複防止は (surveyId, userId) の一意インデックスに任せる。事前の存在
// チェックでは同時投稿の競合を塞げないため、挿入そのものを原子的な判定にする。
type ResponseRepository struct {
	responses *mongo.Collection
}

// NewResponseRepository は responses コレクションを束縛したリポジトリを構築する。
func NewResponseRepository(db *mongo.Database, responseCollection string) *ResponseRepository {
	return &ResponseRepository{responses: db.Collection(responseCollection)}
}

// EnsureIndexes は (surveyId, userId) の一意複合インデックスを作成する。起動時に呼ぶ。
func (r *ResponseRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.responses.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "surveyId", Value: 1}, {Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_survey_user"),
	})
	return err
}

// Insert は回答を追加し、採番結果をドメインモデルへ反映する。
// 一意制約違反は domain.ErrAlreadyResponded へ翻訳する。
func (r *ResponseRepository) Insert(ctx context.Context, response *domain.Response) error {
	surveyID, err := primitive.ObjectIDFromHex(strings.TrimSpace(response.SurveyID))
	if err != nil {
		return domain.ErrInvalidSurveyID
	}

	submittedAt := response.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now().UTC()
	}

	doc := ResponseDocument{
		ID:          primitive.NewObjectID(),
		SurveyID:    surveyID,
		UserID:      response.UserID,
		Answers:     append([]any{}, response.Answers...),
		SubmittedAt: submittedAt,
	}

	if _, err := r.responses.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyResponded
		}
		return err
	}

	response.ID = doc.ID.Hex()
	response.SubmittedAt = doc.SubmittedAt
	return nil
}

// Exists は (surveyId, userId) の回答が既に存在するか判定する。
func (r *ResponseRepository) Exists(ctx context.Context, surveyID, userID string) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(surveyID))
	if err != nil {
		return false, domain.ErrInvalidSurveyID
	}

	filter := bson.M{"surveyId": objectID, "userId": userID}
	err = r.responses.FindOne(ctx, filter, optionsFindOneIDProjection()).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// optionsFindOneIDProjection は _id のみの軽量クエリを作るためのヘルパー。
func optionsFindOneIDProjection() *options.FindOneOptions {
	opt := options.FindOne()
	opt.SetProjection(bson.M{"_id": 1})
	return opt
}
