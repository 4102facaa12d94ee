package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sondago/survey-services/api/internal/public/application"
	"github.com/sondago/survey-services/api/internal/public/domain"
)

// SurveyRepository はパブリック向けアンケート集約を MongoDB で扱う実装リポジトリ。
type SurveyRepository struct {
	surveys *mongo.Collection
}

// NewSurveyRepository は surveys コレクションを束縛したリポジトリを構築する。
func NewSurveyRepository(db *mongo.Database, surveyCollection string) *SurveyRepository {
	return &SurveyRepository{surveys: db.Collection(surveyCollection)}
}

// Find はキーワード/作成者の条件を Mongo クエリへ落とし込み、アンケート一覧を返す。
func (r *SurveyRepository) Find(ctx context.Context, filter application.SurveyFilter, paging application.Paging) ([]domain.Survey, error) {
	mongoFilter := bson.M{}

	if filter.CreatedBy != "" {
		mongoFilter["created_by"] = strings.TrimSpace(filter.CreatedBy)
	}

	if filter.Keyword != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Keyword), Options: "i"}
		mongoFilter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	cursor, err := r.surveys.Find(ctx, mongoFilter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	surveys := make([]domain.Survey, 0)
	for cursor.Next(ctx) {
		var doc SurveyDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		surveys = append(surveys, mapSurveyDocument(doc))
	}
	return surveys, cursor.Err()
}

// FindByID はアンケート ID から単一ドキュメントを取得してドメイン Survey を返す。
// ID 形式不正・該当なしはドメインのセンチネルエラーへ翻訳する。
func (r *SurveyRepository) FindByID(ctx context.Context, id string) (*domain.Survey, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidSurveyID
	}

	var doc SurveyDocument
	if err := r.surveys.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSurveyNotFound
		}
		return nil, err
	}

	survey := mapSurveyDocument(doc)
	return &survey, nil
}

// IncrementResponseCount は response_count を 1 加算する。回答挿入の成功後にのみ呼ぶこと。
func (r *SurveyRepository) IncrementResponseCount(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidSurveyID
	}

	result, err := r.surveys.UpdateByID(ctx, objectID, bson.M{
		"$inc": bson.M{"response_count": 1},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrSurveyNotFound
	}
	return nil
}

// mapSurveyDocument は Mongo ドキュメントを公開ドメイン Survey へマッピングする。
func mapSurveyDocument(doc SurveyDocument) domain.Survey {
	survey := domain.Survey{
		ID:            doc.ID.Hex(),
		Title:         doc.Title,
		Description:   doc.Description,
		Questions:     append([]any{}, doc.Questions...),
		CreatedBy:     doc.CreatedBy,
		ResponseCount: doc.ResponseCount,
	}
	if doc.CreatedAt != nil {
		survey.CreatedAt = *doc.CreatedAt
	}
	if doc.UpdatedAt != nil {
		survey.UpdatedAt = *doc.UpdatedAt
	}
	return survey
}
