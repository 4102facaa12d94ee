package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SurveyDocument は MongoDB 上でのアンケートスキーマを Go 構造体として表現したもの。
// questions は管理コンテキストが書き込む不透明な構造で、この API では中身に触れない。
type SurveyDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	Title         string             `bson:"title"`
	Description   string             `bson:"description,omitempty"`
	Questions     []any              `bson:"questions,omitempty"`
	CreatedBy     string             `bson:"created_by"`
	ResponseCount int                `bson:"response_count"`
	CreatedAt     *time.Time         `bson:"createdAt,omitempty"`
	UpdatedAt     *time.Time         `bson:"updatedAt,omitempty"`
}

// ResponseDocument は回答 1 件分のスキーマ。(surveyId, userId) の組でユニーク。
type ResponseDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	SurveyID    primitive.ObjectID `bson:"surveyId"`
	UserID      string             `bson:"userId"`
	Answers     []any              `bson:"answers"`
	SubmittedAt time.Time          `bson:"submittedAt"`
}
