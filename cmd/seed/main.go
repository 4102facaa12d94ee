package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedOptions struct {
	surveyCount        int
	responsesPerSurvey int
	creatorCount       int
	dropCollections    bool
	randomSeed         int64
	surveyCollection   string
	responseCollection string
}

type surveyDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	Title         string             `bson:"title"`
	Description   string             `bson:"description,omitempty"`
	Questions     []any              `bson:"questions,omitempty"`
	CreatedBy     string             `bson:"created_by"`
	ResponseCount int                `bson:"response_count"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

type responseDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	SurveyID    primitive.ObjectID `bson:"surveyId"`
	UserID      string             `bson:"userId"`
	Answers     []any              `bson:"answers"`
	SubmittedAt time.Time          `bson:"submittedAt"`
}

func main() {
	opts := parseFlags()
	logger := log.New(os.Stdout, "[survey-seed] ", log.LstdFlags)

	gofakeit.Seed(opts.randomSeed)
	rng := rand.New(rand.NewSource(opts.randomSeed))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logger.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Printf("MongoDB 切断時にエラー: %v", err)
		}
	}()

	db := client.Database(envOrDefault("MONGO_DB", "sondago"))
	surveys := db.Collection(opts.surveyCollection)
	responses := db.Collection(opts.responseCollection)

	if opts.dropCollections {
		for _, collection := range []*mongo.Collection{surveys, responses} {
			if err := collection.Drop(ctx); err != nil {
				logger.Fatalf("コレクション %s の削除に失敗: %v", collection.Name(), err)
			}
		}
		logger.Printf("既存コレクションを削除しました")
	}

	// 回答の一意インデックスは API 起動時にも作られるが、seed 直後から
	// 重複が入らないようここでも保証しておく。
	_, err = responses.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "surveyId", Value: 1}, {Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_survey_user"),
	})
	if err != nil {
		logger.Fatalf("回答インデックスの作成に失敗: %v", err)
	}

	creators := make([]string, 0, opts.creatorCount)
	for i := 0; i < opts.creatorCount; i++ {
		creators = append(creators, uuid.NewString())
	}

	now := time.Now().UTC()
	insertedResponses := 0
	for i := 0; i < opts.surveyCount; i++ {
		questions := buildQuestions(rng)
		createdAt := now.Add(-time.Duration(rng.Intn(90*24)) * time.Hour)
		survey := surveyDocument{
			ID:          primitive.NewObjectID(),
			Title:       gofakeit.Sentence(4),
			Description: gofakeit.Paragraph(1, 2, 12, " "),
			Questions:   questions,
			CreatedBy:   creators[rng.Intn(len(creators))],
			CreatedAt:   createdAt,
			UpdatedAt:   createdAt,
		}

		respondents := rng.Intn(opts.responsesPerSurvey + 1)
		docs := make([]interface{}, 0, respondents)
		for j := 0; j < respondents; j++ {
			docs = append(docs, responseDocument{
				ID:          primitive.NewObjectID(),
				SurveyID:    survey.ID,
				UserID:      uuid.NewString(),
				Answers:     buildAnswers(rng, questions),
				SubmittedAt: createdAt.Add(time.Duration(rng.Intn(72)) * time.Hour),
			})
		}
		survey.ResponseCount = len(docs)

		if _, err := surveys.InsertOne(ctx, survey); err != nil {
			logger.Fatalf("アンケートの投入に失敗: %v", err)
		}
		if len(docs) > 0 {
			if _, err := responses.InsertMany(ctx, docs); err != nil {
				logger.Fatalf("回答の投入に失敗: %v", err)
			}
			insertedResponses += len(docs)
		}
	}

	logger.Printf("投入完了: surveys=%d responses=%d", opts.surveyCount, insertedResponses)
}

func parseFlags() seedOptions {
	opts := seedOptions{}
	flag.IntVar(&opts.surveyCount, "surveys", 10, "number of surveys to insert")
	flag.IntVar(&opts.responsesPerSurvey, "responses", 5, "max responses per survey")
	flag.IntVar(&opts.creatorCount, "creators", 4, "number of distinct creator identities")
	flag.BoolVar(&opts.dropCollections, "drop", false, "drop collections before seeding")
	flag.Int64Var(&opts.randomSeed, "seed", time.Now().UnixNano(), "random seed")
	flag.StringVar(&opts.surveyCollection, "survey-collection", envOrDefault("SURVEY_COLLECTION", "surveys"), "survey collection name")
	flag.StringVar(&opts.responseCollection, "response-collection", envOrDefault("RESPONSE_COLLECTION", "responses"), "response collection name")
	flag.Parse()
	return opts
}

// buildQuestions はフロントエンドが扱う形に似せた不透明な質問構造を生成する。
// API 本体は questions の中身を解釈しないため、形はあくまでダミー。
func buildQuestions(rng *rand.Rand) []any {
	count := 2 + rng.Intn(4)
	questions := make([]any, 0, count)
	for i := 0; i < count; i++ {
		questionType := "text"
		question := bson.M{
			"id":   fmt.Sprintf("q%d", i+1),
			"text": gofakeit.Question(),
		}
		if rng.Intn(2) == 0 {
			questionType = "choice"
			question["options"] = []string{
				gofakeit.Word(),
				gofakeit.Word(),
				gofakeit.Word(),
			}
		}
		question["type"] = questionType
		questions = append(questions, question)
	}
	return questions
}

func buildAnswers(rng *rand.Rand, questions []any) []any {
	answers := make([]any, 0, len(questions))
	for range questions {
		if rng.Intn(2) == 0 {
			answers = append(answers, gofakeit.Word())
		} else {
			answers = append(answers, gofakeit.Sentence(6))
		}
	}
	return answers
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
