package domain

import "errors"

// Sentinel errors shared between the application services and the HTTP
// layer. Handlers translate them 1:1 into status codes.
var (
	// ErrInvalidSurveyID means the identifier is not a valid ObjectID hex.
	ErrInvalidSurveyID = errors.New("survey id is not a valid identifier")
	// ErrSurveyNotFound means no survey document matches the identifier.
	ErrSurveyNotFound = errors.New("survey not found")
	// ErrOwnSurvey means the respondent is the survey's creator.
	ErrOwnSurvey = errors.New("creators cannot respond to their own survey")
	// ErrAlreadyResponded means a response for (survey, user) already exists.
	ErrAlreadyResponded = errors.New("a response for this survey already exists")
)
