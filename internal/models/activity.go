package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuestionType enumerates the supported question kinds.
type QuestionType string

const (
	QuestionTypeMCQ         QuestionType = "mcq"
	QuestionTypePoll        QuestionType = "poll"
	QuestionTypeDescriptive QuestionType = "descriptive"
	QuestionTypeImage       QuestionType = "image"
)

// Question is a single prompt inside an activity.
type Question struct {
	Type          QuestionType `bson:"type" json:"type"`
	Prompt        string       `bson:"prompt" json:"prompt"`
	ImageURL      string       `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Options       []string     `bson:"options,omitempty" json:"options,omitempty"`
	CorrectOption *int         `bson:"correctOption,omitempty" json:"correctOption,omitempty"`
}

// Submission is one user's completed answer set for an activity. Answers are
// index-aligned with the activity's questions; option answers carry the
// option index as a string.
type Submission struct {
	Username    string   `bson:"username" json:"username"`
	Answers     []string `bson:"answers" json:"answers"`
	SubmittedAt int64    `bson:"submittedAt" json:"submittedAt"`
}

// Activity is a quiz or poll that awards a flat XP amount on the first
// completed submission. Submissions are keyed by the resolved user id, so a
// racing second submission from the same account hits an existing key instead
// of creating a duplicate.
type Activity struct {
	ID          primitive.ObjectID    `bson:"_id,omitempty" json:"id,omitempty"`
	Title       string                `bson:"title" json:"title" validate:"required"`
	StartTime   int64                 `bson:"startTime" json:"startTime"`
	EndTime     int64                 `bson:"endTime" json:"endTime"`
	XP          int                   `bson:"xp" json:"xp"`
	Questions   []Question            `bson:"questions" json:"questions"`
	Submissions map[string]Submission `bson:"submissions,omitempty" json:"submissions,omitempty"`
	CreatedAt   time.Time             `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time             `bson:"updatedAt" json:"updatedAt"`
}

// HasSubmissionFrom reports whether the username already submitted. The check
// scans submission values because entries are keyed by user id, not username.
func (a *Activity) HasSubmissionFrom(username string) bool {
	for _, sub := range a.Submissions {
		if sub.Username == username {
			return true
		}
	}
	return false
}
