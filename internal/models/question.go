package models

import "time"

// Question represents a poll question with a publish date.
type Question struct {
	ID          int64     `json:"id"`
	Text        string    `json:"question_text"`
	PublishedAt time.Time `json:"published_at"`
	ChoiceCount int       `json:"choice_count"`
}

// Choice represents one answer option of a question with its vote tally.
type Choice struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Text       string `json:"choice_text"`
	Votes      int    `json:"votes"`
}

// QuestionView is the listing projection of a question. PublishedRecently
// reports whether the question went live within the last day.
type QuestionView struct {
	ID                int64     `json:"id"`
	Text              string    `json:"question_text"`
	PublishedAt       time.Time `json:"published_at"`
	PublishedRecently bool      `json:"published_recently"`
}
