package polls

import (
	"context"
	"errors"
	"time"

	"github.com/pollbox/backend/internal/models"
)

var (
	// ErrNotFound is returned when a question does not exist or its
	// publish date has not arrived.
	ErrNotFound = errors.New("question not found")
	// ErrChoiceNotFound is returned when a choice does not exist under
	// the targeted question.
	ErrChoiceNotFound = errors.New("choice not found")
)

// Store is the persistence boundary for questions and choices. ListQuestions
// returns the full snapshot including unpublished and choiceless questions;
// visibility is applied by the callers.
type Store interface {
	CreateQuestion(ctx context.Context, text string, publishedAt time.Time) (*models.Question, error)
	AddChoice(ctx context.Context, questionID int64, text string, votes int) (*models.Choice, error)
	ListQuestions(ctx context.Context) ([]models.Question, error)
	GetQuestion(ctx context.Context, id int64) (*models.Question, error)
	ListChoices(ctx context.Context, questionID int64) ([]models.Choice, error)
	CastVote(ctx context.Context, questionID, choiceID int64) (*models.Choice, error)
}
