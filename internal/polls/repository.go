package polls

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pollbox/backend/internal/models"
)

// Repository is the PostgreSQL-backed Store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a polls repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateQuestion inserts a new question.
func (r *Repository) CreateQuestion(ctx context.Context, text string, publishedAt time.Time) (*models.Question, error) {
	const query = `INSERT INTO questions (question_text, published_at) VALUES ($1, $2)
		RETURNING id, question_text, published_at`
	var q models.Question
	err := r.pool.QueryRow(ctx, query, text, publishedAt).Scan(&q.ID, &q.Text, &q.PublishedAt)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// AddChoice attaches a choice to an existing question. The insert selects
// the question row so an unknown question yields no row instead of a
// foreign key violation.
func (r *Repository) AddChoice(ctx context.Context, questionID int64, text string, votes int) (*models.Choice, error) {
	const query = `INSERT INTO choices (question_id, choice_text, votes)
		SELECT q.id, $2, $3 FROM questions q WHERE q.id = $1
		RETURNING id, question_id, choice_text, votes`
	var ch models.Choice
	err := r.pool.QueryRow(ctx, query, questionID, text, votes).
		Scan(&ch.ID, &ch.QuestionID, &ch.Text, &ch.Votes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// ListQuestions returns every question with its choice count, ordered by id.
func (r *Repository) ListQuestions(ctx context.Context) ([]models.Question, error) {
	const query = `SELECT q.id, q.question_text, q.published_at, COUNT(c.id)
		FROM questions q
		LEFT JOIN choices c ON c.question_id = q.id
		GROUP BY q.id, q.question_text, q.published_at
		ORDER BY q.id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]models.Question, 0)
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.Text, &q.PublishedAt, &q.ChoiceCount); err != nil {
			return nil, err
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

// GetQuestion returns a question with its choice count.
func (r *Repository) GetQuestion(ctx context.Context, id int64) (*models.Question, error) {
	const query = `SELECT q.id, q.question_text, q.published_at, COUNT(c.id)
		FROM questions q
		LEFT JOIN choices c ON c.question_id = q.id
		WHERE q.id = $1
		GROUP BY q.id, q.question_text, q.published_at`
	var q models.Question
	err := r.pool.QueryRow(ctx, query, id).Scan(&q.ID, &q.Text, &q.PublishedAt, &q.ChoiceCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// ListChoices returns the choices of a question, ordered by id.
func (r *Repository) ListChoices(ctx context.Context, questionID int64) ([]models.Choice, error) {
	const query = `SELECT id, question_id, choice_text, votes
		FROM choices WHERE question_id = $1 ORDER BY id`
	rows, err := r.pool.Query(ctx, query, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]models.Choice, 0)
	for rows.Next() {
		var ch models.Choice
		if err := rows.Scan(&ch.ID, &ch.QuestionID, &ch.Text, &ch.Votes); err != nil {
			return nil, err
		}
		list = append(list, ch)
	}
	return list, rows.Err()
}

// CastVote atomically increments the vote count of a choice under the given
// question and returns the updated row.
func (r *Repository) CastVote(ctx context.Context, questionID, choiceID int64) (*models.Choice, error) {
	const query = `UPDATE choices SET votes = votes + 1
		WHERE id = $1 AND question_id = $2
		RETURNING id, question_id, choice_text, votes`
	var ch models.Choice
	err := r.pool.QueryRow(ctx, query, choiceID, questionID).
		Scan(&ch.ID, &ch.QuestionID, &ch.Text, &ch.Votes)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := r.GetQuestion(ctx, questionID); getErr != nil {
			return nil, getErr
		}
		return nil, ErrChoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}
