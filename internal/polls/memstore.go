package polls

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pollbox/backend/internal/models"
)

// MemStore is a mutex-guarded in-memory Store. It backs the handler tests
// and small single-process deployments that run without PostgreSQL.
type MemStore struct {
	mu           sync.Mutex
	questions    map[int64]*models.Question
	choices      map[int64]*models.Choice
	lastQuestion int64
	lastChoice   int64
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		questions: make(map[int64]*models.Question),
		choices:   make(map[int64]*models.Choice),
	}
}

// CreateQuestion inserts a new question and assigns it the next id.
func (s *MemStore) CreateQuestion(ctx context.Context, text string, publishedAt time.Time) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastQuestion++
	q := &models.Question{
		ID:          s.lastQuestion,
		Text:        text,
		PublishedAt: publishedAt,
	}
	s.questions[q.ID] = q
	out := *q
	return &out, nil
}

// AddChoice attaches a choice to an existing question.
func (s *MemStore) AddChoice(ctx context.Context, questionID int64, text string, votes int) (*models.Choice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[questionID]
	if !ok {
		return nil, ErrNotFound
	}
	s.lastChoice++
	ch := &models.Choice{
		ID:         s.lastChoice,
		QuestionID: questionID,
		Text:       text,
		Votes:      votes,
	}
	s.choices[ch.ID] = ch
	q.ChoiceCount++
	out := *ch
	return &out, nil
}

// ListQuestions returns a snapshot of every question, ordered by id.
func (s *MemStore) ListQuestions(ctx context.Context) ([]models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]models.Question, 0, len(s.questions))
	for _, q := range s.questions {
		list = append(list, *q)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// GetQuestion returns a question by id.
func (s *MemStore) GetQuestion(ctx context.Context, id int64) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *q
	return &out, nil
}

// ListChoices returns the choices of a question, ordered by id.
func (s *MemStore) ListChoices(ctx context.Context, questionID int64) ([]models.Choice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]models.Choice, 0)
	for _, ch := range s.choices {
		if ch.QuestionID == questionID {
			list = append(list, *ch)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// CastVote increments the vote count of a choice under the given question.
func (s *MemStore) CastVote(ctx context.Context, questionID, choiceID int64) (*models.Choice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[questionID]; !ok {
		return nil, ErrNotFound
	}
	ch, ok := s.choices[choiceID]
	if !ok || ch.QuestionID != questionID {
		return nil, ErrChoiceNotFound
	}
	ch.Votes++
	out := *ch
	return &out, nil
}
