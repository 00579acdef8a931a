package polls

import (
	"context"
	"sort"
	"time"

	"github.com/pollbox/backend/internal/models"
)

// ListVisible filters a snapshot of questions down to what the viewer may
// see at the given instant and orders it newest first.
//
// Every viewer is limited to published questions. Viewers without the admin
// capability are further limited to questions with at least one choice.
// Ordering is by publish date descending; the relative order of questions
// sharing a publish date is unspecified.
func ListVisible(questions []models.Question, now time.Time, isAdmin bool) []models.Question {
	visible := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		if !IsPublished(q.PublishedAt, now) {
			continue
		}
		if !isAdmin && q.ChoiceCount < 1 {
			continue
		}
		visible = append(visible, q)
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].PublishedAt.After(visible[j].PublishedAt)
	})
	return visible
}

// Views projects questions into their listing representation, deriving the
// recently-published flag at the given instant.
func Views(questions []models.Question, now time.Time) []models.QuestionView {
	views := make([]models.QuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, models.QuestionView{
			ID:                q.ID,
			Text:              q.Text,
			PublishedAt:       q.PublishedAt,
			PublishedRecently: WasPublishedRecently(q.PublishedAt, now),
		})
	}
	return views
}

// GetVisible returns the question with the given id if it is published at
// the given instant. Unknown ids and questions whose publish date has not
// arrived both yield ErrNotFound. Time visibility applies to every viewer,
// admins included.
func GetVisible(ctx context.Context, store Store, id int64, now time.Time) (*models.Question, error) {
	q, err := store.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if !IsPublished(q.PublishedAt, now) {
		return nil, ErrNotFound
	}
	return q, nil
}
