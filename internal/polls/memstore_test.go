package polls

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemStoreQuestionLifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	store := NewMemStore()

	q1, err := store.CreateQuestion(ctx, "First?", now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("CreateQuestion() error = %v", err)
	}
	q2, err := store.CreateQuestion(ctx, "Second?", now)
	if err != nil {
		t.Fatalf("CreateQuestion() error = %v", err)
	}
	if q1.ID == q2.ID {
		t.Fatalf("CreateQuestion() reused id %d", q1.ID)
	}
	if q2.ID <= q1.ID {
		t.Errorf("CreateQuestion() ids not increasing: %d then %d", q1.ID, q2.ID)
	}

	got, err := store.GetQuestion(ctx, q1.ID)
	if err != nil {
		t.Fatalf("GetQuestion() error = %v", err)
	}
	if got.Text != "First?" || !got.PublishedAt.Equal(now.Add(-time.Hour)) {
		t.Errorf("GetQuestion() = %+v, want stored question", got)
	}
	if got.ChoiceCount != 0 {
		t.Errorf("GetQuestion() ChoiceCount = %d, want 0", got.ChoiceCount)
	}

	if _, err := store.GetQuestion(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetQuestion(999) error = %v, want %v", err, ErrNotFound)
	}

	list, err := store.ListQuestions(ctx)
	if err != nil {
		t.Fatalf("ListQuestions() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListQuestions() returned %d questions, want 2", len(list))
	}
}

func TestMemStoreChoices(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	store := NewMemStore()

	q, err := store.CreateQuestion(ctx, "Which?", now)
	if err != nil {
		t.Fatalf("CreateQuestion() error = %v", err)
	}
	other, err := store.CreateQuestion(ctx, "Other?", now)
	if err != nil {
		t.Fatalf("CreateQuestion() error = %v", err)
	}

	if _, err := store.AddChoice(ctx, 999, "Nope.", 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("AddChoice(999) error = %v, want %v", err, ErrNotFound)
	}

	first, err := store.AddChoice(ctx, q.ID, "First choice.", 0)
	if err != nil {
		t.Fatalf("AddChoice() error = %v", err)
	}
	seeded, err := store.AddChoice(ctx, q.ID, "Seeded choice.", 5)
	if err != nil {
		t.Fatalf("AddChoice() error = %v", err)
	}
	if seeded.Votes != 5 {
		t.Errorf("AddChoice() Votes = %d, want 5", seeded.Votes)
	}
	if _, err := store.AddChoice(ctx, other.ID, "Elsewhere.", 0); err != nil {
		t.Fatalf("AddChoice() error = %v", err)
	}

	got, err := store.GetQuestion(ctx, q.ID)
	if err != nil {
		t.Fatalf("GetQuestion() error = %v", err)
	}
	if got.ChoiceCount != 2 {
		t.Errorf("GetQuestion() ChoiceCount = %d, want 2", got.ChoiceCount)
	}

	choices, err := store.ListChoices(ctx, q.ID)
	if err != nil {
		t.Fatalf("ListChoices() error = %v", err)
	}
	if len(choices) != 2 {
		t.Fatalf("ListChoices() returned %d choices, want 2", len(choices))
	}
	if choices[0].ID != first.ID || choices[1].ID != seeded.ID {
		t.Errorf("ListChoices() order = [%d %d], want [%d %d]", choices[0].ID, choices[1].ID, first.ID, seeded.ID)
	}
}

func TestMemStoreCastVote(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	store := NewMemStore()

	q, _ := store.CreateQuestion(ctx, "Which?", now)
	other, _ := store.CreateQuestion(ctx, "Other?", now)
	choice, err := store.AddChoice(ctx, q.ID, "This one.", 0)
	if err != nil {
		t.Fatalf("AddChoice() error = %v", err)
	}

	updated, err := store.CastVote(ctx, q.ID, choice.ID)
	if err != nil {
		t.Fatalf("CastVote() error = %v", err)
	}
	if updated.Votes != 1 {
		t.Errorf("CastVote() Votes = %d, want 1", updated.Votes)
	}

	updated, err = store.CastVote(ctx, q.ID, choice.ID)
	if err != nil {
		t.Fatalf("CastVote() error = %v", err)
	}
	if updated.Votes != 2 {
		t.Errorf("CastVote() Votes = %d, want 2", updated.Votes)
	}

	if _, err := store.CastVote(ctx, 999, choice.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("CastVote(unknown question) error = %v, want %v", err, ErrNotFound)
	}
	if _, err := store.CastVote(ctx, q.ID, 999); !errors.Is(err, ErrChoiceNotFound) {
		t.Errorf("CastVote(unknown choice) error = %v, want %v", err, ErrChoiceNotFound)
	}
	if _, err := store.CastVote(ctx, other.ID, choice.ID); !errors.Is(err, ErrChoiceNotFound) {
		t.Errorf("CastVote(foreign choice) error = %v, want %v", err, ErrChoiceNotFound)
	}
}
