package repository_test

import (
	"context"
	"testing"

	"github.com/answerhub/community-api/internal/model"
	"github.com/answerhub/community-api/internal/repository"
	"github.com/answerhub/community-api/internal/repository/testutil"
	"gorm.io/datatypes"
)

func TestQuestionListFilters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	author := testutil.SeedUser(t, ctx, tx, "list_author")
	golang := testutil.SeedCategory(t, ctx, tx, "list-golang")
	career := testutil.SeedCategory(t, ctx, tx, "list-career")

	repo := repository.NewQuestionRepository(tx)

	tagged := &model.Question{
		AuthorID:   author.ID,
		CategoryID: golang.ID,
		Title:      "How do goroutines get scheduled?",
		Content:    "Trying to understand the runtime scheduler in detail.",
		Tags:       datatypes.JSON([]byte(`["concurrency","runtime"]`)),
	}
	if err := repo.Create(ctx, tagged); err != nil {
		t.Fatalf("create tagged: %v", err)
	}

	solved := &model.Question{
		AuthorID:   author.ID,
		CategoryID: career.ID,
		Title:      "Is it worth learning a second language?",
		Content:    "Deciding where to invest my study time next year.",
		IsSolved:   true,
	}
	if err := repo.Create(ctx, solved); err != nil {
		t.Fatalf("create solved: %v", err)
	}

	// Filter by category
	questions, total, err := repo.List(ctx, repository.QuestionFilter{CategoryID: &golang.ID})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if total != 1 || len(questions) != 1 || questions[0].ID != tagged.ID {
		t.Errorf("category filter returned %d/%d", len(questions), total)
	}

	// Filter by tag containment over the jsonb column
	questions, total, err = repo.List(ctx, repository.QuestionFilter{Tag: "concurrency"})
	if err != nil {
		t.Fatalf("list by tag: %v", err)
	}
	if total != 1 || questions[0].ID != tagged.ID {
		t.Errorf("tag filter returned %d results", total)
	}

	// Filter by solved state
	isSolved := true
	questions, total, err = repo.List(ctx, repository.QuestionFilter{Solved: &isSolved})
	if err != nil {
		t.Fatalf("list by solved: %v", err)
	}
	if total != 1 || questions[0].ID != solved.ID {
		t.Errorf("solved filter returned %d results", total)
	}
}

func TestQuestionPinnedSortsFirst(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	author := testutil.SeedUser(t, ctx, tx, "pin_author")
	category := testutil.SeedCategory(t, ctx, tx, "pinning")

	repo := repository.NewQuestionRepository(tx)

	older := testutil.SeedQuestion(t, ctx, tx, author.ID, category.ID)
	newer := testutil.SeedQuestion(t, ctx, tx, author.ID, category.ID)
	if err := repo.UpdateFields(ctx, older.ID, map[string]interface{}{"is_pinned": true}); err != nil {
		t.Fatalf("pin: %v", err)
	}

	questions, _, err := repo.List(ctx, repository.QuestionFilter{CategoryID: &category.ID, SortBy: "newest"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("len = %d, want 2", len(questions))
	}
	if questions[0].ID != older.ID {
		t.Errorf("pinned question should sort first despite being older")
	}
	if questions[1].ID != newer.ID {
		t.Errorf("unpinned question should follow")
	}
}

func TestIncrementViews(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	author := testutil.SeedUser(t, ctx, tx, "views_author")
	category := testutil.SeedCategory(t, ctx, tx, "viewing")
	question := testutil.SeedQuestion(t, ctx, tx, author.ID, category.ID)

	repo := repository.NewQuestionRepository(tx)
	for i := 0; i < 3; i++ {
		if err := repo.IncrementViews(ctx, question.ID); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}

	stored, err := repo.FindByID(ctx, question.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.ViewCount != 3 {
		t.Errorf("view_count = %d, want 3", stored.ViewCount)
	}
}
