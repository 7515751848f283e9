package repository_test

import (
	"context"
	"testing"

	"github.com/answerhub/community-api/internal/model"
	"github.com/answerhub/community-api/internal/repository"
	"github.com/answerhub/community-api/internal/repository/testutil"
)

func TestSetAcceptedIsExclusive(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	author := testutil.SeedUser(t, ctx, tx, "accept_author")
	answerer := testutil.SeedUser(t, ctx, tx, "accept_answerer")
	category := testutil.SeedCategory(t, ctx, tx, "accepting")
	question := testutil.SeedQuestion(t, ctx, tx, author.ID, category.ID)

	first := testutil.SeedComment(t, ctx, tx, question.ID, answerer.ID, nil)
	second := testutil.SeedComment(t, ctx, tx, question.ID, answerer.ID, nil)

	repo := repository.NewCommentRepository(tx)

	if err := repo.SetAccepted(ctx, question.ID, first.ID); err != nil {
		t.Fatalf("accept first: %v", err)
	}
	if err := repo.SetAccepted(ctx, question.ID, second.ID); err != nil {
		t.Fatalf("accept second: %v", err)
	}

	var accepted []model.Comment
	if err := tx.Where("question_id = ? AND is_accepted", question.ID).Find(&accepted).Error; err != nil {
		t.Fatalf("load accepted: %v", err)
	}
	if len(accepted) != 1 || accepted[0].ID != second.ID {
		t.Errorf("accepted = %v, want exactly the second comment", accepted)
	}

	if err := repo.ClearAccepted(ctx, question.ID); err != nil {
		t.Fatalf("clear accepted: %v", err)
	}
	var count int64
	if err := tx.Model(&model.Comment{}).
		Where("question_id = ? AND is_accepted", question.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("count accepted: %v", err)
	}
	if count != 0 {
		t.Errorf("accepted count after clear = %d, want 0", count)
	}
}

func TestListByQuestionKeepsReplyOrder(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	author := testutil.SeedUser(t, ctx, tx, "order_author")
	category := testutil.SeedCategory(t, ctx, tx, "ordering")
	question := testutil.SeedQuestion(t, ctx, tx, author.ID, category.ID)

	root := testutil.SeedComment(t, ctx, tx, question.ID, author.ID, nil)
	reply := testutil.SeedComment(t, ctx, tx, question.ID, author.ID, &root.ID)

	repo := repository.NewCommentRepository(tx)
	comments, err := repo.ListByQuestion(ctx, question.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("len(comments) = %d, want 2", len(comments))
	}
	if comments[0].ID != root.ID || comments[1].ID != reply.ID {
		t.Errorf("comments out of creation order: %s then %s", comments[0].ID, comments[1].ID)
	}
	if comments[1].ParentID == nil || *comments[1].ParentID != root.ID {
		t.Errorf("reply parent = %v, want %s", comments[1].ParentID, root.ID)
	}
}
