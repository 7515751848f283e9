package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/answerhub/community-api/internal/model"
	"github.com/answerhub/community-api/internal/repository"
	"github.com/answerhub/community-api/internal/repository/testutil"
	"github.com/answerhub/community-api/pkg/apperror"
	"github.com/google/uuid"
)

func TestVoteLedgerOnQuestion(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	author := testutil.SeedUser(t, ctx, tx, "vote_author")
	voterA := testutil.SeedUser(t, ctx, tx, "vote_a")
	voterB := testutil.SeedUser(t, ctx, tx, "vote_b")
	category := testutil.SeedCategory(t, ctx, tx, "vote-ledger")
	question := testutil.SeedQuestion(t, ctx, tx, author.ID, category.ID)

	repo := repository.NewVoteRepository(tx)
	target := model.QuestionTarget(question.ID)

	// First upvote: 0 -> 1
	change, err := repo.Cast(ctx, voterA.ID, target, model.VoteUp)
	if err != nil {
		t.Fatalf("cast: %v", err)
	}
	if change.PrevType != "" || change.NewType != model.VoteUp {
		t.Errorf("change types = (%q, %q), want (\"\", UP)", change.PrevType, change.NewType)
	}
	if change.ScoreDelta != 1 || change.NewScore != 1 {
		t.Errorf("delta/score = %d/%d, want 1/1", change.ScoreDelta, change.NewScore)
	}
	if change.AuthorID != author.ID {
		t.Errorf("author = %s, want %s", change.AuthorID, author.ID)
	}

	// Second voter: 1 -> 2
	change, err = repo.Cast(ctx, voterB.ID, target, model.VoteUp)
	if err != nil {
		t.Fatalf("cast: %v", err)
	}
	if change.NewScore != 2 {
		t.Errorf("score after second upvote = %d, want 2", change.NewScore)
	}

	// Idempotent repeat: no movement
	change, err = repo.Cast(ctx, voterA.ID, target, model.VoteUp)
	if err != nil {
		t.Fatalf("repeat cast: %v", err)
	}
	if change.ScoreDelta != 0 || change.NewScore != 2 {
		t.Errorf("repeat delta/score = %d/%d, want 0/2", change.ScoreDelta, change.NewScore)
	}

	// Flip UP -> DOWN moves the score by two: 2 -> 0
	change, err = repo.Cast(ctx, voterA.ID, target, model.VoteDown)
	if err != nil {
		t.Fatalf("flip cast: %v", err)
	}
	if change.PrevType != model.VoteUp || change.NewType != model.VoteDown {
		t.Errorf("flip types = (%q, %q), want (UP, DOWN)", change.PrevType, change.NewType)
	}
	if change.ScoreDelta != -2 || change.NewScore != 0 {
		t.Errorf("flip delta/score = %d/%d, want -2/0", change.ScoreDelta, change.NewScore)
	}

	// Retract the downvote: 0 -> 1
	change, err = repo.Retract(ctx, voterA.ID, target)
	if err != nil {
		t.Fatalf("retract: %v", err)
	}
	if change.ScoreDelta != 1 || change.NewScore != 1 {
		t.Errorf("retract delta/score = %d/%d, want 1/1", change.ScoreDelta, change.NewScore)
	}

	// Retracting again is a no-op
	change, err = repo.Retract(ctx, voterA.ID, target)
	if err != nil {
		t.Fatalf("second retract: %v", err)
	}
	if change.ScoreDelta != 0 || change.NewScore != 1 {
		t.Errorf("no-op retract delta/score = %d/%d, want 0/1", change.ScoreDelta, change.NewScore)
	}

	// The denormalized column agrees with the ledger
	var stored model.Question
	if err := tx.First(&stored, "id = ?", question.ID).Error; err != nil {
		t.Fatalf("reload question: %v", err)
	}
	if stored.VoteScore != 1 {
		t.Errorf("stored vote_score = %d, want 1", stored.VoteScore)
	}

	up, down, err := repo.CountForTarget(ctx, target)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if up != 1 || down != 0 {
		t.Errorf("counts = %d up / %d down, want 1/0", up, down)
	}
}

func TestVoteLedgerOnComment(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	author := testutil.SeedUser(t, ctx, tx, "comment_author")
	voter := testutil.SeedUser(t, ctx, tx, "comment_voter")
	category := testutil.SeedCategory(t, ctx, tx, "comment-votes")
	question := testutil.SeedQuestion(t, ctx, tx, author.ID, category.ID)
	comment := testutil.SeedComment(t, ctx, tx, question.ID, author.ID, nil)

	repo := repository.NewVoteRepository(tx)
	target := model.CommentTarget(comment.ID)

	if _, err := repo.Cast(ctx, voter.ID, target, model.VoteDown); err != nil {
		t.Fatalf("cast: %v", err)
	}

	var stored model.Comment
	if err := tx.First(&stored, "id = ?", comment.ID).Error; err != nil {
		t.Fatalf("reload comment: %v", err)
	}
	if stored.VoteScore != -1 {
		t.Errorf("comment vote_score = %d, want -1", stored.VoteScore)
	}

	// A vote on the comment does not touch the question's score
	var storedQuestion model.Question
	if err := tx.First(&storedQuestion, "id = ?", question.ID).Error; err != nil {
		t.Fatalf("reload question: %v", err)
	}
	if storedQuestion.VoteScore != 0 {
		t.Errorf("question vote_score = %d, want 0", storedQuestion.VoteScore)
	}

	vote, err := repo.FindUserVote(ctx, voter.ID, target)
	if err != nil {
		t.Fatalf("find user vote: %v", err)
	}
	if vote == nil || vote.Type != model.VoteDown {
		t.Fatalf("user vote = %+v, want DOWN", vote)
	}
	if got := vote.Target(); got != target {
		t.Errorf("reconstructed target = %+v, want %+v", got, target)
	}
}

func TestVoteOnMissingTarget(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	voter := testutil.SeedUser(t, ctx, tx, "ghost_voter")
	repo := repository.NewVoteRepository(tx)

	_, err := repo.Cast(ctx, voter.ID, model.QuestionTarget(uuid.New()), model.VoteUp)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("cast on missing question = %v, want ErrNotFound", err)
	}

	_, err = repo.Cast(ctx, voter.ID, model.VoteTarget{}, model.VoteUp)
	if !errors.Is(err, apperror.ErrInvalidTarget) {
		t.Errorf("cast on zero target = %v, want ErrInvalidTarget", err)
	}
}
