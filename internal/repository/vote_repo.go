package repository

import (
	"context"

	"github.com/answerhub/community-api/internal/model"
	"github.com/answerhub/community-api/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteChange describes what a cast or retract did to the ledger. PrevType and
// NewType are empty when no vote existed before / remains after.
type VoteChange struct {
	PrevType   model.VoteType
	NewType    model.VoteType
	ScoreDelta int
	NewScore   int
	AuthorID   uuid.UUID // author of the voted target
}

type VoteRepository interface {
	// Cast records a directional vote and adjusts the target's score in the
	// same transaction. Re-casting the same type is a no-op; casting the
	// opposite type flips the row in place.
	Cast(ctx context.Context, userID uuid.UUID, target model.VoteTarget, voteType model.VoteType) (*VoteChange, error)
	// Retract removes the user's vote if present and reverses its score
	// contribution. Retracting a missing vote is a no-op.
	Retract(ctx context.Context, userID uuid.UUID, target model.VoteTarget) (*VoteChange, error)
	FindUserVote(ctx context.Context, userID uuid.UUID, target model.VoteTarget) (*model.Vote, error)
	CountForTarget(ctx context.Context, target model.VoteTarget) (up int64, down int64, err error)
}

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// lockTarget loads the target row FOR UPDATE so concurrent casts on the same
// target serialize on its score. Returns the current score and author.
func lockTarget(tx *gorm.DB, target model.VoteTarget) (score int, authorID uuid.UUID, err error) {
	locked := tx.Clauses(clause.Locking{Strength: "UPDATE"})

	switch target.Kind {
	case model.TargetQuestion:
		var question model.Question
		if err := locked.Select("id", "vote_score", "author_id").
			First(&question, "id = ?", target.ID).Error; err != nil {
			return 0, uuid.Nil, err
		}
		return question.VoteScore, question.AuthorID, nil
	case model.TargetComment:
		var comment model.Comment
		if err := locked.Select("id", "vote_score", "author_id").
			First(&comment, "id = ?", target.ID).Error; err != nil {
			return 0, uuid.Nil, err
		}
		return comment.VoteScore, comment.AuthorID, nil
	}
	return 0, uuid.Nil, apperror.ErrInvalidTarget
}

func adjustScore(tx *gorm.DB, target model.VoteTarget, delta int) error {
	expr := gorm.Expr("vote_score + ?", delta)
	if target.Kind == model.TargetQuestion {
		return tx.Model(&model.Question{}).Where("id = ?", target.ID).
			UpdateColumn("vote_score", expr).Error
	}
	return tx.Model(&model.Comment{}).Where("id = ?", target.ID).
		UpdateColumn("vote_score", expr).Error
}

func targetScope(query *gorm.DB, userID uuid.UUID, target model.VoteTarget) *gorm.DB {
	query = query.Where("user_id = ?", userID)
	if target.Kind == model.TargetQuestion {
		return query.Where("question_id = ?", target.ID)
	}
	return query.Where("comment_id = ?", target.ID)
}

func (r *voteRepository) Cast(ctx context.Context, userID uuid.UUID, target model.VoteTarget, voteType model.VoteType) (*VoteChange, error) {
	if !target.Valid() {
		return nil, apperror.ErrInvalidTarget
	}

	var change VoteChange
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		score, authorID, err := lockTarget(tx, target)
		if err != nil {
			return err
		}
		change.AuthorID = authorID

		// Find instead of First to avoid gorm's not-found log noise
		var existing []model.Vote
		if err := targetScope(tx, userID, target).Limit(1).Find(&existing).Error; err != nil {
			return err
		}

		if len(existing) == 0 {
			vote := model.Vote{UserID: userID, Type: voteType}
			if target.Kind == model.TargetQuestion {
				id := target.ID
				vote.QuestionID = &id
			} else {
				id := target.ID
				vote.CommentID = &id
			}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			change.PrevType = ""
		} else {
			change.PrevType = existing[0].Type
			if existing[0].Type == voteType {
				// Idempotent repeat
				change.NewType = voteType
				change.ScoreDelta = 0
				change.NewScore = score
				return nil
			}
			if err := tx.Model(&existing[0]).Update("type", voteType).Error; err != nil {
				return err
			}
		}

		change.NewType = voteType
		change.ScoreDelta = model.ScoreDelta(change.PrevType, voteType)
		change.NewScore = score + change.ScoreDelta
		return adjustScore(tx, target, change.ScoreDelta)
	})
	if err != nil {
		return nil, translate(err)
	}
	return &change, nil
}

func (r *voteRepository) Retract(ctx context.Context, userID uuid.UUID, target model.VoteTarget) (*VoteChange, error) {
	if !target.Valid() {
		return nil, apperror.ErrInvalidTarget
	}

	var change VoteChange
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		score, authorID, err := lockTarget(tx, target)
		if err != nil {
			return err
		}
		change.AuthorID = authorID

		var existing []model.Vote
		if err := targetScope(tx, userID, target).Limit(1).Find(&existing).Error; err != nil {
			return err
		}

		if len(existing) == 0 {
			change.NewScore = score
			return nil
		}

		change.PrevType = existing[0].Type
		if err := tx.Delete(&existing[0]).Error; err != nil {
			return err
		}

		change.ScoreDelta = model.ScoreDelta(change.PrevType, "")
		change.NewScore = score + change.ScoreDelta
		return adjustScore(tx, target, change.ScoreDelta)
	})
	if err != nil {
		return nil, translate(err)
	}
	return &change, nil
}

func (r *voteRepository) FindUserVote(ctx context.Context, userID uuid.UUID, target model.VoteTarget) (*model.Vote, error) {
	if !target.Valid() {
		return nil, apperror.ErrInvalidTarget
	}

	var votes []model.Vote
	err := targetScope(r.db.WithContext(ctx), userID, target).Limit(1).Find(&votes).Error
	if err != nil {
		return nil, translate(err)
	}
	if len(votes) == 0 {
		return nil, nil
	}
	return &votes[0], nil
}

func (r *voteRepository) CountForTarget(ctx context.Context, target model.VoteTarget) (int64, int64, error) {
	if !target.Valid() {
		return 0, 0, apperror.ErrInvalidTarget
	}

	type result struct {
		Type  model.VoteType
		Count int64
	}
	var results []result

	query := r.db.WithContext(ctx).Model(&model.Vote{}).
		Select("type, count(*) as count").
		Group("type")
	if target.Kind == model.TargetQuestion {
		query = query.Where("question_id = ?", target.ID)
	} else {
		query = query.Where("comment_id = ?", target.ID)
	}

	if err := query.Scan(&results).Error; err != nil {
		return 0, 0, translate(err)
	}

	var up, down int64
	for _, res := range results {
		switch res.Type {
		case model.VoteUp:
			up = res.Count
		case model.VoteDown:
			down = res.Count
		}
	}
	return up, down, nil
}
