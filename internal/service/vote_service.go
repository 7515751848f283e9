package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/answerhub/community-api/internal/dto"
	"github.com/answerhub/community-api/internal/model"
	"github.com/answerhub/community-api/internal/repository"
	"github.com/answerhub/community-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// milestoneStep: an UPVOTE_MILESTONE notification fires whenever a question's
// score crosses a multiple of this value upward.
const milestoneStep = 10

const voteCountsTTL = 7 * 24 * time.Hour

type VoteService interface {
	// Cast records or flips the caller's vote. Re-casting the same type is a
	// no-op. The returned status reflects the post-cast state of the target.
	Cast(ctx context.Context, userID uuid.UUID, target model.VoteTarget, voteType model.VoteType) (*dto.VoteStatusResponse, error)
	// Retract removes the caller's vote; retracting a missing vote is a no-op.
	Retract(ctx context.Context, userID uuid.UUID, target model.VoteTarget) (*dto.VoteStatusResponse, error)
	// GetStatus is side-effect free. userID may be nil for anonymous callers.
	GetStatus(ctx context.Context, userID *uuid.UUID, target model.VoteTarget) (*dto.VoteStatusResponse, error)
}

type voteService struct {
	repo                repository.VoteRepository
	redisClient         *redis.Client
	notificationService NotificationService
	reputationService   ReputationService
}

func NewVoteService(repo repository.VoteRepository, redisClient *redis.Client, notificationService NotificationService, reputationService ReputationService) VoteService {
	return &voteService{
		repo:                repo,
		redisClient:         redisClient,
		notificationService: notificationService,
		reputationService:   reputationService,
	}
}

func voteCountsKey(target model.VoteTarget) string {
	return fmt.Sprintf("vote_counts:%s:%s", target.Kind, target.ID.String())
}

// crossedMilestone reports the highest milestone newly reached when a score
// moves from oldScore to newScore. Only upward crossings count.
func crossedMilestone(oldScore, newScore int) (int, bool) {
	if newScore <= oldScore || newScore < milestoneStep {
		return 0, false
	}
	oldBucket := 0
	if oldScore > 0 {
		oldBucket = oldScore / milestoneStep
	}
	newBucket := newScore / milestoneStep
	if newBucket > oldBucket {
		return newBucket * milestoneStep, true
	}
	return 0, false
}

func (s *voteService) Cast(ctx context.Context, userID uuid.UUID, target model.VoteTarget, voteType model.VoteType) (*dto.VoteStatusResponse, error) {
	if !voteType.Valid() {
		return nil, apperror.Wrap(apperror.ErrValidation, "vote type must be UP or DOWN")
	}
	if !target.Valid() {
		return nil, apperror.ErrInvalidTarget
	}

	change, err := s.repo.Cast(ctx, userID, target, voteType)
	if errors.Is(err, apperror.ErrConflict) {
		// Lost an insert race on the (user, target) unique index: another
		// request created the row between our lookup and insert. One retry
		// re-reads the row and applies update-in-place semantics.
		change, err = s.repo.Cast(ctx, userID, target, voteType)
	}
	if err != nil {
		return nil, err
	}

	s.updateCountCache(ctx, target, change.PrevType, change.NewType)
	s.fireVoteSideEffects(userID, target, change)

	return s.status(ctx, &userID, target, &change.NewScore)
}

func (s *voteService) Retract(ctx context.Context, userID uuid.UUID, target model.VoteTarget) (*dto.VoteStatusResponse, error) {
	if !target.Valid() {
		return nil, apperror.ErrInvalidTarget
	}

	change, err := s.repo.Retract(ctx, userID, target)
	if err != nil {
		return nil, err
	}

	s.updateCountCache(ctx, target, change.PrevType, change.NewType)
	if change.ScoreDelta != 0 && change.AuthorID != userID {
		s.reputationService.AdjustAsync(change.AuthorID, voteReputationDelta(change.PrevType, ""), "vote_retracted")
	}

	return s.status(ctx, &userID, target, &change.NewScore)
}

func (s *voteService) GetStatus(ctx context.Context, userID *uuid.UUID, target model.VoteTarget) (*dto.VoteStatusResponse, error) {
	if !target.Valid() {
		return nil, apperror.ErrInvalidTarget
	}
	return s.status(ctx, userID, target, nil)
}

// updateCountCache keeps the redis per-type counters in step with a ledger
// change. The DB is already consistent, so failures are only logged.
func (s *voteService) updateCountCache(ctx context.Context, target model.VoteTarget, prev, next model.VoteType) {
	if s.redisClient == nil || prev == next {
		return
	}

	pipe := s.redisClient.Pipeline()
	key := voteCountsKey(target)
	if prev != "" {
		pipe.HIncrBy(ctx, key, string(prev), -1)
	}
	if next != "" {
		pipe.HIncrBy(ctx, key, string(next), 1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("Redis vote count update failed: %v", err)
	}
}

// fireVoteSideEffects handles reputation and milestone notifications after a
// successful cast. Best-effort: runs detached, never affects the vote.
func (s *voteService) fireVoteSideEffects(userID uuid.UUID, target model.VoteTarget, change *repository.VoteChange) {
	if change.ScoreDelta == 0 {
		return
	}

	if change.AuthorID != uuid.Nil && change.AuthorID != userID {
		s.reputationService.AdjustAsync(change.AuthorID, voteReputationDelta(change.PrevType, change.NewType), "vote_received")
	}

	if target.Kind != model.TargetQuestion {
		return
	}
	milestone, crossed := crossedMilestone(change.NewScore-change.ScoreDelta, change.NewScore)
	if !crossed || change.AuthorID == uuid.Nil || change.AuthorID == userID {
		return
	}

	go func() {
		notification := &model.Notification{
			UserID:  change.AuthorID,
			Type:    model.NotificationUpvoteMilestone,
			Title:   "Your question is taking off",
			Message: fmt.Sprintf("Your question reached a score of %d", milestone),
			Payload: payloadJSON(map[string]any{
				"question_id": target.ID.String(),
				"milestone":   milestone,
				"score":       change.NewScore,
			}),
		}
		if err := s.notificationService.Create(context.Background(), notification); err != nil {
			log.Printf("Failed to create milestone notification: %v", err)
		}
	}()
}

// status assembles counts (redis first, DB rebuild on miss) and the caller's
// own vote. knownScore avoids a re-read right after a cast.
func (s *voteService) status(ctx context.Context, userID *uuid.UUID, target model.VoteTarget, knownScore *int) (*dto.VoteStatusResponse, error) {
	var up, down int64
	cacheHit := false

	if s.redisClient != nil {
		if val, err := s.redisClient.HGetAll(ctx, voteCountsKey(target)).Result(); err == nil && len(val) > 0 {
			cacheHit = true
			up, _ = strconv.ParseInt(val[string(model.VoteUp)], 10, 64)
			down, _ = strconv.ParseInt(val[string(model.VoteDown)], 10, 64)
		}
	}

	if !cacheHit {
		var err error
		up, down, err = s.repo.CountForTarget(ctx, target)
		if err != nil {
			return nil, err
		}

		if s.redisClient != nil {
			pipe := s.redisClient.Pipeline()
			key := voteCountsKey(target)
			pipe.Del(ctx, key)
			pipe.HSet(ctx, key, string(model.VoteUp), up, string(model.VoteDown), down)
			pipe.Expire(ctx, key, voteCountsTTL)
			_, _ = pipe.Exec(ctx)
		}
	}

	userVote := "none"
	if userID != nil {
		vote, err := s.repo.FindUserVote(ctx, *userID, target)
		if err != nil {
			return nil, err
		}
		if vote != nil {
			userVote = string(vote.Type)
		}
	}

	score := int(up - down)
	if knownScore != nil {
		score = *knownScore
	}

	return &dto.VoteStatusResponse{
		Score:     score,
		Upvotes:   up,
		Downvotes: down,
		UserVote:  userVote,
	}, nil
}
