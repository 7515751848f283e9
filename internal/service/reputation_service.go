package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/answerhub/community-api/internal/model"
	"github.com/answerhub/community-api/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Reputation awards per event, roughly Stack-Overflow shaped.
const (
	RepUpvoteReceived   = 10
	RepDownvoteReceived = -2
	RepAnswerAccepted   = 15
)

// levelThresholds[i] is the minimum reputation for level i+1.
var levelThresholds = []int{0, 50, 200, 500, 1000, 2500, 5000}

// reputationBadges maps a reputation threshold to the badge earned at it.
var reputationBadges = []struct {
	Threshold int
	Slug      string
	Title     string
}{
	{50, "contributor", "Contributor"},
	{200, "regular", "Regular"},
	{500, "trusted", "Trusted Member"},
	{1000, "veteran", "Veteran"},
	{2500, "authority", "Community Authority"},
}

// LevelForReputation returns the 1-based level for a reputation total.
func LevelForReputation(reputation int) int {
	level := 1
	for i, threshold := range levelThresholds {
		if reputation >= threshold {
			level = i + 1
		}
	}
	return level
}

// badgesForReputation returns the slugs earned at or below the given total.
func badgesForReputation(reputation int) []string {
	var slugs []string
	for _, badge := range reputationBadges {
		if reputation >= badge.Threshold {
			slugs = append(slugs, badge.Slug)
		}
	}
	return slugs
}

// voteReputationDelta is the author's reputation change when a vote on their
// content moves from prev to next.
func voteReputationDelta(prev, next model.VoteType) int {
	value := func(t model.VoteType) int {
		switch t {
		case model.VoteUp:
			return RepUpvoteReceived
		case model.VoteDown:
			return RepDownvoteReceived
		}
		return 0
	}
	return value(next) - value(prev)
}

// newlyEarnedBadges returns reputation badges due at the new total that the
// user does not hold yet.
func newlyEarnedBadges(held []string, reputation int) []string {
	heldSet := make(map[string]struct{}, len(held))
	for _, slug := range held {
		heldSet[slug] = struct{}{}
	}

	var earned []string
	for _, slug := range badgesForReputation(reputation) {
		if _, ok := heldSet[slug]; !ok {
			earned = append(earned, slug)
		}
	}
	return earned
}

func badgeTitle(slug string) string {
	for _, badge := range reputationBadges {
		if badge.Slug == slug {
			return badge.Title
		}
	}
	return slug
}

type ReputationService interface {
	// AdjustAsync applies a reputation delta in the background, recomputing
	// the user's level and awarding reputation badges. Failures are logged
	// and never surface to the triggering operation.
	AdjustAsync(userID uuid.UUID, delta int, reason string)
}

type reputationService struct {
	userRepo            repository.UserRepository
	notificationService NotificationService
}

func NewReputationService(userRepo repository.UserRepository, notificationService NotificationService) ReputationService {
	return &reputationService{
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

func (s *reputationService) AdjustAsync(userID uuid.UUID, delta int, reason string) {
	if delta == 0 {
		return
	}

	go func() {
		ctx := context.Background()

		newTotal, err := s.userRepo.AdjustReputation(ctx, userID, delta)
		if err != nil {
			log.Printf("Failed to adjust reputation for user %s (%s): %v", userID, reason, err)
			return
		}

		user, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			log.Printf("Failed to load user %s after reputation change: %v", userID, err)
			return
		}

		var badges []string
		if len(user.Badges) > 0 {
			if err := json.Unmarshal(user.Badges, &badges); err != nil {
				log.Printf("Corrupt badge list for user %s: %v", userID, err)
				badges = nil
			}
		}

		earned := newlyEarnedBadges(badges, newTotal)
		level := LevelForReputation(newTotal)

		if level != user.Level || len(earned) > 0 {
			badges = append(badges, earned...)
			raw, _ := json.Marshal(badges)
			if err := s.userRepo.SetLevelAndBadges(ctx, userID, level, datatypes.JSON(raw)); err != nil {
				log.Printf("Failed to update level/badges for user %s: %v", userID, err)
				return
			}
		}

		for _, slug := range earned {
			notification := &model.Notification{
				UserID:  userID,
				Type:    model.NotificationBadgeEarned,
				Title:   "Badge earned",
				Message: fmt.Sprintf("You earned the %q badge", badgeTitle(slug)),
				Payload: payloadJSON(map[string]any{
					"badge":      slug,
					"reputation": newTotal,
				}),
			}
			if err := s.notificationService.Create(ctx, notification); err != nil {
				log.Printf("Failed to create badge notification for user %s: %v", userID, err)
			}
		}
	}()
}
