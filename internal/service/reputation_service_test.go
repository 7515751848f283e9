package service

import (
	"reflect"
	"testing"

	"github.com/answerhub/community-api/internal/model"
)

func TestLevelForReputation(t *testing.T) {
	tests := []struct {
		reputation int
		want       int
	}{
		{0, 1},
		{49, 1},
		{50, 2},
		{199, 2},
		{200, 3},
		{500, 4},
		{1000, 5},
		{2500, 6},
		{5000, 7},
		{99999, 7},
	}

	for _, tt := range tests {
		if got := LevelForReputation(tt.reputation); got != tt.want {
			t.Errorf("LevelForReputation(%d) = %d, want %d", tt.reputation, got, tt.want)
		}
	}
}

func TestVoteReputationDelta(t *testing.T) {
	tests := []struct {
		name string
		prev model.VoteType
		next model.VoteType
		want int
	}{
		{"upvote received", "", model.VoteUp, RepUpvoteReceived},
		{"downvote received", "", model.VoteDown, RepDownvoteReceived},
		{"up flipped to down", model.VoteUp, model.VoteDown, RepDownvoteReceived - RepUpvoteReceived},
		{"down flipped to up", model.VoteDown, model.VoteUp, RepUpvoteReceived - RepDownvoteReceived},
		{"upvote retracted", model.VoteUp, "", -RepUpvoteReceived},
		{"downvote retracted", model.VoteDown, "", -RepDownvoteReceived},
		{"no change", model.VoteUp, model.VoteUp, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := voteReputationDelta(tt.prev, tt.next); got != tt.want {
				t.Errorf("voteReputationDelta(%q, %q) = %d, want %d", tt.prev, tt.next, got, tt.want)
			}
		})
	}
}

func TestNewlyEarnedBadges(t *testing.T) {
	if got := newlyEarnedBadges(nil, 49); got != nil {
		t.Errorf("below first threshold = %v, want none", got)
	}

	got := newlyEarnedBadges(nil, 250)
	if !reflect.DeepEqual(got, []string{"contributor", "regular"}) {
		t.Errorf("fresh user at 250 = %v, want [contributor regular]", got)
	}

	got = newlyEarnedBadges([]string{"contributor"}, 250)
	if !reflect.DeepEqual(got, []string{"regular"}) {
		t.Errorf("holder of contributor at 250 = %v, want [regular]", got)
	}

	if got := newlyEarnedBadges([]string{"contributor", "regular"}, 250); got != nil {
		t.Errorf("all held = %v, want none", got)
	}
}

func TestBadgeTitle(t *testing.T) {
	if got := badgeTitle("trusted"); got != "Trusted Member" {
		t.Errorf("badgeTitle(trusted) = %q", got)
	}
	// Unknown slugs fall back to the slug itself
	if got := badgeTitle("mystery"); got != "mystery" {
		t.Errorf("badgeTitle(mystery) = %q", got)
	}
}
