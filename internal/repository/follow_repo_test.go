package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/answerhub/community-api/internal/model"
	"github.com/answerhub/community-api/internal/repository"
	"github.com/answerhub/community-api/internal/repository/testutil"
	"github.com/answerhub/community-api/pkg/apperror"
)

func TestFollowPairUniqueness(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	alice := testutil.SeedUser(t, ctx, tx, "follow_alice")
	bob := testutil.SeedUser(t, ctx, tx, "follow_bob")

	repo := repository.NewFollowRepository(tx)

	if err := repo.Create(ctx, &model.Follow{FollowerID: alice.ID, FollowingID: bob.ID}); err != nil {
		t.Fatalf("create follow: %v", err)
	}

	err := repo.Create(ctx, &model.Follow{FollowerID: alice.ID, FollowingID: bob.ID})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("duplicate follow = %v, want ErrConflict", err)
	}

	// The reverse direction is a distinct pair
	if err := repo.Create(ctx, &model.Follow{FollowerID: bob.ID, FollowingID: alice.ID}); err != nil {
		t.Fatalf("reverse follow: %v", err)
	}

	exists, err := repo.Exists(ctx, alice.ID, bob.ID)
	if err != nil || !exists {
		t.Errorf("Exists(alice, bob) = %v, %v, want true", exists, err)
	}

	count, err := repo.CountFollowers(ctx, bob.ID)
	if err != nil || count != 1 {
		t.Errorf("CountFollowers(bob) = %d, %v, want 1", count, err)
	}

	if err := repo.Delete(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("delete follow: %v", err)
	}
	exists, err = repo.Exists(ctx, alice.ID, bob.ID)
	if err != nil || exists {
		t.Errorf("Exists after delete = %v, %v, want false", exists, err)
	}
}

func TestFollowLists(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	target := testutil.SeedUser(t, ctx, tx, "popular")
	fans := []string{"fan_one", "fan_two", "fan_three"}

	repo := repository.NewFollowRepository(tx)
	for _, name := range fans {
		fan := testutil.SeedUser(t, ctx, tx, name)
		if err := repo.Create(ctx, &model.Follow{FollowerID: fan.ID, FollowingID: target.ID}); err != nil {
			t.Fatalf("create follow for %s: %v", name, err)
		}
	}

	followers, err := repo.ListFollowers(ctx, target.ID, 2, 0)
	if err != nil {
		t.Fatalf("list followers: %v", err)
	}
	if len(followers) != 2 {
		t.Errorf("len(followers) = %d, want 2 (limit)", len(followers))
	}

	following, err := repo.ListFollowing(ctx, target.ID, 10, 0)
	if err != nil {
		t.Fatalf("list following: %v", err)
	}
	if len(following) != 0 {
		t.Errorf("len(following) = %d, want 0", len(following))
	}
}
