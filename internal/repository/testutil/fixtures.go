package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/answerhub/community-api/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *model.User {
	tb.Helper()
	u := &model.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: "pw",
		FullName:     "Test User",
		Level:        1,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCategory(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *model.Category {
	tb.Helper()
	c := &model.Category{Name: name}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return c
}

func SeedQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, authorID, categoryID uuid.UUID) *model.Question {
	tb.Helper()
	q := &model.Question{
		AuthorID:   authorID,
		CategoryID: categoryID,
		Title:      "How do I test this properly?",
		Content:    "Looking for the idiomatic way to cover this case.",
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	return q
}

func SeedComment(tb testing.TB, ctx context.Context, tx *gorm.DB, questionID, authorID uuid.UUID, parentID *uuid.UUID) *model.Comment {
	tb.Helper()
	c := &model.Comment{
		QuestionID: questionID,
		AuthorID:   authorID,
		ParentID:   parentID,
		Content:    "Have you tried turning it off and on again?",
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed comment: %v", err)
	}
	return c
}
