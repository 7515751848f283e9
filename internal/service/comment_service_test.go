package service

import (
	"context"
	"errors"
	"testing"

	"github.com/answerhub/community-api/internal/dto"
	"github.com/answerhub/community-api/internal/model"
	"github.com/answerhub/community-api/internal/repository"
	"github.com/answerhub/community-api/pkg/apperror"
	"github.com/google/uuid"
)

type stubCommentRepo struct {
	repository.CommentRepository
	byID    map[uuid.UUID]*model.Comment
	created *model.Comment
}

func (s *stubCommentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Comment, error) {
	if c, ok := s.byID[id]; ok {
		return c, nil
	}
	return nil, apperror.ErrNotFound
}

func (s *stubCommentRepo) Create(_ context.Context, comment *model.Comment) error {
	comment.ID = uuid.New()
	s.created = comment
	return nil
}

type stubQuestionRepo struct {
	repository.QuestionRepository
	question *model.Question
}

func (s *stubQuestionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Question, error) {
	if s.question != nil && s.question.ID == id {
		return s.question, nil
	}
	return nil, apperror.ErrNotFound
}

type stubUserRepo struct {
	repository.UserRepository
	user *model.User
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, apperror.ErrNotFound
}

func TestCreateCommentRejectsCrossQuestionParent(t *testing.T) {
	author := &model.User{ID: uuid.New(), Username: "asker"}
	question := &model.Question{ID: uuid.New(), AuthorID: author.ID, Title: "how do trees work"}
	foreignParent := &model.Comment{ID: uuid.New(), QuestionID: uuid.New()}

	commentRepo := &stubCommentRepo{byID: map[uuid.UUID]*model.Comment{foreignParent.ID: foreignParent}}
	svc := NewCommentService(
		commentRepo,
		&stubQuestionRepo{question: question},
		&stubUserRepo{user: author},
		nil, nil, nil, 0, 0,
	)

	_, err := svc.Create(context.Background(), author.ID, dto.CreateCommentRequest{
		QuestionID: question.ID.String(),
		ParentID:   foreignParent.ID.String(),
		Content:    "reply under the wrong question",
	})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if commentRepo.created != nil {
		t.Error("comment was created despite invalid parent")
	}
}

func TestCreateCommentAcceptsSameQuestionParent(t *testing.T) {
	author := &model.User{ID: uuid.New(), Username: "asker", IsExpert: true}
	question := &model.Question{ID: uuid.New(), AuthorID: author.ID, Title: "how do trees work"}
	parent := &model.Comment{ID: uuid.New(), QuestionID: question.ID}

	commentRepo := &stubCommentRepo{byID: map[uuid.UUID]*model.Comment{parent.ID: parent}}
	svc := NewCommentService(
		commentRepo,
		&stubQuestionRepo{question: question},
		&stubUserRepo{user: author},
		nil, nil, nil, 0, 0,
	)

	resp, err := svc.Create(context.Background(), author.ID, dto.CreateCommentRequest{
		QuestionID: question.ID.String(),
		ParentID:   parent.ID.String(),
		Content:    "a proper reply",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if commentRepo.created == nil || commentRepo.created.ParentID == nil || *commentRepo.created.ParentID != parent.ID {
		t.Fatal("created comment not linked to its parent")
	}
	if !commentRepo.created.IsByExpert {
		t.Error("expert flag not stamped from the author")
	}
	if resp.ParentID == nil || *resp.ParentID != parent.ID {
		t.Error("response missing parent id")
	}
}

func TestBuildCommentTree(t *testing.T) {
	questionID := uuid.New()
	rootA := &model.Comment{ID: uuid.New(), QuestionID: questionID, Content: "root a"}
	rootB := &model.Comment{ID: uuid.New(), QuestionID: questionID, Content: "root b"}
	replyA1 := &model.Comment{ID: uuid.New(), QuestionID: questionID, ParentID: &rootA.ID, Content: "reply a1"}
	replyA2 := &model.Comment{ID: uuid.New(), QuestionID: questionID, ParentID: &rootA.ID, Content: "reply a2"}
	nested := &model.Comment{ID: uuid.New(), QuestionID: questionID, ParentID: &replyA1.ID, Content: "nested"}

	tree := buildCommentTree([]*model.Comment{rootA, rootB, replyA1, replyA2, nested})

	if len(tree) != 2 {
		t.Fatalf("len(roots) = %d, want 2", len(tree))
	}
	if tree[0].ID != rootA.ID || tree[1].ID != rootB.ID {
		t.Errorf("roots out of order: %s, %s", tree[0].ID, tree[1].ID)
	}

	a := tree[0]
	if len(a.Replies) != 2 {
		t.Fatalf("rootA replies = %d, want 2", len(a.Replies))
	}
	if a.Replies[0].ID != replyA1.ID || a.Replies[1].ID != replyA2.ID {
		t.Errorf("replies out of order under rootA")
	}
	if len(a.Replies[0].Replies) != 1 || a.Replies[0].Replies[0].ID != nested.ID {
		t.Errorf("nested reply missing under replyA1")
	}

	if len(tree[1].Replies) != 0 {
		t.Errorf("rootB replies = %d, want 0", len(tree[1].Replies))
	}
}

func TestBuildCommentTreeOrphanSurfacesAsRoot(t *testing.T) {
	questionID := uuid.New()
	missingParent := uuid.New()
	orphan := &model.Comment{ID: uuid.New(), QuestionID: questionID, ParentID: &missingParent, Content: "orphan"}

	tree := buildCommentTree([]*model.Comment{orphan})
	if len(tree) != 1 || tree[0].ID != orphan.ID {
		t.Fatalf("orphan should surface as a root, got %d roots", len(tree))
	}
}

func TestBuildCommentTreeEmpty(t *testing.T) {
	if tree := buildCommentTree(nil); len(tree) != 0 {
		t.Errorf("empty input produced %d roots", len(tree))
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short, 10) = %q", got)
	}
	if got := truncate("a very long sentence", 6); got != "a very..." {
		t.Errorf("truncate long = %q", got)
	}
	// Counts runes, not bytes
	if got := truncate("ééééé", 3); got != "ééé..." {
		t.Errorf("truncate multibyte = %q", got)
	}
	if got := truncate("héllo", 5); got != "héllo" {
		t.Errorf("truncate exact rune length = %q", got)
	}
}
