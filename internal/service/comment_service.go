package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/answerhub/community-api/internal/dto"
	"github.com/answerhub/community-api/internal/model"
	"github.com/answerhub/community-api/internal/repository"
	"github.com/answerhub/community-api/pkg/apperror"
	"github.com/answerhub/community-api/pkg/ratelimiter"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CommentService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	// ListByQuestion returns the comments of a question assembled as a reply
	// tree, roots ordered oldest first.
	ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]dto.CommentResponse, error)
	Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	Delete(ctx context.Context, userID uuid.UUID, isModerator bool, id uuid.UUID) error
	// Accept marks a comment as the accepted answer. Only the question author
	// may accept; any previously accepted comment is cleared.
	Accept(ctx context.Context, callerID, commentID uuid.UUID) error
	// Unaccept clears the accepted answer and the question's solved flag.
	Unaccept(ctx context.Context, callerID, questionID uuid.UUID) error
}

type commentService struct {
	repo                repository.CommentRepository
	questionRepo        repository.QuestionRepository
	userRepo            repository.UserRepository
	redisClient         *redis.Client
	notificationService NotificationService
	reputationService   ReputationService
	globalLimit         time.Duration
	createLimit         time.Duration
}

func NewCommentService(repo repository.CommentRepository, questionRepo repository.QuestionRepository, userRepo repository.UserRepository, redisClient *redis.Client, notificationService NotificationService, reputationService ReputationService, globalLimit, createLimit time.Duration) CommentService {
	return &commentService{
		repo:                repo,
		questionRepo:        questionRepo,
		userRepo:            userRepo,
		redisClient:         redisClient,
		notificationService: notificationService,
		reputationService:   reputationService,
		globalLimit:         globalLimit,
		createLimit:         createLimit,
	}
}

// checkCreateRateLimit arms the global cooldown first, then the comment
// cooldown, rolling the global key back when the specific one trips. The
// returned cleanup clears both keys when creation fails after the check.
func (s *commentService) checkCreateRateLimit(ctx context.Context, userID uuid.UUID) (func(), error) {
	allowed, err := ratelimiter.CheckAndSetRateLimit(ctx, s.redisClient, userID, ratelimiter.ScopeGlobal, s.globalLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		ttl, _ := ratelimiter.GetRateLimitTTL(ctx, s.redisClient, userID, ratelimiter.ScopeGlobal)
		return nil, &ratelimiter.RateLimitError{
			Message:    fmt.Sprintf("you are doing that too fast. Please wait %.0f seconds", ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	allowed, err = ratelimiter.CheckAndSetRateLimit(ctx, s.redisClient, userID, ratelimiter.ScopeComment, s.createLimit)
	if err != nil {
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, userID, ratelimiter.ScopeGlobal)
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, userID, ratelimiter.ScopeGlobal)
		ttl, _ := ratelimiter.GetRateLimitTTL(ctx, s.redisClient, userID, ratelimiter.ScopeComment)
		return nil, &ratelimiter.RateLimitError{
			Message:    fmt.Sprintf("you are commenting too fast. Please wait %.0f seconds", ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	cleanup := func() {
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, userID, ratelimiter.ScopeGlobal)
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, userID, ratelimiter.ScopeComment)
	}
	return cleanup, nil
}

func (s *commentService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	cleanup, err := s.checkCreateRateLimit(ctx, userID)
	if err != nil {
		return nil, err
	}

	creationFailed := true
	defer func() {
		if creationFailed {
			cleanup()
		}
	}()

	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrValidation, "invalid question id")
	}

	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	var parentID *uuid.UUID
	if req.ParentID != "" {
		pid, err := uuid.Parse(req.ParentID)
		if err != nil {
			return nil, apperror.Wrap(apperror.ErrValidation, "invalid parent id")
		}
		parent, err := s.repo.FindByID(ctx, pid)
		if err != nil {
			return nil, err
		}
		// A reply must stay under its parent's question
		if parent.QuestionID != questionID {
			return nil, apperror.Wrap(apperror.ErrValidation, "parent comment belongs to a different question")
		}
		parentID = &pid
	}

	author, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		QuestionID: questionID,
		AuthorID:   userID,
		ParentID:   parentID,
		Content:    req.Content,
		Images:     marshalStrings(req.Images),
		IsByExpert: author.IsExpert,
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}
	creationFailed = false

	s.notifyNewComment(question, comment, author)

	comment.Author = *author
	resp := s.toResponse(comment)
	return &resp, nil
}

// notifyNewComment tells the question author about a new comment. Experts get
// their own notification type so clients can badge the reply.
func (s *commentService) notifyNewComment(question *model.Question, comment *model.Comment, author *model.User) {
	if question.AuthorID == author.ID {
		return
	}

	go func() {
		notifType := model.NotificationNewComment
		title := "New comment on your question"
		message := fmt.Sprintf("%s commented on %q", author.Username, truncate(question.Title, 40))
		if author.IsExpert {
			notifType = model.NotificationExpertReply
			title = "An expert replied to your question"
			message = fmt.Sprintf("Expert %s replied to %q", author.Username, truncate(question.Title, 40))
		}

		notification := &model.Notification{
			UserID:  question.AuthorID,
			Type:    notifType,
			Title:   title,
			Message: message,
			Payload: payloadJSON(map[string]any{
				"question_id": question.ID.String(),
				"comment_id":  comment.ID.String(),
				"actor_id":    author.ID.String(),
			}),
		}
		if err := s.notificationService.Create(context.Background(), notification); err != nil {
			log.Printf("Failed to create comment notification: %v", err)
		}
	}()
}

func (s *commentService) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]dto.CommentResponse, error) {
	if _, err := s.questionRepo.FindByID(ctx, questionID); err != nil {
		return nil, err
	}

	comments, err := s.repo.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	return buildCommentTree(comments), nil
}

type commentTreeNode struct {
	resp     dto.CommentResponse
	children []*commentTreeNode
}

// buildCommentTree assembles the flat, created_at-ordered rows into a reply
// tree by id lookup, never by pointer-chasing model structs. Replies whose
// parent is missing from the batch surface as roots rather than disappearing.
func buildCommentTree(comments []*model.Comment) []dto.CommentResponse {
	nodes := make(map[uuid.UUID]*commentTreeNode, len(comments))
	for _, comment := range comments {
		nodes[comment.ID] = &commentTreeNode{resp: newTreeNode(comment)}
	}

	var roots []*commentTreeNode
	for _, comment := range comments {
		node := nodes[comment.ID]
		if comment.ParentID != nil {
			if parent, ok := nodes[*comment.ParentID]; ok {
				parent.children = append(parent.children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	result := make([]dto.CommentResponse, 0, len(roots))
	for _, root := range roots {
		result = append(result, materializeCommentTree(root))
	}
	return result
}

func materializeCommentTree(node *commentTreeNode) dto.CommentResponse {
	resp := node.resp
	for _, child := range node.children {
		resp.Replies = append(resp.Replies, materializeCommentTree(child))
	}
	return resp
}

func newTreeNode(comment *model.Comment) dto.CommentResponse {
	resp := dto.CommentResponse{
		ID:         comment.ID,
		QuestionID: comment.QuestionID,
		ParentID:   comment.ParentID,
		Content:    comment.Content,
		Images:     unmarshalStrings(comment.Images),
		IsAccepted: comment.IsAccepted,
		IsByExpert: comment.IsByExpert,
		VoteScore:  comment.VoteScore,
		CreatedAt:  comment.CreatedAt.Format(time.RFC3339),
		Replies:    []dto.CommentResponse{},
	}
	if author := toAuthorResponse(&comment.Author); author != nil {
		resp.Author = *author
	}
	return resp
}

func (s *commentService) toResponse(comment *model.Comment) dto.CommentResponse {
	return newTreeNode(comment)
}

func (s *commentService) Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != userID {
		return nil, apperror.ErrForbidden
	}

	fields := map[string]interface{}{}
	if req.Content != nil {
		fields["content"] = *req.Content
	}
	if req.Images != nil {
		fields["images"] = marshalStrings(*req.Images)
	}
	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(updated)
	return &resp, nil
}

func (s *commentService) Delete(ctx context.Context, userID uuid.UUID, isModerator bool, id uuid.UUID) error {
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if comment.AuthorID != userID && !isModerator {
		return apperror.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func (s *commentService) Accept(ctx context.Context, callerID, commentID uuid.UUID) error {
	comment, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}

	question, err := s.questionRepo.FindByID(ctx, comment.QuestionID)
	if err != nil {
		return err
	}
	if question.AuthorID != callerID {
		return apperror.Wrap(apperror.ErrForbidden, "only the question author can accept an answer")
	}

	if err := s.repo.SetAccepted(ctx, question.ID, commentID); err != nil {
		return err
	}
	if err := s.questionRepo.UpdateFields(ctx, question.ID, map[string]interface{}{"is_solved": true}); err != nil {
		return err
	}

	// Side effects are best-effort once the accept itself is committed
	if comment.AuthorID != callerID {
		s.reputationService.AdjustAsync(comment.AuthorID, RepAnswerAccepted, "answer_accepted")

		go func() {
			notification := &model.Notification{
				UserID:  comment.AuthorID,
				Type:    model.NotificationQuestionSolved,
				Title:   "Your answer was accepted",
				Message: fmt.Sprintf("Your answer to %q was marked as the solution", truncate(question.Title, 40)),
				Payload: payloadJSON(map[string]any{
					"question_id": question.ID.String(),
					"comment_id":  commentID.String(),
				}),
			}
			if err := s.notificationService.Create(context.Background(), notification); err != nil {
				log.Printf("Failed to create accepted-answer notification: %v", err)
			}
		}()
	}

	return nil
}

func (s *commentService) Unaccept(ctx context.Context, callerID, questionID uuid.UUID) error {
	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		return err
	}
	if question.AuthorID != callerID {
		return apperror.Wrap(apperror.ErrForbidden, "only the question author can unaccept an answer")
	}

	if err := s.repo.ClearAccepted(ctx, questionID); err != nil {
		return err
	}
	return s.questionRepo.UpdateFields(ctx, questionID, map[string]interface{}{"is_solved": false})
}

// truncate counts runes so multi-byte titles are never cut mid-character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
