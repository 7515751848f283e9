package service

import (
	"context"
	"encoding/json"
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
	"gorm.io/datatypes"
)

type QuestionService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
	// Get returns the question and bumps its view count (deduplicated per
	// viewer for an hour). viewerID may be nil.
	Get(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*dto.QuestionResponse, error)
	List(ctx context.Context, filter dto.QuestionFilter) (*dto.PaginatedQuestionResponse, error)
	Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateQuestionRequest) (*dto.QuestionResponse, error)
	// Moderate flips pin/urgent flags; caller must already be a moderator.
	Moderate(ctx context.Context, id uuid.UUID, req dto.ModerateQuestionRequest) error
	Delete(ctx context.Context, userID uuid.UUID, isModerator bool, id uuid.UUID) error
}

type questionService struct {
	repo          repository.QuestionRepository
	categoryRepo  repository.CategoryRepository
	commentRepo   repository.CommentRepository
	redisClient   *redis.Client
	searchService SearchService
	globalLimit   time.Duration
	createLimit   time.Duration
}

func NewQuestionService(repo repository.QuestionRepository, categoryRepo repository.CategoryRepository, commentRepo repository.CommentRepository, redisClient *redis.Client, searchService SearchService, globalLimit, createLimit time.Duration) QuestionService {
	return &questionService{
		repo:          repo,
		categoryRepo:  categoryRepo,
		commentRepo:   commentRepo,
		redisClient:   redisClient,
		searchService: searchService,
		globalLimit:   globalLimit,
		createLimit:   createLimit,
	}
}

// checkCreateRateLimit arms the global cooldown, then the question-specific
// one. When the specific cooldown trips, the global key is rolled back so the
// user is not doubly penalized. The returned cleanup clears both keys and is
// meant for when creation fails after the check.
func (s *questionService) checkCreateRateLimit(ctx context.Context, userID uuid.UUID) (func(), error) {
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

	allowed, err = ratelimiter.CheckAndSetRateLimit(ctx, s.redisClient, userID, ratelimiter.ScopeQuestion, s.createLimit)
	if err != nil {
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, userID, ratelimiter.ScopeGlobal)
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, userID, ratelimiter.ScopeGlobal)
		ttl, _ := ratelimiter.GetRateLimitTTL(ctx, s.redisClient, userID, ratelimiter.ScopeQuestion)
		return nil, &ratelimiter.RateLimitError{
			Message:    fmt.Sprintf("you can only ask one question every %.0f minutes. Please wait %.0f seconds", s.createLimit.Minutes(), ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	cleanup := func() {
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, userID, ratelimiter.ScopeGlobal)
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, userID, ratelimiter.ScopeQuestion)
	}
	return cleanup, nil
}

func (s *questionService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
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

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrValidation, "invalid category id")
	}
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}

	question := &model.Question{
		AuthorID:    userID,
		CategoryID:  categoryID,
		Title:       req.Title,
		Content:     req.Content,
		Tags:        marshalStrings(req.Tags),
		Images:      marshalStrings(req.Images),
		IsUrgent:    req.IsUrgent,
		IsAnonymous: req.IsAnonymous,
	}

	if err := s.repo.Create(ctx, question); err != nil {
		return nil, err
	}
	creationFailed = false

	created, err := s.repo.FindByID(ctx, question.ID)
	if err != nil {
		return nil, err
	}

	s.indexAsync(created)

	return s.toResponse(ctx, created), nil
}

func (s *questionService) Get(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*dto.QuestionResponse, error) {
	question, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.shouldCountView(ctx, id, viewerID) {
		if err := s.repo.IncrementViews(ctx, id); err != nil {
			log.Printf("Failed to increment views for question %s: %v", id, err)
		} else {
			question.ViewCount++
		}
	}

	return s.toResponse(ctx, question), nil
}

func (s *questionService) List(ctx context.Context, filter dto.QuestionFilter) (*dto.PaginatedQuestionResponse, error) {
	repoFilter := repository.QuestionFilter{
		Tag:    filter.Tag,
		Solved: filter.Solved,
		SortBy: filter.SortBy,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	if filter.CategoryID != "" {
		categoryID, err := uuid.Parse(filter.CategoryID)
		if err != nil {
			return nil, apperror.Wrap(apperror.ErrValidation, "invalid category id")
		}
		repoFilter.CategoryID = &categoryID
	}

	questions, total, err := s.repo.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}

	resp := &dto.PaginatedQuestionResponse{
		Data: make([]dto.QuestionResponse, 0, len(questions)),
		Meta: dto.PaginationMeta{
			CurrentPage: filter.Page,
			TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
			TotalItems:  total,
			Limit:       limit,
		},
	}
	for _, question := range questions {
		resp.Data = append(resp.Data, *s.toResponse(ctx, question))
	}
	return resp, nil
}

func (s *questionService) Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateQuestionRequest) (*dto.QuestionResponse, error) {
	question, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if question.AuthorID != userID {
		return nil, apperror.ErrForbidden
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Content != nil {
		fields["content"] = *req.Content
	}
	if req.Tags != nil {
		fields["tags"] = marshalStrings(*req.Tags)
	}
	if req.Images != nil {
		fields["images"] = marshalStrings(*req.Images)
	}
	if len(fields) == 0 {
		return s.toResponse(ctx, question), nil
	}

	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.indexAsync(updated)

	return s.toResponse(ctx, updated), nil
}

func (s *questionService) Moderate(ctx context.Context, id uuid.UUID, req dto.ModerateQuestionRequest) error {
	fields := map[string]interface{}{}
	if req.IsPinned != nil {
		fields["is_pinned"] = *req.IsPinned
	}
	if req.IsUrgent != nil {
		fields["is_urgent"] = *req.IsUrgent
	}
	if len(fields) == 0 {
		return apperror.Wrap(apperror.ErrValidation, "no moderation flags supplied")
	}
	return s.repo.UpdateFields(ctx, id, fields)
}

func (s *questionService) Delete(ctx context.Context, userID uuid.UUID, isModerator bool, id uuid.UUID) error {
	question, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if question.AuthorID != userID && !isModerator {
		return apperror.ErrForbidden
	}

	// Comments and votes go with the question via FK cascade
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.searchService != nil {
		go func() {
			if err := s.searchService.DeleteQuestion(id.String()); err != nil {
				log.Printf("Failed to remove question %s from search index: %v", id, err)
			}
		}()
	}
	return nil
}

// shouldCountView dedupes view bumps per viewer per hour through redis.
// Without redis every authenticated view counts.
func (s *questionService) shouldCountView(ctx context.Context, questionID uuid.UUID, viewerID *uuid.UUID) bool {
	if viewerID == nil {
		return false
	}
	if s.redisClient == nil {
		return true
	}

	key := fmt.Sprintf("question:user_view:%s:%s", questionID, viewerID)
	wasSet, err := s.redisClient.SetNX(ctx, key, "viewed", time.Hour).Result()
	if err != nil {
		log.Printf("Failed to check view dedupe: %v", err)
		return false
	}
	return wasSet
}

func (s *questionService) indexAsync(question *model.Question) {
	if s.searchService == nil {
		return
	}
	q := *question
	go func() {
		if err := s.searchService.IndexQuestion(&q); err != nil {
			log.Printf("Failed to index question %s: %v", q.ID, err)
		}
	}()
}

func (s *questionService) toResponse(ctx context.Context, question *model.Question) *dto.QuestionResponse {
	commentCount, err := s.commentRepo.CountByQuestion(ctx, question.ID)
	if err != nil {
		log.Printf("Failed to count comments for question %s: %v", question.ID, err)
	}

	resp := &dto.QuestionResponse{
		ID:           question.ID,
		Title:        question.Title,
		Content:      question.Content,
		CategoryID:   question.CategoryID,
		CategoryName: question.Category.Name,
		Tags:         unmarshalStrings(question.Tags),
		Images:       unmarshalStrings(question.Images),
		IsSolved:     question.IsSolved,
		IsPinned:     question.IsPinned,
		IsUrgent:     question.IsUrgent,
		IsAnonymous:  question.IsAnonymous,
		ViewCount:    question.ViewCount,
		VoteScore:    question.VoteScore,
		CommentCount: commentCount,
		CreatedAt:    question.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    question.UpdatedAt.Format(time.RFC3339),
	}
	if !question.IsAnonymous {
		resp.Author = toAuthorResponse(&question.Author)
	}
	return resp
}

func toAuthorResponse(user *model.User) *dto.AuthorResponse {
	if user == nil {
		return nil
	}
	return &dto.AuthorResponse{
		ID:         user.ID,
		Username:   user.Username,
		AvatarURL:  user.AvatarURL,
		Reputation: user.Reputation,
		Level:      user.Level,
		IsExpert:   user.IsExpert,
		IsVerified: user.IsVerified,
	}
}

func marshalStrings(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	raw, _ := json.Marshal(values)
	return datatypes.JSON(raw)
}

func unmarshalStrings(raw datatypes.JSON) []string {
	values := []string{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &values)
	}
	return values
}
