package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/answerhub/community-api/internal/dto"
	"github.com/answerhub/community-api/internal/handler"
	"github.com/answerhub/community-api/internal/model"
	"github.com/answerhub/community-api/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type stubVoteService struct {
	castTarget model.VoteTarget
	castType   model.VoteType
	castErr    error
	status     dto.VoteStatusResponse
}

func (s *stubVoteService) Cast(ctx context.Context, userID uuid.UUID, target model.VoteTarget, voteType model.VoteType) (*dto.VoteStatusResponse, error) {
	s.castTarget = target
	s.castType = voteType
	if s.castErr != nil {
		return nil, s.castErr
	}
	return &s.status, nil
}

func (s *stubVoteService) Retract(ctx context.Context, userID uuid.UUID, target model.VoteTarget) (*dto.VoteStatusResponse, error) {
	return &s.status, nil
}

func (s *stubVoteService) GetStatus(ctx context.Context, userID *uuid.UUID, target model.VoteTarget) (*dto.VoteStatusResponse, error) {
	return &s.status, nil
}

func newVoteRouter(stub *stubVoteService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	// Stand-in for the auth middleware
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uuid.New().String())
	})

	h := handler.NewVoteHandler(stub)
	router.POST("/votes", h.Cast)
	router.DELETE("/votes", h.Retract)
	router.GET("/votes/status", h.Status)
	return router
}

func TestCastVote(t *testing.T) {
	stub := &stubVoteService{status: dto.VoteStatusResponse{Score: 5, Upvotes: 6, Downvotes: 1, UserVote: "UP"}}
	router := newVoteRouter(stub)

	questionID := uuid.New()
	body := `{"target_type":"question","target_id":"` + questionID.String() + `","type":"UP"}`
	req := httptest.NewRequest(http.MethodPost, "/votes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if stub.castTarget != model.QuestionTarget(questionID) {
		t.Errorf("service received target %+v", stub.castTarget)
	}
	if stub.castType != model.VoteUp {
		t.Errorf("service received type %q", stub.castType)
	}

	var resp dto.VoteStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Score != 5 || resp.UserVote != "UP" {
		t.Errorf("response = %+v", resp)
	}
}

func TestCastVoteRejectsBadType(t *testing.T) {
	router := newVoteRouter(&stubVoteService{})

	body := `{"target_type":"question","target_id":"` + uuid.New().String() + `","type":"SIDEWAYS"}`
	req := httptest.NewRequest(http.MethodPost, "/votes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCastVoteRejectsBadTargetKind(t *testing.T) {
	router := newVoteRouter(&stubVoteService{})

	body := `{"target_type":"user","target_id":"` + uuid.New().String() + `","type":"UP"}`
	req := httptest.NewRequest(http.MethodPost, "/votes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCastVoteMapsNotFound(t *testing.T) {
	stub := &stubVoteService{castErr: apperror.ErrNotFound}
	router := newVoteRouter(stub)

	body := `{"target_type":"comment","target_id":"` + uuid.New().String() + `","type":"DOWN"}`
	req := httptest.NewRequest(http.MethodPost, "/votes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestVoteStatusRequiresValidParams(t *testing.T) {
	router := newVoteRouter(&stubVoteService{})

	req := httptest.NewRequest(http.MethodGet, "/votes/status?target_type=question&target_id=not-a-uuid", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
