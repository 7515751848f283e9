package dto

type CastVoteRequest struct {
	TargetType string `json:"target_type" binding:"required,oneof=question comment"`
	TargetID   string `json:"target_id" binding:"required,uuid"`
	Type       string `json:"type" binding:"required,oneof=UP DOWN"`
}

type RetractVoteRequest struct {
	TargetType string `json:"target_type" binding:"required,oneof=question comment"`
	TargetID   string `json:"target_id" binding:"required,uuid"`
}

// VoteStatusResponse reports the target's counts and the caller's own vote
// ("UP", "DOWN" or "none").
type VoteStatusResponse struct {
	Score     int    `json:"score"`
	Upvotes   int64  `json:"upvotes"`
	Downvotes int64  `json:"downvotes"`
	UserVote  string `json:"user_vote"`
}
