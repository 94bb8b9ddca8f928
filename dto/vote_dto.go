package dto

// VoteResponse is returned after a vote is cast or withdrawn
type VoteResponse struct {
	ProjectID string `json:"project_id"`
	VoteCount int    `json:"vote_count"`
	HasVoted  bool   `json:"has_voted"`
}
