// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import (
	"time"

	uuid "github.com/gofrs/uuid"
	"github.com/qolzam/devflow/shared/interfaces"
)

// Vote is one user's vote on a question or an answer.
type Vote struct {
	TargetType string    `db:"target_type" json:"targetType"`
	TargetID   uuid.UUID `db:"target_id" json:"targetId"`
	UserID     uuid.UUID `db:"user_id" json:"userId"`
	VoteType   int       `db:"vote_type" json:"voteType"` // 1=Up, 2=Down
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Directions accepted in request bodies.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// VoteRequest is the body of POST /questions/:id/votes and /answers/:id/votes.
type VoteRequest struct {
	Direction string `json:"direction"`
}

// VoteResult is the caller's view of the target after a vote.
type VoteResult struct {
	UpVotes      int  `json:"upVotes"`
	DownVotes    int  `json:"downVotes"`
	HasUpVoted   bool `json:"hasUpVoted"`
	HasDownVoted bool `json:"hasDownVoted"`
}

// ParseDirection maps "up"/"down" to a vote type.
func ParseDirection(direction string) (int, bool) {
	switch direction {
	case DirectionUp:
		return interfaces.VoteUp, true
	case DirectionDown:
		return interfaces.VoteDown, true
	default:
		return interfaces.VoteNone, false
	}
}

// IsValidVoteType checks if the vote type is valid
func IsValidVoteType(voteType int) bool {
	return voteType == interfaces.VoteUp || voteType == interfaces.VoteDown
}

// CounterDeltas returns the change to (upVotes, downVotes) when a user's
// vote moves from one type to another. VoteNone stands for no vote.
func CounterDeltas(from, to int) (up, down int) {
	switch from {
	case interfaces.VoteUp:
		up--
	case interfaces.VoteDown:
		down--
	}
	switch to {
	case interfaces.VoteUp:
		up++
	case interfaces.VoteDown:
		down++
	}
	return up, down
}
