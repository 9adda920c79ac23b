package interfaces

import (
	"context"

	"github.com/gofrs/uuid"
)

// Vote target kinds as stored in votes.target_type.
const (
	TargetQuestion = "question"
	TargetAnswer   = "answer"
)

// Vote directions as stored in votes.vote_type. Zero means no vote.
const (
	VoteNone = 0
	VoteUp   = 1
	VoteDown = 2
)

// VoteTarget is a votable row with denormalized up/down counters.
// The questions and answers repositories implement it.
type VoteTarget interface {
	// LockVoteTarget takes a row lock on the target for the rest of the
	// enclosing transaction and returns its author.
	LockVoteTarget(ctx context.Context, id uuid.UUID) (authorID uuid.UUID, err error)

	// ApplyVoteDelta adjusts the counters and returns their new values.
	ApplyVoteDelta(ctx context.Context, id uuid.UUID, upDelta, downDelta int) (upVotes, downVotes int, err error)
}

// VoteStateReader returns the caller's vote direction per target id.
// Ids without a vote are absent from the map.
type VoteStateReader interface {
	VoteStates(ctx context.Context, targetType string, targetIDs []uuid.UUID, userID uuid.UUID) (map[uuid.UUID]int, error)
}

// VoteCleaner removes every vote on the given targets without touching reputation.
type VoteCleaner interface {
	DeleteVotesForTargets(ctx context.Context, targetType string, targetIDs []uuid.UUID) error
}

// VoteRetractor reverses every vote a user has cast, counters and author reputation included.
type VoteRetractor interface {
	RetractVotesByUser(ctx context.Context, userID uuid.UUID) error
}
