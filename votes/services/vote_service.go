// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	uuid "github.com/gofrs/uuid"
	"github.com/qolzam/devflow/internal/pkg/log"
	"github.com/qolzam/devflow/internal/types"
	"github.com/qolzam/devflow/shared/interfaces"
	"github.com/qolzam/devflow/users/reputation"
	voteErrors "github.com/qolzam/devflow/votes/errors"
	"github.com/qolzam/devflow/votes/models"
	voteRepository "github.com/qolzam/devflow/votes/repository"
)

// VoteService defines the interface for vote operations
type VoteService interface {
	interfaces.VoteStateReader
	interfaces.VoteCleaner
	interfaces.VoteRetractor

	// Vote casts, switches or retracts the caller's vote on a question or answer.
	// Voting the direction already held retracts it.
	Vote(ctx context.Context, targetType string, targetID uuid.UUID, voteType int, user *types.UserContext) (*models.VoteResult, error)
}

// Dependencies are the collaborators owned by other domains.
type Dependencies struct {
	// Targets maps a target type to the repository holding its rows.
	Targets      map[string]interfaces.VoteTarget
	Reputation   interfaces.ReputationAdjuster
	Invalidators []interfaces.ListingInvalidator
}

// voteService implements the VoteService interface
type voteService struct {
	voteRepo voteRepository.VoteRepository
	deps     Dependencies
}

// NewVoteService creates a new instance of the vote service
func NewVoteService(voteRepo voteRepository.VoteRepository, deps Dependencies) VoteService {
	return &voteService{voteRepo: voteRepo, deps: deps}
}

func (s *voteService) invalidate(ctx context.Context) {
	for _, inv := range s.deps.Invalidators {
		inv.InvalidateListings(ctx)
	}
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, voteErrors.ErrTargetNotFound) ||
		errors.Is(err, voteErrors.ErrInvalidTarget) ||
		errors.Is(err, voteErrors.ErrInvalidVoteType) {
		return err
	}
	return fmt.Errorf("%w: %v", voteErrors.ErrDatabaseOperation, err)
}

// Vote runs the whole transition in one transaction with the target row
// locked, so concurrent votes on the same target serialize:
//   - no vote held: insert the vote
//   - same type held: delete it (toggle off)
//   - other type held: switch it
//
// Counters and reputation move by the difference between the old and new state.
func (s *voteService) Vote(ctx context.Context, targetType string, targetID uuid.UUID, voteType int, user *types.UserContext) (*models.VoteResult, error) {
	if user == nil {
		return nil, voteErrors.ErrInvalidUserContext
	}
	if !models.IsValidVoteType(voteType) {
		return nil, fmt.Errorf("%w: %d (must be 1=Up or 2=Down)", voteErrors.ErrInvalidVoteType, voteType)
	}
	target, ok := s.deps.Targets[targetType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", voteErrors.ErrInvalidTarget, targetType)
	}

	result := &models.VoteResult{}
	err := s.voteRepo.WithTransaction(ctx, func(txCtx context.Context) error {
		authorID, err := target.LockVoteTarget(txCtx, targetID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return voteErrors.ErrTargetNotFound
			}
			return err
		}

		from := interfaces.VoteNone
		existing, err := s.voteRepo.Find(txCtx, targetType, targetID, user.UserID)
		switch {
		case err == nil:
			from = existing.VoteType
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("failed to find existing vote: %w", err)
		}

		to := voteType
		if from == voteType {
			to = interfaces.VoteNone
		}

		if to == interfaces.VoteNone {
			if _, _, err := s.voteRepo.Delete(txCtx, targetType, targetID, user.UserID); err != nil {
				return err
			}
		} else {
			if err := s.voteRepo.Upsert(txCtx, &models.Vote{
				TargetType: targetType,
				TargetID:   targetID,
				UserID:     user.UserID,
				VoteType:   to,
			}); err != nil {
				return err
			}
		}

		upDelta, downDelta := models.CounterDeltas(from, to)
		result.UpVotes, result.DownVotes, err = target.ApplyVoteDelta(txCtx, targetID, upDelta, downDelta)
		if err != nil {
			return err
		}
		result.HasUpVoted = to == interfaces.VoteUp
		result.HasDownVoted = to == interfaces.VoteDown

		deltas := reputation.Transition(targetType, from, to)
		if deltas.Voter != 0 {
			if err := s.deps.Reputation.AdjustReputation(txCtx, user.UserID, deltas.Voter); err != nil {
				return err
			}
		}
		if deltas.Author != 0 && authorID != user.UserID {
			if err := s.deps.Reputation.AdjustReputation(txCtx, authorID, deltas.Author); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.ErrorWithContext(ctx, "vote on %s %s: %v", targetType, targetID, err)
		return nil, wrap(err)
	}
	s.invalidate(ctx)
	return result, nil
}

// VoteStates implements interfaces.VoteStateReader.
func (s *voteService) VoteStates(ctx context.Context, targetType string, targetIDs []uuid.UUID, userID uuid.UUID) (map[uuid.UUID]int, error) {
	return s.voteRepo.StatesFor(ctx, targetType, targetIDs, userID)
}

// DeleteVotesForTargets implements interfaces.VoteCleaner.
func (s *voteService) DeleteVotesForTargets(ctx context.Context, targetType string, targetIDs []uuid.UUID) error {
	return s.voteRepo.DeleteForTargets(ctx, targetType, targetIDs)
}

// RetractVotesByUser reverses every vote the user cast before the user is
// removed. Counters and the authors' reputation are rolled back; the voter's
// own reputation is not, since the row is about to be deleted. Votes whose
// target is already gone are just dropped.
func (s *voteService) RetractVotesByUser(ctx context.Context, userID uuid.UUID) error {
	err := s.voteRepo.WithTransaction(ctx, func(txCtx context.Context) error {
		votes, err := s.voteRepo.ListByUser(txCtx, userID)
		if err != nil {
			return err
		}
		for _, vote := range votes {
			target, ok := s.deps.Targets[vote.TargetType]
			if !ok {
				continue
			}
			authorID, err := target.LockVoteTarget(txCtx, vote.TargetID)
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			if err != nil {
				return err
			}

			upDelta, downDelta := models.CounterDeltas(vote.VoteType, interfaces.VoteNone)
			if _, _, err := target.ApplyVoteDelta(txCtx, vote.TargetID, upDelta, downDelta); err != nil {
				return err
			}
			deltas := reputation.Transition(vote.TargetType, vote.VoteType, interfaces.VoteNone)
			if deltas.Author != 0 && authorID != userID {
				if err := s.deps.Reputation.AdjustReputation(txCtx, authorID, deltas.Author); err != nil {
					return err
				}
			}
		}
		return s.voteRepo.DeleteByUser(txCtx, userID)
	})
	if err != nil {
		return wrap(err)
	}
	s.invalidate(ctx)
	return nil
}
