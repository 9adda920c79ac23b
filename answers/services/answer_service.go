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
	"strings"
	"unicode/utf8"

	uuid "github.com/gofrs/uuid"
	answerErrors "github.com/qolzam/devflow/answers/errors"
	"github.com/qolzam/devflow/answers/models"
	"github.com/qolzam/devflow/answers/repository"
	dbi "github.com/qolzam/devflow/internal/database/interfaces"
	"github.com/qolzam/devflow/internal/pkg/content"
	"github.com/qolzam/devflow/internal/pkg/log"
	"github.com/qolzam/devflow/internal/types"
	"github.com/qolzam/devflow/shared/interfaces"
	"github.com/qolzam/devflow/users/reputation"
)

// AnswerService defines the interface for answer operations
type AnswerService interface {
	interfaces.AnswerCascader
	interfaces.AuthoredContentRemover

	CreateAnswer(ctx context.Context, questionID uuid.UUID, req *models.CreateAnswerRequest, user *types.UserContext) (*models.Answer, error)
	// ListAnswers personalizes vote flags when viewer is non-nil.
	ListAnswers(ctx context.Context, questionID uuid.UUID, filter *models.AnswerQueryFilter, viewer *types.UserContext) (*models.AnswersPage, error)
	DeleteAnswer(ctx context.Context, answerID uuid.UUID, user *types.UserContext) error
	AnswersByUser(ctx context.Context, userID uuid.UUID, filter *models.AnswerQueryFilter) (*models.AnswersPage, error)
}

// Dependencies are the collaborators owned by other domains.
type Dependencies struct {
	Questions    interfaces.AnswerCounter
	Interactions interfaces.InteractionRecorder
	VoteStates   interfaces.VoteStateReader
	VoteCleaner  interfaces.VoteCleaner
	Reputation   interfaces.ReputationAdjuster
	// Invalidators are listing caches that embed answer counts.
	Invalidators []interfaces.ListingInvalidator
}

type answerService struct {
	repo repository.AnswerRepository
	deps Dependencies
}

var _ AnswerService = (*answerService)(nil)

// NewAnswerService creates a new answer service
func NewAnswerService(repo repository.AnswerRepository, deps Dependencies) AnswerService {
	return &answerService{repo: repo, deps: deps}
}

func (s *answerService) invalidate(ctx context.Context) {
	for _, inv := range s.deps.Invalidators {
		inv.InvalidateListings(ctx)
	}
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, answerErrors.ErrAnswerNotFound) ||
		errors.Is(err, answerErrors.ErrQuestionNotFound) ||
		errors.Is(err, answerErrors.ErrAnswerOwnershipRequired) ||
		errors.Is(err, answerErrors.ErrInvalidAnswerData) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return answerErrors.ErrAnswerNotFound
	}
	return fmt.Errorf("%w: %v", answerErrors.ErrDatabaseOperation, err)
}

func render(ctx context.Context, a *models.Answer) {
	html, err := content.RenderMarkdown(a.Content)
	if err != nil {
		log.WarnWithContext(ctx, "render answer %s: %v", a.ID, err)
		return
	}
	a.ContentHTML = html
}

func (s *answerService) CreateAnswer(ctx context.Context, questionID uuid.UUID, req *models.CreateAnswerRequest, user *types.UserContext) (*models.Answer, error) {
	if user == nil {
		return nil, answerErrors.ErrInvalidUserContext
	}
	if req == nil || utf8.RuneCountInString(strings.TrimSpace(req.Content)) < models.MinContentLength {
		return nil, fmt.Errorf("%w: content must be at least %d characters", answerErrors.ErrInvalidAnswerData, models.MinContentLength)
	}

	answerID, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer id: %w", err)
	}
	answer := &models.Answer{
		ID:         answerID,
		QuestionID: questionID,
		Content:    req.Content,
		AuthorID:   user.UserID,
	}

	err = s.repo.WithTransaction(ctx, func(txCtx context.Context) error {
		// Bumping the counter first doubles as the existence check.
		if err := s.deps.Questions.AdjustAnswerCount(txCtx, questionID, 1); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return answerErrors.ErrQuestionNotFound
			}
			return err
		}
		if err := s.repo.Create(txCtx, answer); err != nil {
			return err
		}
		if err := s.deps.Interactions.RecordInteraction(txCtx, interfaces.InteractionEvent{
			UserID:     user.UserID,
			Action:     interfaces.ActionPostAnswer,
			QuestionID: questionID,
			AnswerID:   &answerID,
		}); err != nil {
			return err
		}
		return s.deps.Reputation.AdjustReputation(txCtx, user.UserID, reputation.PostAnswer)
	})
	if err != nil {
		log.ErrorWithContext(ctx, "create answer on %s: %v", questionID, err)
		return nil, wrap(err)
	}
	s.invalidate(ctx)

	created, err := s.repo.FindByID(ctx, answerID)
	if err != nil {
		return nil, wrap(err)
	}
	render(ctx, created)
	return created, nil
}

func (s *answerService) ListAnswers(ctx context.Context, questionID uuid.UUID, filter *models.AnswerQueryFilter, viewer *types.UserContext) (*models.AnswersPage, error) {
	if filter == nil {
		filter = &models.AnswerQueryFilter{}
	}
	page := dbi.NewPagination(filter.Page, filter.PageSize, models.DefaultPageSize)

	answers, total, err := s.repo.ListByQuestion(ctx, questionID, filter.NormalizedSort(), page.PageSize, page.Offset())
	if err != nil {
		log.ErrorWithContext(ctx, "list answers of %s: %v", questionID, err)
		return nil, wrap(err)
	}
	for i := range answers {
		render(ctx, &answers[i])
	}

	if viewer != nil && len(answers) > 0 {
		ids := make([]uuid.UUID, len(answers))
		for i := range answers {
			ids[i] = answers[i].ID
		}
		states, err := s.deps.VoteStates.VoteStates(ctx, interfaces.TargetAnswer, ids, viewer.UserID)
		if err != nil {
			return nil, wrap(err)
		}
		for i := range answers {
			answers[i].HasUpVoted = states[answers[i].ID] == interfaces.VoteUp
			answers[i].HasDownVoted = states[answers[i].ID] == interfaces.VoteDown
		}
	}

	return &models.AnswersPage{Answers: answers, IsNext: page.IsNext(total, len(answers))}, nil
}

func (s *answerService) DeleteAnswer(ctx context.Context, answerID uuid.UUID, user *types.UserContext) error {
	if user == nil {
		return answerErrors.ErrInvalidUserContext
	}

	err := s.repo.WithTransaction(ctx, func(txCtx context.Context) error {
		answer, err := s.repo.FindByID(txCtx, answerID)
		if err != nil {
			return err
		}
		if answer.AuthorID != user.UserID {
			return answerErrors.ErrAnswerOwnershipRequired
		}
		return s.removeAnswers(txCtx, []models.AnswerKey{{ID: answer.ID, QuestionID: answer.QuestionID}})
	})
	if err != nil {
		log.ErrorWithContext(ctx, "delete answer %s: %v", answerID, err)
		return wrap(err)
	}
	s.invalidate(ctx)
	return nil
}

// removeAnswers deletes the answers with their votes and interaction records
// and decrements each parent question's answer count.
func (s *answerService) removeAnswers(ctx context.Context, keys []models.AnswerKey) error {
	if len(keys) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(keys))
	for i, key := range keys {
		ids[i] = key.ID
	}
	if err := s.deps.VoteCleaner.DeleteVotesForTargets(ctx, interfaces.TargetAnswer, ids); err != nil {
		return err
	}
	if err := s.deps.Interactions.DeleteForAnswers(ctx, ids); err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.repo.Delete(ctx, key.ID); err != nil {
			return err
		}
		if err := s.deps.Questions.AdjustAnswerCount(ctx, key.QuestionID, -1); err != nil {
			return err
		}
	}
	return nil
}

// DeleteAnswersForQuestion is called from the question delete cascade and
// joins its transaction. The question row is about to go, so its counter is left alone.
func (s *answerService) DeleteAnswersForQuestion(ctx context.Context, questionID uuid.UUID) error {
	return s.repo.WithTransaction(ctx, func(txCtx context.Context) error {
		ids, err := s.repo.IDsByQuestion(txCtx, questionID)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := s.deps.VoteCleaner.DeleteVotesForTargets(txCtx, interfaces.TargetAnswer, ids); err != nil {
			return err
		}
		if err := s.deps.Interactions.DeleteForAnswers(txCtx, ids); err != nil {
			return err
		}
		return s.repo.DeleteByQuestion(txCtx, questionID)
	})
}

// RemoveContentByAuthor deletes every answer the user posted. It joins the caller's transaction.
func (s *answerService) RemoveContentByAuthor(ctx context.Context, authorID uuid.UUID) error {
	err := s.repo.WithTransaction(ctx, func(txCtx context.Context) error {
		keys, err := s.repo.KeysByAuthor(txCtx, authorID)
		if err != nil {
			return err
		}
		return s.removeAnswers(txCtx, keys)
	})
	if err != nil {
		return wrap(err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *answerService) AnswersByUser(ctx context.Context, userID uuid.UUID, filter *models.AnswerQueryFilter) (*models.AnswersPage, error) {
	if filter == nil {
		filter = &models.AnswerQueryFilter{}
	}
	page := dbi.NewPagination(filter.Page, filter.PageSize, dbi.DefaultPageSize)

	answers, total, err := s.repo.ListByAuthor(ctx, userID, page.PageSize, page.Offset())
	if err != nil {
		return nil, wrap(err)
	}
	for i := range answers {
		render(ctx, &answers[i])
	}
	return &models.AnswersPage{Answers: answers, IsNext: page.IsNext(total, len(answers))}, nil
}
