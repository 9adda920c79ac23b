// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"fmt"

	uuid "github.com/gofrs/uuid"
	interactionErrors "github.com/qolzam/devflow/interactions/errors"
	"github.com/qolzam/devflow/interactions/models"
	"github.com/qolzam/devflow/interactions/repository"
	"github.com/qolzam/devflow/shared/interfaces"
)

// InteractionService records activity and reads it back as tag affinity.
type InteractionService interface {
	interfaces.InteractionRecorder

	TopTags(ctx context.Context, userID uuid.UUID, query *models.TopTagsQuery) ([]models.TopTag, error)
}

type interactionService struct {
	repo repository.InteractionRepository
}

var _ InteractionService = (*interactionService)(nil)

// NewInteractionService creates a new interaction service
func NewInteractionService(repo repository.InteractionRepository) InteractionService {
	return &interactionService{repo: repo}
}

var knownActions = map[string]bool{
	interfaces.ActionAskQuestion:  true,
	interfaces.ActionViewQuestion: true,
	interfaces.ActionPostAnswer:   true,
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", interactionErrors.ErrDatabaseOperation, err)
}

// RecordInteraction joins the caller's transaction, so a failed write rolls
// back the action being recorded.
func (s *interactionService) RecordInteraction(ctx context.Context, event interfaces.InteractionEvent) error {
	if event.UserID == uuid.Nil {
		return fmt.Errorf("%w: user is required", interactionErrors.ErrInvalidInteraction)
	}
	if !knownActions[event.Action] {
		return fmt.Errorf("%w: unknown action %q", interactionErrors.ErrInvalidInteraction, event.Action)
	}
	id, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("failed to generate interaction id: %w", err)
	}
	return wrap(s.repo.Insert(ctx, id, event))
}

func (s *interactionService) DeleteForQuestion(ctx context.Context, questionID uuid.UUID) error {
	return wrap(s.repo.DeleteForQuestion(ctx, questionID))
}

func (s *interactionService) DeleteForAnswers(ctx context.Context, answerIDs []uuid.UUID) error {
	return wrap(s.repo.DeleteForAnswers(ctx, answerIDs))
}

func (s *interactionService) TopTags(ctx context.Context, userID uuid.UUID, query *models.TopTagsQuery) ([]models.TopTag, error) {
	if query == nil {
		query = &models.TopTagsQuery{}
	}
	tags, err := s.repo.TopTags(ctx, userID, query.NormalizedLimit())
	if err != nil {
		return nil, wrap(err)
	}
	return tags, nil
}
