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
	"github.com/qolzam/devflow/internal/cache"
	dbi "github.com/qolzam/devflow/internal/database/interfaces"
	"github.com/qolzam/devflow/internal/pkg/content"
	"github.com/qolzam/devflow/internal/pkg/log"
	"github.com/qolzam/devflow/internal/types"
	questionErrors "github.com/qolzam/devflow/questions/errors"
	"github.com/qolzam/devflow/questions/models"
	"github.com/qolzam/devflow/questions/repository"
	"github.com/qolzam/devflow/shared/interfaces"
	"github.com/qolzam/devflow/users/reputation"
)

// QuestionService defines the interface for question operations
type QuestionService interface {
	interfaces.AuthoredContentRemover

	CreateQuestion(ctx context.Context, req *models.CreateQuestionRequest, user *types.UserContext) (*models.Question, error)
	// GetQuestion personalizes the result when viewer is non-nil.
	GetQuestion(ctx context.Context, questionID uuid.UUID, viewer *types.UserContext) (*models.QuestionDetail, error)
	UpdateQuestion(ctx context.Context, questionID uuid.UUID, req *models.UpdateQuestionRequest, user *types.UserContext) (*models.Question, error)
	DeleteQuestion(ctx context.Context, questionID uuid.UUID, user *types.UserContext) error

	ListQuestions(ctx context.Context, filter *models.QuestionQueryFilter) (*models.QuestionsPage, error)
	HotQuestions(ctx context.Context) ([]models.Question, error)
	QuestionsByTag(ctx context.Context, tagID uuid.UUID, filter *models.QuestionQueryFilter) (*models.TagQuestionsPage, error)
	QuestionsByUser(ctx context.Context, userID uuid.UUID, filter *models.QuestionQueryFilter) (*models.QuestionsPage, error)

	// ViewQuestion counts a view; viewer may be nil for anonymous callers.
	ViewQuestion(ctx context.Context, questionID uuid.UUID, viewer *types.UserContext) (*models.ViewResult, error)
}

// Dependencies are the collaborators owned by other domains.
type Dependencies struct {
	Tags         interfaces.TagLinker
	TagReader    interfaces.TagReader
	Interactions interfaces.InteractionRecorder
	Answers      interfaces.AnswerCascader
	VoteStates   interfaces.VoteStateReader
	VoteCleaner  interfaces.VoteCleaner
	Reputation   interfaces.ReputationAdjuster
	Saved        interfaces.SavedChecker
	// Invalidators are listing caches of other domains that depend on question rows.
	Invalidators []interfaces.ListingInvalidator
}

type questionService struct {
	repo  repository.QuestionRepository
	deps  Dependencies
	cache *cache.ListingCache
}

var _ QuestionService = (*questionService)(nil)

// NewQuestionService creates a new question service. listings may be nil.
func NewQuestionService(repo repository.QuestionRepository, deps Dependencies, listings *cache.ListingCache) QuestionService {
	return &questionService{repo: repo, deps: deps, cache: listings}
}

func validateQuestion(title, body string, tags []string) error {
	title = strings.TrimSpace(title)
	if n := utf8.RuneCountInString(title); n < models.MinTitleLength || n > models.MaxTitleLength {
		return fmt.Errorf("%w: title must be between %d and %d characters", questionErrors.ErrInvalidQuestionData, models.MinTitleLength, models.MaxTitleLength)
	}
	if utf8.RuneCountInString(strings.TrimSpace(body)) < models.MinContentLength {
		return fmt.Errorf("%w: content must be at least %d characters", questionErrors.ErrInvalidQuestionData, models.MinContentLength)
	}
	for _, tag := range tags {
		if strings.TrimSpace(tag) != "" {
			return nil
		}
	}
	return fmt.Errorf("%w: at least one tag is required", questionErrors.ErrInvalidQuestionData)
}

func (s *questionService) invalidate(ctx context.Context) {
	s.cache.InvalidateListings(ctx)
	for _, inv := range s.deps.Invalidators {
		inv.InvalidateListings(ctx)
	}
}

// wrap passes domain errors through and tags everything else as a database failure.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, questionErrors.ErrQuestionNotFound) ||
		errors.Is(err, questionErrors.ErrQuestionOwnershipRequired) ||
		errors.Is(err, questionErrors.ErrInvalidQuestionData) ||
		errors.Is(err, interfaces.ErrInvalidTags) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return questionErrors.ErrQuestionNotFound
	}
	return fmt.Errorf("%w: %v", questionErrors.ErrDatabaseOperation, err)
}

func tagIDs(refs []interfaces.TagRef) []uuid.UUID {
	ids := make([]uuid.UUID, len(refs))
	for i, ref := range refs {
		ids[i] = ref.ID
	}
	return ids
}

// render fills ContentHTML; a render failure leaves the raw content only.
func render(ctx context.Context, q *models.Question) {
	html, err := content.RenderMarkdown(q.Content)
	if err != nil {
		log.WarnWithContext(ctx, "render question %s: %v", q.ID, err)
		return
	}
	q.ContentHTML = html
}

func (s *questionService) CreateQuestion(ctx context.Context, req *models.CreateQuestionRequest, user *types.UserContext) (*models.Question, error) {
	if user == nil {
		return nil, questionErrors.ErrInvalidUserContext
	}
	if req == nil {
		return nil, fmt.Errorf("%w: request body is required", questionErrors.ErrInvalidQuestionData)
	}
	if err := validateQuestion(req.Title, req.Content, req.Tags); err != nil {
		return nil, err
	}

	questionID, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate question id: %w", err)
	}
	question := &models.Question{
		ID:       questionID,
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		AuthorID: user.UserID,
	}

	err = s.repo.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, question); err != nil {
			return err
		}
		refs, err := s.deps.Tags.LinkTags(txCtx, questionID, req.Tags)
		if err != nil {
			return err
		}
		question.Tags = refs

		if err := s.deps.Interactions.RecordInteraction(txCtx, interfaces.InteractionEvent{
			UserID:     user.UserID,
			Action:     interfaces.ActionAskQuestion,
			QuestionID: questionID,
			TagIDs:     tagIDs(refs),
		}); err != nil {
			return err
		}
		return s.deps.Reputation.AdjustReputation(txCtx, user.UserID, reputation.AskQuestion)
	})
	if err != nil {
		log.ErrorWithContext(ctx, "create question: %v", err)
		return nil, wrap(err)
	}
	s.invalidate(ctx)

	created, err := s.repo.FindByID(ctx, questionID)
	if err != nil {
		return nil, wrap(err)
	}
	created.Tags = question.Tags
	render(ctx, created)
	return created, nil
}

func (s *questionService) GetQuestion(ctx context.Context, questionID uuid.UUID, viewer *types.UserContext) (*models.QuestionDetail, error) {
	question, err := s.repo.FindByID(ctx, questionID)
	if err != nil {
		return nil, wrap(err)
	}
	tags, err := s.repo.TagsFor(ctx, []uuid.UUID{questionID})
	if err != nil {
		return nil, wrap(err)
	}
	question.Tags = nonNil(tags[questionID])
	render(ctx, question)

	detail := &models.QuestionDetail{Question: *question}
	if viewer == nil {
		return detail, nil
	}

	states, err := s.deps.VoteStates.VoteStates(ctx, interfaces.TargetQuestion, []uuid.UUID{questionID}, viewer.UserID)
	if err != nil {
		return nil, wrap(err)
	}
	detail.HasUpVoted = states[questionID] == interfaces.VoteUp
	detail.HasDownVoted = states[questionID] == interfaces.VoteDown

	saved, err := s.deps.Saved.IsSaved(ctx, viewer.UserID, questionID)
	if err != nil {
		return nil, wrap(err)
	}
	detail.HasSaved = saved
	return detail, nil
}

func (s *questionService) UpdateQuestion(ctx context.Context, questionID uuid.UUID, req *models.UpdateQuestionRequest, user *types.UserContext) (*models.Question, error) {
	if user == nil {
		return nil, questionErrors.ErrInvalidUserContext
	}
	if req == nil {
		return nil, fmt.Errorf("%w: request body is required", questionErrors.ErrInvalidQuestionData)
	}
	if err := validateQuestion(req.Title, req.Content, req.Tags); err != nil {
		return nil, err
	}

	var refs []interfaces.TagRef
	err := s.repo.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.requireOwner(txCtx, questionID, user.UserID); err != nil {
			return err
		}
		if err := s.repo.Update(txCtx, questionID, strings.TrimSpace(req.Title), req.Content); err != nil {
			return err
		}
		if err := s.deps.Tags.UnlinkTags(txCtx, questionID); err != nil {
			return err
		}
		var err error
		refs, err = s.deps.Tags.LinkTags(txCtx, questionID, req.Tags)
		return err
	})
	if err != nil {
		return nil, wrap(err)
	}
	s.invalidate(ctx)

	updated, err := s.repo.FindByID(ctx, questionID)
	if err != nil {
		return nil, wrap(err)
	}
	updated.Tags = refs
	render(ctx, updated)
	return updated, nil
}

func (s *questionService) requireOwner(ctx context.Context, questionID, userID uuid.UUID) error {
	question, err := s.repo.FindByID(ctx, questionID)
	if err != nil {
		return err
	}
	if question.AuthorID != userID {
		return questionErrors.ErrQuestionOwnershipRequired
	}
	return nil
}

func (s *questionService) DeleteQuestion(ctx context.Context, questionID uuid.UUID, user *types.UserContext) error {
	if user == nil {
		return questionErrors.ErrInvalidUserContext
	}

	err := s.repo.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.requireOwner(txCtx, questionID, user.UserID); err != nil {
			return err
		}
		return s.cascadeDelete(txCtx, questionID)
	})
	if err != nil {
		log.ErrorWithContext(ctx, "delete question %s: %v", questionID, err)
		return wrap(err)
	}
	s.invalidate(ctx)
	return nil
}

// cascadeDelete removes the question and everything hanging off it. Saved
// entries and tag links go with the row through ON DELETE CASCADE; tags are
// unlinked explicitly so the tag listing cache is refreshed.
func (s *questionService) cascadeDelete(ctx context.Context, questionID uuid.UUID) error {
	if err := s.deps.Interactions.DeleteForQuestion(ctx, questionID); err != nil {
		return err
	}
	if err := s.deps.Answers.DeleteAnswersForQuestion(ctx, questionID); err != nil {
		return err
	}
	if err := s.deps.VoteCleaner.DeleteVotesForTargets(ctx, interfaces.TargetQuestion, []uuid.UUID{questionID}); err != nil {
		return err
	}
	if err := s.deps.Tags.UnlinkTags(ctx, questionID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, questionID)
}

// RemoveContentByAuthor deletes every question the user asked, with the same
// cascade as an explicit delete. It joins the caller's transaction.
func (s *questionService) RemoveContentByAuthor(ctx context.Context, authorID uuid.UUID) error {
	err := s.repo.WithTransaction(ctx, func(txCtx context.Context) error {
		ids, err := s.repo.IDsByAuthor(txCtx, authorID)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := s.cascadeDelete(txCtx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return wrap(err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *questionService) attachTags(ctx context.Context, questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(questions))
	for i := range questions {
		ids[i] = questions[i].ID
	}
	tags, err := s.repo.TagsFor(ctx, ids)
	if err != nil {
		return err
	}
	for i := range questions {
		questions[i].Tags = nonNil(tags[questions[i].ID])
	}
	return nil
}

func (s *questionService) list(ctx context.Context, operation string, params repository.ListParams, page dbi.Pagination) (*models.QuestionsPage, error) {
	params.Limit = page.PageSize
	params.Offset = page.Offset()

	key := s.cache.Key(operation, map[string]interface{}{
		"q":        strings.TrimSpace(params.Search),
		"sort":     params.Sort,
		"tag":      params.TagID.String(),
		"author":   params.AuthorID.String(),
		"page":     page.Page,
		"pageSize": page.PageSize,
	})
	var cached models.QuestionsPage
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	questions, total, err := s.repo.List(ctx, params)
	if err != nil {
		log.ErrorWithContext(ctx, "list questions: %v", err)
		return nil, wrap(err)
	}
	if err := s.attachTags(ctx, questions); err != nil {
		return nil, wrap(err)
	}

	result := &models.QuestionsPage{Questions: questions, IsNext: page.IsNext(total, len(questions))}
	s.cache.Put(ctx, key, result)
	return result, nil
}

func (s *questionService) ListQuestions(ctx context.Context, filter *models.QuestionQueryFilter) (*models.QuestionsPage, error) {
	if filter == nil {
		filter = &models.QuestionQueryFilter{}
	}
	page := dbi.NewPagination(filter.Page, filter.PageSize, dbi.DefaultPageSize)
	return s.list(ctx, "list", repository.ListParams{
		Search: filter.Search,
		Sort:   filter.NormalizedFilter(),
	}, page)
}

func (s *questionService) HotQuestions(ctx context.Context) ([]models.Question, error) {
	key := s.cache.Key("hot", nil)
	var cached []models.Question
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	questions, err := s.repo.Hot(ctx, models.HotLimit)
	if err != nil {
		return nil, wrap(err)
	}
	if err := s.attachTags(ctx, questions); err != nil {
		return nil, wrap(err)
	}
	s.cache.Put(ctx, key, questions)
	return questions, nil
}

func (s *questionService) QuestionsByTag(ctx context.Context, tagID uuid.UUID, filter *models.QuestionQueryFilter) (*models.TagQuestionsPage, error) {
	if filter == nil {
		filter = &models.QuestionQueryFilter{}
	}
	tag, err := s.deps.TagReader.GetTagRef(ctx, tagID)
	if err != nil {
		return nil, wrap(err)
	}
	if tag == nil {
		return nil, questionErrors.ErrTagNotFound
	}

	page := dbi.NewPagination(filter.Page, filter.PageSize, dbi.DefaultPageSize)
	result, err := s.list(ctx, "by-tag", repository.ListParams{
		Search: filter.Search,
		Sort:   models.FilterNewest,
		TagID:  tagID,
	}, page)
	if err != nil {
		return nil, err
	}
	return &models.TagQuestionsPage{Tag: *tag, Questions: result.Questions, IsNext: result.IsNext}, nil
}

func (s *questionService) QuestionsByUser(ctx context.Context, userID uuid.UUID, filter *models.QuestionQueryFilter) (*models.QuestionsPage, error) {
	if filter == nil {
		filter = &models.QuestionQueryFilter{}
	}
	page := dbi.NewPagination(filter.Page, filter.PageSize, dbi.DefaultPageSize)
	return s.list(ctx, "by-user", repository.ListParams{
		Sort:     models.SortTop,
		AuthorID: userID,
	}, page)
}

// ViewQuestion does not invalidate listings; view counts in cached pages
// catch up when the entries expire.
func (s *questionService) ViewQuestion(ctx context.Context, questionID uuid.UUID, viewer *types.UserContext) (*models.ViewResult, error) {
	var views int64
	err := s.repo.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		views, err = s.repo.IncrementViews(txCtx, questionID)
		if err != nil {
			return err
		}
		if viewer == nil {
			return nil
		}
		return s.deps.Interactions.RecordInteraction(txCtx, interfaces.InteractionEvent{
			UserID:     viewer.UserID,
			Action:     interfaces.ActionViewQuestion,
			QuestionID: questionID,
		})
	})
	if err != nil {
		return nil, wrap(err)
	}
	return &models.ViewResult{Views: views}, nil
}

func nonNil(refs []interfaces.TagRef) []interfaces.TagRef {
	if refs == nil {
		return []interfaces.TagRef{}
	}
	return refs
}
