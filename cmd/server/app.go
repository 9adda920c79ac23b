// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/qolzam/devflow/answers"
	answerHandlers "github.com/qolzam/devflow/answers/handlers"
	answerRepository "github.com/qolzam/devflow/answers/repository"
	answerServices "github.com/qolzam/devflow/answers/services"
	"github.com/qolzam/devflow/interactions"
	interactionHandlers "github.com/qolzam/devflow/interactions/handlers"
	interactionRepository "github.com/qolzam/devflow/interactions/repository"
	interactionServices "github.com/qolzam/devflow/interactions/services"
	"github.com/qolzam/devflow/internal/middleware/requestid"
	"github.com/qolzam/devflow/internal/pkg/log"
	"github.com/qolzam/devflow/internal/platform"
	"github.com/qolzam/devflow/internal/server"
	"github.com/qolzam/devflow/questions"
	questionHandlers "github.com/qolzam/devflow/questions/handlers"
	questionRepository "github.com/qolzam/devflow/questions/repository"
	questionServices "github.com/qolzam/devflow/questions/services"
	"github.com/qolzam/devflow/search"
	searchHandlers "github.com/qolzam/devflow/search/handlers"
	searchRepository "github.com/qolzam/devflow/search/repository"
	searchServices "github.com/qolzam/devflow/search/services"
	"github.com/qolzam/devflow/shared/interfaces"
	"github.com/qolzam/devflow/tags"
	tagHandlers "github.com/qolzam/devflow/tags/handlers"
	tagRepository "github.com/qolzam/devflow/tags/repository"
	tagServices "github.com/qolzam/devflow/tags/services"
	"github.com/qolzam/devflow/users"
	userHandlers "github.com/qolzam/devflow/users/handlers"
	userRepository "github.com/qolzam/devflow/users/repository"
	userServices "github.com/qolzam/devflow/users/services"
	"github.com/qolzam/devflow/votes"
	voteHandlers "github.com/qolzam/devflow/votes/handlers"
	voteRepository "github.com/qolzam/devflow/votes/repository"
	voteServices "github.com/qolzam/devflow/votes/services"
)

// errorHandler answers errors that escaped a handler. Responses a handler
// already wrote are kept.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	log.ErrorWithContext(c.UserContext(), "%s %s: %v (status %d)", c.Method(), c.Path(), err, code)

	if len(c.Response().Body()) > 0 {
		return nil
	}
	errCode := "INTERNAL_ERROR"
	if code < fiber.StatusInternalServerError {
		errCode = "REQUEST_ERROR"
	}
	return c.Status(code).JSON(fiber.Map{
		"code":    errCode,
		"message": err.Error(),
	})
}

// newApp builds the HTTP application with every domain wired to base.
func newApp(base *platform.BaseService, health *server.Health) *fiber.App {
	cfg := base.Config

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.WebDomain,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
	}))

	app.Get("/health", health.Handler)

	// Repositories share one pool.
	userRepo := userRepository.NewPostgresRepository(base.DB)
	questionRepo := questionRepository.NewPostgresRepository(base.DB)
	answerRepo := answerRepository.NewPostgresRepository(base.DB)
	tagRepo := tagRepository.NewPostgresRepository(base.DB)
	voteRepo := voteRepository.NewPostgresVoteRepository(base.DB)
	interactionRepo := interactionRepository.NewPostgresRepository(base.DB)
	searchRepo := searchRepository.NewPostgresRepository(base.DB)

	questionCache := base.ListingCache("questions")
	tagCache := base.ListingCache("tags")
	userCache := base.ListingCache("users")

	tagService := tagServices.NewTagService(tagRepo, tagCache)
	interactionService := interactionServices.NewInteractionService(interactionRepo)

	voteService := voteServices.NewVoteService(voteRepo, voteServices.Dependencies{
		Targets: map[string]interfaces.VoteTarget{
			interfaces.TargetQuestion: questionRepo,
			interfaces.TargetAnswer:   answerRepo,
		},
		Reputation:   userRepo,
		Invalidators: []interfaces.ListingInvalidator{questionCache, userCache},
	})

	answerService := answerServices.NewAnswerService(answerRepo, answerServices.Dependencies{
		Questions:    questionRepo,
		Interactions: interactionService,
		VoteStates:   voteService,
		VoteCleaner:  voteService,
		Reputation:   userRepo,
		Invalidators: []interfaces.ListingInvalidator{questionCache, userCache},
	})

	questionService := questionServices.NewQuestionService(questionRepo, questionServices.Dependencies{
		Tags:         tagService,
		TagReader:    tagService,
		Interactions: interactionService,
		Answers:      answerService,
		VoteStates:   voteService,
		VoteCleaner:  voteService,
		Reputation:   userRepo,
		Saved:        userRepo,
		Invalidators: []interfaces.ListingInvalidator{tagCache, userCache},
	}, questionCache)

	userService := userServices.NewUserService(userRepo, userServices.Dependencies{
		Votes:        voteService,
		Questions:    questionService,
		Answers:      answerService,
		Invalidators: []interfaces.ListingInvalidator{questionCache, tagCache},
	}, userCache)

	searchService := searchServices.NewSearchService(searchRepo)

	// /users/me routes must precede the /users/:userId family.
	users.RegisterRoutes(app, &users.UsersHandlers{
		UserHandler:    userHandlers.NewUserHandler(userService),
		WebhookHandler: userHandlers.NewWebhookHandler(userService),
	}, cfg)
	questions.RegisterRoutes(app, &questions.QuestionsHandlers{
		QuestionHandler: questionHandlers.NewQuestionHandler(questionService),
	}, cfg)
	answers.RegisterRoutes(app, &answers.AnswersHandlers{
		AnswerHandler: answerHandlers.NewAnswerHandler(answerService),
	}, cfg)
	votes.RegisterRoutes(app, &votes.VotesHandlers{
		VoteHandler: voteHandlers.NewVoteHandler(voteService),
	}, cfg)
	tags.RegisterRoutes(app, &tags.TagsHandlers{
		TagHandler: tagHandlers.NewTagHandler(tagService),
	}, cfg)
	interactions.RegisterRoutes(app, &interactions.InteractionsHandlers{
		InteractionHandler: interactionHandlers.NewInteractionHandler(interactionService),
	}, cfg)
	search.RegisterRoutes(app, &search.SearchHandlers{
		SearchHandler: searchHandlers.NewSearchHandler(searchService),
	}, cfg)

	return app
}
