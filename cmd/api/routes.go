package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"quiz-arena/internal/handler"
	"quiz-arena/internal/middleware"
)

type routeDeps struct {
	auth     middleware.TokenValidator
	validate *middleware.ValidationMiddleware

	authH    *handler.AuthHandler
	profileH *handler.ProfileHandler
	catalogH *handler.CatalogHandler
	attemptH *handler.AttemptHandler
	resultH  *handler.ResultHandler
	contentH *handler.ContentHandler
	battleH  *handler.BattleHandler
	healthH  *handler.HealthHandler
}

func setupRoutes(app *fiber.App, d routeDeps) {
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")
	api.Get("/health", d.healthH.Health)

	protected := middleware.Protected(d.auth)
	optional := middleware.OptionalAuth(d.auth)
	vm := d.validate

	// Auth
	auth := api.Group("/auth")
	auth.Get("/google/login", d.authH.GoogleLogin)
	auth.Get("/google/callback", d.authH.GoogleCallback)
	auth.Post("/refresh", d.authH.RefreshToken)
	auth.Post("/logout", protected, d.authH.Logout)

	// Profile and tokens
	me := api.Group("/me", protected)
	me.Get("", d.profileH.GetMe)
	me.Get("/tokens", d.profileH.GetBalance)
	me.Post("/tokens/claim-daily", d.profileH.ClaimDaily)
	me.Post("/tokens/purchase", d.profileH.Purchase)
	me.Get("/results", vm.ValidatePagination(), d.profileH.ListMyResults)

	// Catalog is public; a token only adds unlock state.
	api.Get("/classes", d.catalogH.ListClasses)
	api.Get("/subjects", d.catalogH.ListSubjects)
	api.Get("/quizzes", optional, vm.ValidatePagination(), vm.ValidateCategory(), d.catalogH.ListQuizzes)
	api.Get("/quizzes/:id", optional, d.catalogH.GetQuiz)
	api.Post("/quizzes/:id/unlock", protected, d.catalogH.UnlockQuiz)
	api.Get("/exams", d.catalogH.ListExams)
	api.Get("/exams/:id", d.catalogH.GetExam)

	// Attempts
	api.Post("/attempts", protected, d.attemptH.CreateAttempt)
	attempts := api.Group("/attempts/:id", protected, vm.ValidateAttemptID())
	attempts.Get("", d.attemptH.GetAttempt)
	attempts.Delete("", d.attemptH.Abandon)
	attempts.Post("/start", d.attemptH.StartAttempt)
	attempts.Post("/answer", d.attemptH.Answer)
	attempts.Post("/select", d.attemptH.SelectQuestion)
	attempts.Post("/ad/dismiss", d.attemptH.DismissAd)
	attempts.Post("/resume", d.attemptH.Resume)

	// Results
	results := api.Group("/results", protected)
	results.Get("/:id", d.resultH.GetResult)
	results.Get("/:id/questions/:index/explanation", d.resultH.GetExplanation)

	// Content
	api.Get("/current-affairs", optional, vm.ValidatePagination(), vm.ValidateCategory(), d.contentH.ListCurrentAffairs)
	api.Get("/current-affairs/:id", optional, d.contentH.GetCurrentAffair)
	api.Post("/current-affairs/:id/unlock", protected, d.contentH.UnlockCurrentAffair)
	api.Get("/advertisements", vm.ValidatePlacement(), d.contentH.ListAdvertisements)

	// Battle (simulated)
	api.Post("/battle/rooms", protected, d.battleH.CreateRoom)
	rooms := api.Group("/battle/rooms/:code", protected, vm.ValidateRoomCode())
	rooms.Get("", d.battleH.GetRoom)
	rooms.Post("/join", d.battleH.JoinRoom)
	rooms.Post("/ready", d.battleH.SetReady)
	rooms.Post("/start", d.battleH.StartRoom)
	rooms.Post("/leave", d.battleH.LeaveRoom)
}
