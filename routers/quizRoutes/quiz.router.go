package quizRoutes

import (
	quizController "planpractice/controllers/quiz"
	"planpractice/middleware"
	quizValidator "planpractice/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

func SetupQuizRoutes(app *fiber.App) {
	group := app.Group("/api/quizzes", middleware.JWTMiddleware, middleware.RequireRoles("TEACHER", "ADMIN"))

	group.Post("/", quizValidator.Create(), quizController.CreateQuiz)
	group.Get("/", quizController.GetMyQuizzes)
	group.Get("/:quizId", quizController.GetQuiz)
	group.Put("/:quizId", quizValidator.Update(), quizController.UpdateQuiz)
	group.Delete("/:quizId", quizController.DeleteQuiz)
}
