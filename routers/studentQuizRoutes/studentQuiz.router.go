package studentQuizRoutes

import (
	studentQuizController "planpractice/controllers/studentquiz"
	"planpractice/middleware"
	studentQuizValidator "planpractice/validators/studentquiz"

	"github.com/gofiber/fiber/v2"
)

func SetupStudentQuizRoutes(app *fiber.App) {
	group := app.Group("/api/student/quiz", middleware.JWTMiddleware, middleware.RequireRoles("STUDENT", "ADMIN"))

	group.Post("/submit", studentQuizValidator.Submit(), studentQuizController.SubmitQuiz)
	group.Get("/result/:resultId", studentQuizController.GetResult)
	group.Get("/history", studentQuizController.GetHistory)
	group.Get("/:quizId/statistics", studentQuizController.GetStatistics)
}
