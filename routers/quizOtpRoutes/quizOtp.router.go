package quizOtpRoutes

import (
	quizOtpController "planpractice/controllers/quizotp"
	"planpractice/middleware"
	quizOtpValidator "planpractice/validators/quizotp"

	"github.com/gofiber/fiber/v2"
)

func SetupQuizOTPRoutes(app *fiber.App) {
	group := app.Group("/api/QuizOTP")

	teacherOnly := middleware.RequireRoles("TEACHER", "ADMIN")
	adminOnly := middleware.RequireRoles("ADMIN")

	// Students redeem and fetch without an account
	group.Post("/validate", quizOtpValidator.Validate(), quizOtpController.ValidateOTP)
	group.Get("/take/:otpCode", quizOtpController.TakeQuiz)

	// Teacher lifecycle
	group.Post("/generate", middleware.JWTMiddleware, teacherOnly, quizOtpValidator.Generate(), quizOtpController.GenerateOTP)
	group.Get("/my-otps", middleware.JWTMiddleware, teacherOnly, quizOtpController.GetMyOTPs)
	group.Get("/quiz/:quizId", middleware.JWTMiddleware, teacherOnly, quizOtpController.GetOTPsByQuiz)
	group.Delete("/:otpId", middleware.JWTMiddleware, teacherOnly, quizOtpController.RevokeOTP)
	group.Patch("/:otpId/extend", middleware.JWTMiddleware, teacherOnly, quizOtpValidator.Extend(), quizOtpController.ExtendOTP)
	group.Post("/:otpId/regenerate", middleware.JWTMiddleware, teacherOnly, quizOtpController.RegenerateOTP)

	// Manual sweep trigger
	group.Post("/cleanup", middleware.JWTMiddleware, adminOnly, quizOtpController.CleanupOTPs)
}
