package paymentRoutes

import (
	paymentController "planpractice/controllers/payment"
	"planpractice/middleware"
	paymentValidator "planpractice/validators/payment"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(app *fiber.App) {
	group := app.Group("/api/payments", middleware.JWTMiddleware)

	group.Get("/packages", paymentController.GetCoinPackages)
	group.Post("/", paymentValidator.Create(), paymentController.CreatePayment)
	group.Post("/status", paymentValidator.UpdateStatus(), paymentController.UpdatePaymentStatus)
	group.Get("/balance", paymentController.GetMyBalance)
	group.Get("/my", paymentController.GetMyPayments)
	group.Get("/:orderCode/check", paymentController.CheckPaymentStatus)
}
