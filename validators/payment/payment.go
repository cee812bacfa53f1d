package paymentValidator

import (
	"planpractice/middleware"
	"planpractice/models"

	"github.com/gofiber/fiber/v2"
)

// CreatePaymentRequest starts a coin package purchase
type CreatePaymentRequest struct {
	PackageID uint `json:"packageId"`
}

// UpdateStatusRequest carries a payment status notification
type UpdateStatusRequest struct {
	OrderCode       int64  `json:"orderCode"`
	Status          string `json:"status"`
	TransactionCode string `json:"transactionCode"`
	PaymentLinkID   string `json:"paymentLinkId"`
}

// Create validates payment creation requests
func Create() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreatePaymentRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.PackageID == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"packageId": "Package ID is required!",
			})
		}

		c.Locals("validatedCreatePayment", reqData)
		return c.Next()
	}
}

// UpdateStatus validates payment status updates
func UpdateStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateStatusRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.OrderCode == 0 {
			errors["orderCode"] = "Order code is required!"
		}
		switch models.PaymentStatus(reqData.Status) {
		case models.PaymentStatusPending, models.PaymentStatusPaid,
			models.PaymentStatusCancelled, models.PaymentStatusFailed:
		default:
			errors["status"] = "Status must be one of PENDING, PAID, CANCELLED, FAILED!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpdateStatus", reqData)
		return c.Next()
	}
}
