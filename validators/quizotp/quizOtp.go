package quizOtpValidator

import (
	"strings"

	"planpractice/middleware"

	"github.com/gofiber/fiber/v2"
)

// GenerateOTPRequest is the validated OTP generation payload
type GenerateOTPRequest struct {
	QuizID                uint `json:"quizId"`
	ExpiryMinutes         int  `json:"expiryMinutes"`
	MaxUsage              int  `json:"maxUsage"`
	AllowMultipleAttempts bool `json:"allowMultipleAttempts"`
}

// ValidateOTPRequest carries the code a student wants to redeem
type ValidateOTPRequest struct {
	OTPCode string `json:"otpCode"`
}

// ExtendOTPRequest pushes an OTP's expiry forward
type ExtendOTPRequest struct {
	AdditionalMinutes int `json:"additionalMinutes"`
}

// Generate validates OTP generation requests
func Generate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(GenerateOTPRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.QuizID == 0 {
			errors["quizId"] = "Quiz ID is required!"
		}
		if reqData.ExpiryMinutes <= 0 {
			errors["expiryMinutes"] = "Expiry minutes must be greater than 0!"
		}
		if reqData.MaxUsage < 0 {
			errors["maxUsage"] = "Max usage cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedGenerateOTP", reqData)
		return c.Next()
	}
}

// Validate validates OTP redemption requests
func Validate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ValidateOTPRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.OTPCode = strings.ToUpper(strings.TrimSpace(reqData.OTPCode))
		if reqData.OTPCode == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"otpCode": "OTP code is required!",
			})
		}

		c.Locals("validatedValidateOTP", reqData)
		return c.Next()
	}
}

// Extend validates expiry extension requests
func Extend() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ExtendOTPRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.AdditionalMinutes <= 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"additionalMinutes": "Additional minutes must be greater than 0!",
			})
		}

		c.Locals("validatedExtendOTP", reqData)
		return c.Next()
	}
}
