package quizOtpController

import (
	"errors"
	"log"
	"time"

	"planpractice/apperrors"
	"planpractice/database"
	"planpractice/middleware"
	"planpractice/models"
	"planpractice/utils"
	quizOtpValidator "planpractice/validators/quizotp"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const otpCodeLength = 8

// AnswerPayload is an answer as exposed to students: no correctness flag
type AnswerPayload struct {
	AnswerID uint   `json:"answerId"`
	Content  string `json:"content"`
}

type QuestionPayload struct {
	QuestionID uint            `json:"questionId"`
	Content    string          `json:"content"`
	Answers    []AnswerPayload `json:"answers"`
}

type QuizPayload struct {
	QuizID      uint              `json:"quizId"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Questions   []QuestionPayload `json:"questions"`
}

// ValidationResult is the outcome of redeeming a code
type ValidationResult struct {
	IsValid bool         `json:"isValid"`
	Message string       `json:"message"`
	QuizID  uint         `json:"quizId,omitempty"`
	Quiz    *QuizPayload `json:"quiz,omitempty"`
}

// GenerateCode creates a new OTP for a quiz owned by teacherID.
// Retries code generation when the unique index rejects a collision.
func GenerateCode(db *gorm.DB, teacherID uint, req *quizOtpValidator.GenerateOTPRequest) (*models.QuizOTP, error) {
	var quiz models.Quiz
	if err := db.Where("id = ?", req.QuizID).First(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if quiz.UserID != teacherID {
		return nil, apperrors.ErrForbidden
	}

	var lastErr error
	for attempt := 0; attempt < 5; attempt++ {
		code, err := utils.GenerateOTPCode(otpCodeLength)
		if err != nil {
			return nil, err
		}
		otp := models.QuizOTP{
			Code:                  code,
			QuizID:                quiz.ID,
			TeacherID:             teacherID,
			ExpiresAt:             time.Now().Add(time.Duration(req.ExpiryMinutes) * time.Minute),
			ExpiryMinutes:         req.ExpiryMinutes,
			IsActive:              true,
			UsageCount:            0,
			MaxUsage:              req.MaxUsage,
			AllowMultipleAttempts: req.AllowMultipleAttempts,
		}
		if err := db.Create(&otp).Error; err != nil {
			lastErr = err
			continue
		}
		return &otp, nil
	}
	return nil, lastErr
}

// ValidateCode runs the ordered OTP checks and, when everything passes,
// increments the usage counter with a single conditional update so the
// cap holds under concurrent redemptions.
func ValidateCode(db *gorm.DB, code string) (*ValidationResult, error) {
	now := time.Now()

	var otp models.QuizOTP
	if err := db.Where("code = ?", code).First(&otp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ValidationResult{IsValid: false, Message: "Invalid OTP code!"}, nil
		}
		return nil, err
	}

	if !otp.IsActive {
		return &ValidationResult{IsValid: false, Message: "This OTP code has been revoked!"}, nil
	}

	if !now.Before(otp.ExpiresAt) {
		// mirror the periodic sweep: an expired row found here is removed
		if err := db.Unscoped().Delete(&otp).Error; err != nil {
			log.Printf("Error deleting expired OTP %d: %v", otp.ID, err)
		}
		return &ValidationResult{IsValid: false, Message: "This OTP code has expired!"}, nil
	}

	if otp.MaxUsage > 0 && otp.UsageCount >= otp.MaxUsage {
		return &ValidationResult{IsValid: false, Message: "OTP usage limit reached!"}, nil
	}

	// The WHERE clause re-tests every condition, so two racing requests
	// cannot both take the last slot.
	res := db.Model(&models.QuizOTP{}).
		Where("id = ? AND is_active = ? AND expires_at > ? AND (max_usage = 0 OR usage_count < max_usage)",
			otp.ID, true, now).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// lost the race; re-read to report what actually happened
		var current models.QuizOTP
		if err := db.Where("id = ?", otp.ID).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ValidationResult{IsValid: false, Message: "This OTP code has expired!"}, nil
			}
			return nil, err
		}
		switch {
		case !current.IsActive:
			return &ValidationResult{IsValid: false, Message: "This OTP code has been revoked!"}, nil
		case !time.Now().Before(current.ExpiresAt):
			return &ValidationResult{IsValid: false, Message: "This OTP code has expired!"}, nil
		default:
			return &ValidationResult{IsValid: false, Message: "OTP usage limit reached!"}, nil
		}
	}

	quiz, err := loadQuizPayload(db, otp.QuizID)
	if err != nil {
		return nil, err
	}

	return &ValidationResult{
		IsValid: true,
		Message: "OTP validated successfully.",
		QuizID:  otp.QuizID,
		Quiz:    quiz,
	}, nil
}

// FetchQuizForCode returns the quiz content for an already-validated code.
// Active and expiry are re-checked; the usage counter is not touched.
func FetchQuizForCode(db *gorm.DB, code string) (*QuizPayload, error) {
	var otp models.QuizOTP
	if err := db.Where("code = ?", code).First(&otp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if !otp.IsActive || !time.Now().Before(otp.ExpiresAt) {
		return nil, apperrors.ErrInvalid
	}
	return loadQuizPayload(db, otp.QuizID)
}

// RevokeCode deactivates an OTP. Idempotent.
func RevokeCode(db *gorm.DB, teacherID, otpID uint) error {
	otp, err := ownedOTP(db, teacherID, otpID)
	if err != nil {
		return err
	}
	return db.Model(otp).Update("is_active", false).Error
}

// ExtendCode pushes the expiry forward by the given minutes
func ExtendCode(db *gorm.DB, teacherID, otpID uint, minutes int) (*models.QuizOTP, error) {
	otp, err := ownedOTP(db, teacherID, otpID)
	if err != nil {
		return nil, err
	}
	otp.ExpiresAt = otp.ExpiresAt.Add(time.Duration(minutes) * time.Minute)
	if err := db.Model(otp).Update("expires_at", otp.ExpiresAt).Error; err != nil {
		return nil, err
	}
	return otp, nil
}

// RegenerateCode replaces the code on the same row. The previous code
// becomes invalid immediately; the usage counter restarts and the expiry
// window is recomputed from the original ExpiryMinutes.
func RegenerateCode(db *gorm.DB, teacherID, otpID uint) (*models.QuizOTP, error) {
	otp, err := ownedOTP(db, teacherID, otpID)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < 5; attempt++ {
		code, err := utils.GenerateOTPCode(otpCodeLength)
		if err != nil {
			return nil, err
		}
		updates := map[string]interface{}{
			"code":        code,
			"usage_count": 0,
			"is_active":   true,
			"expires_at":  time.Now().Add(time.Duration(otp.ExpiryMinutes) * time.Minute),
		}
		if err := db.Model(otp).Updates(updates).Error; err != nil {
			lastErr = err
			continue
		}
		return otp, nil
	}
	return nil, lastErr
}

func ownedOTP(db *gorm.DB, teacherID, otpID uint) (*models.QuizOTP, error) {
	var otp models.QuizOTP
	if err := db.Where("id = ?", otpID).First(&otp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if otp.TeacherID != teacherID {
		return nil, apperrors.ErrForbidden
	}
	return &otp, nil
}

func loadQuizPayload(db *gorm.DB, quizID uint) (*QuizPayload, error) {
	var quiz models.Quiz
	if err := db.Preload("Questions.Answers").Where("id = ?", quizID).First(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	payload := &QuizPayload{
		QuizID:      quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		Questions:   make([]QuestionPayload, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		qp := QuestionPayload{
			QuestionID: q.ID,
			Content:    q.Content,
			Answers:    make([]AnswerPayload, 0, len(q.Answers)),
		}
		for _, a := range q.Answers {
			qp.Answers = append(qp.Answers, AnswerPayload{AnswerID: a.ID, Content: a.Content})
		}
		payload.Questions = append(payload.Questions, qp)
	}
	return payload, nil
}

// GenerateOTP handles POST /api/QuizOTP/generate
func GenerateOTP(c *fiber.Ctx) error {
	teacherID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedGenerateOTP").(*quizOtpValidator.GenerateOTPRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	otp, err := GenerateCode(db, teacherID, reqData)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
		case errors.Is(err, apperrors.ErrForbidden):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this quiz!", nil)
		default:
			log.Printf("Error generating OTP: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate OTP!", nil)
		}
	}

	var teacher models.User
	if err := db.Where("id = ?", teacherID).First(&teacher).Error; err == nil {
		var quiz models.Quiz
		db.Where("id = ?", otp.QuizID).First(&quiz)
		utils.SendOTPIssuedEmail(teacher.Name, teacher.Email, quiz.Title, otp.Code, otp.ExpiryMinutes)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "OTP generated!", otp)
}

// ValidateOTP handles POST /api/QuizOTP/validate
func ValidateOTP(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedValidateOTP").(*quizOtpValidator.ValidateOTPRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := ValidateCode(database.Database.Db, reqData.OTPCode)
	if err != nil {
		log.Printf("Error validating OTP: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to validate OTP!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, result.Message, result)
}

// TakeQuiz handles GET /api/QuizOTP/take/:otpCode
func TakeQuiz(c *fiber.Ctx) error {
	code := c.Params("otpCode")

	quiz, err := FetchQuizForCode(database.Database.Db, code)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Invalid OTP code!", nil)
		case errors.Is(err, apperrors.ErrInvalid):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This OTP code is no longer valid!", nil)
		default:
			log.Printf("Error fetching quiz for code: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched!", quiz)
}

// GetMyOTPs handles GET /api/QuizOTP/my-otps
func GetMyOTPs(c *fiber.Ctx) error {
	teacherID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var otps []models.QuizOTP
	if err := database.Database.Db.
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&otps).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch OTPs!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTPs fetched!", otps)
}

// GetOTPsByQuiz handles GET /api/QuizOTP/quiz/:quizId
func GetOTPsByQuiz(c *fiber.Ctx) error {
	teacherID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID, err := c.ParamsInt("quizId")
	if err != nil || quizID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz ID!", nil)
	}

	db := database.Database.Db

	var quiz models.Quiz
	if err := db.Where("id = ?", quizID).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}
	if quiz.UserID != teacherID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this quiz!", nil)
	}

	var otps []models.QuizOTP
	if err := db.
		Where("quiz_id = ?", quizID).
		Order("created_at DESC").
		Find(&otps).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch OTPs!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTPs fetched!", otps)
}

// RevokeOTP handles DELETE /api/QuizOTP/:otpId
func RevokeOTP(c *fiber.Ctx) error {
	teacherID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	otpID, err := c.ParamsInt("otpId")
	if err != nil || otpID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid OTP ID!", nil)
	}

	if err := RevokeCode(database.Database.Db, teacherID, uint(otpID)); err != nil {
		return otpErrorResponse(c, err, "Failed to revoke OTP!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP revoked!", nil)
}

// ExtendOTP handles PATCH /api/QuizOTP/:otpId/extend
func ExtendOTP(c *fiber.Ctx) error {
	teacherID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	otpID, err := c.ParamsInt("otpId")
	if err != nil || otpID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid OTP ID!", nil)
	}

	reqData, ok := c.Locals("validatedExtendOTP").(*quizOtpValidator.ExtendOTPRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	otp, err := ExtendCode(database.Database.Db, teacherID, uint(otpID), reqData.AdditionalMinutes)
	if err != nil {
		return otpErrorResponse(c, err, "Failed to extend OTP!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP extended!", otp)
}

// RegenerateOTP handles POST /api/QuizOTP/:otpId/regenerate
func RegenerateOTP(c *fiber.Ctx) error {
	teacherID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	otpID, err := c.ParamsInt("otpId")
	if err != nil || otpID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid OTP ID!", nil)
	}

	otp, err := RegenerateCode(database.Database.Db, teacherID, uint(otpID))
	if err != nil {
		return otpErrorResponse(c, err, "Failed to regenerate OTP!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP regenerated!", otp)
}

// CleanupOTPs handles POST /api/QuizOTP/cleanup (admin manual trigger)
func CleanupOTPs(c *fiber.Ctx) error {
	deleted, err := utils.CleanupExpiredOTPs(database.Database.Db)
	if err != nil {
		log.Printf("Error during manual OTP cleanup: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to clean up OTPs!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Expired OTPs cleaned up!", fiber.Map{
		"deleted": deleted,
	})
}

func otpErrorResponse(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "OTP not found!", nil)
	case errors.Is(err, apperrors.ErrForbidden):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this OTP!", nil)
	default:
		log.Printf("%s %v", fallback, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, fallback, nil)
	}
}
