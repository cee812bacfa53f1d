package quizController

import (
	"log"

	"planpractice/database"
	"planpractice/middleware"
	"planpractice/models"
	quizValidator "planpractice/validators/quiz"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateQuiz handles POST /api/quizzes. The payload carries the whole
// question/answer graph; validation already guaranteed exactly one correct
// answer per question.
func CreateQuiz(c *fiber.Ctx) error {
	teacherID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCreateQuiz").(*quizValidator.CreateQuizRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if reqData.LessonPlannerID != nil {
		var planner models.LessonPlanner
		if err := db.Where("id = ? AND is_deleted = false", *reqData.LessonPlannerID).First(&planner).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson planner not found!", nil)
		}
		if planner.UserID != teacherID {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this lesson planner!", nil)
		}
	}

	quiz := models.Quiz{
		UserID:          teacherID,
		LessonPlannerID: reqData.LessonPlannerID,
		Title:           reqData.Title,
		Description:     reqData.Description,
	}
	for _, q := range reqData.Questions {
		question := models.Question{Content: q.Content}
		for _, a := range q.Answers {
			question.Answers = append(question.Answers, models.Answer{
				Content:   a.Content,
				IsCorrect: a.IsCorrect,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	if err := db.Create(&quiz).Error; err != nil {
		log.Printf("Error creating quiz: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created!", quiz)
}

// GetMyQuizzes handles GET /api/quizzes
func GetMyQuizzes(c *fiber.Ctx) error {
	teacherID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db

	var total int64
	db.Model(&models.Quiz{}).Where("user_id = ?", teacherID).Count(&total)

	var quizzes []models.Quiz
	if err := db.
		Where("user_id = ?", teacherID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&quizzes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched!", fiber.Map{
		"quizzes": quizzes,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetQuiz handles GET /api/quizzes/:quizId. The owning teacher sees the
// full graph including correct flags.
func GetQuiz(c *fiber.Ctx) error {
	teacherID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID, err := c.ParamsInt("quizId")
	if err != nil || quizID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz ID!", nil)
	}

	var quiz models.Quiz
	if err := database.Database.Db.
		Preload("Questions.Answers").
		Where("id = ?", quizID).
		First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}
	if quiz.UserID != teacherID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched!", quiz)
}

// UpdateQuiz handles PUT /api/quizzes/:quizId (metadata only)
func UpdateQuiz(c *fiber.Ctx) error {
	teacherID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID, err := c.ParamsInt("quizId")
	if err != nil || quizID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz ID!", nil)
	}

	reqData, ok := c.Locals("validatedUpdateQuiz").(*quizValidator.UpdateQuizRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var quiz models.Quiz
	if err := db.Where("id = ?", quizID).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}
	if quiz.UserID != teacherID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this quiz!", nil)
	}

	if err := db.Model(&quiz).Updates(map[string]interface{}{
		"title":       reqData.Title,
		"description": reqData.Description,
	}).Error; err != nil {
		log.Printf("Error updating quiz: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated!", quiz)
}

// DeleteQuiz handles DELETE /api/quizzes/:quizId. Deleting a quiz removes
// its questions, answers and OTPs; past results are kept.
func DeleteQuiz(c *fiber.Ctx) error {
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

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("question_id IN (?)", tx.Model(&models.Question{}).Select("id").Where("quiz_id = ?", quiz.ID)).
			Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("quiz_id = ?", quiz.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("quiz_id = ?", quiz.ID).Delete(&models.QuizOTP{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&quiz).Error
	})
	if err != nil {
		log.Printf("Error deleting quiz: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted!", nil)
}
