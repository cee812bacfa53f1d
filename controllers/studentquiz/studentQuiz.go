package studentQuizController

import (
	"errors"
	"log"
	"time"

	"planpractice/apperrors"
	"planpractice/database"
	"planpractice/middleware"
	"planpractice/models"
	"planpractice/utils"
	studentQuizValidator "planpractice/validators/studentquiz"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// NotAnswered is recorded for questions the student skipped
const NotAnswered = "not answer"

type QuestionDetail struct {
	QuestionID           uint   `json:"questionId"`
	QuestionContent      string `json:"questionContent"`
	UserAnswerContent    string `json:"userAnswerContent"`
	CorrectAnswerContent string `json:"correctAnswerContent"`
	IsCorrect            bool   `json:"isCorrect"`
}

type SubmissionResult struct {
	ResultID       uint             `json:"resultId"`
	QuizID         uint             `json:"quizId"`
	TotalQuestions int              `json:"totalQuestions"`
	CorrectCount   int              `json:"correctCount"`
	Percentage     float64          `json:"percentage"`
	CompletedAt    time.Time        `json:"completedAt"`
	Details        []QuestionDetail `json:"details"`
}

type QuizStatistics struct {
	QuizID            uint       `json:"quizId"`
	Attempts          int64      `json:"attempts"`
	BestScore         int        `json:"bestScore"`
	BestPercentage    float64    `json:"bestPercentage"`
	AveragePercentage float64    `json:"averagePercentage"`
	LastAttempt       *time.Time `json:"lastAttempt"`
}

// GradeSubmission grades every question of the quiz against the submitted
// answers and persists the result and the chosen answers in one transaction.
// Duplicate entries for the same question keep the first; answers that do
// not belong to their question are treated as not answered.
func GradeSubmission(db *gorm.DB, studentID uint, req *studentQuizValidator.SubmitQuizRequest) (*SubmissionResult, error) {
	var quiz models.Quiz
	if err := db.Preload("Questions.Answers").Where("id = ?", req.QuizID).First(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	chosen := make(map[uint]uint, len(req.Answers))
	for _, a := range req.Answers {
		if _, ok := chosen[a.QuestionID]; !ok {
			chosen[a.QuestionID] = a.AnswerID
		}
	}

	correctCount := 0
	details := make([]QuestionDetail, 0, len(quiz.Questions))
	userAnswers := make([]models.UserAnswer, 0, len(req.Answers))

	for _, q := range quiz.Questions {
		detail := QuestionDetail{
			QuestionID:        q.ID,
			QuestionContent:   q.Content,
			UserAnswerContent: NotAnswered,
		}
		for _, a := range q.Answers {
			if a.IsCorrect {
				detail.CorrectAnswerContent = a.Content
				break
			}
		}

		if answerID, ok := chosen[q.ID]; ok {
			for _, a := range q.Answers {
				if a.ID == answerID {
					detail.UserAnswerContent = a.Content
					detail.IsCorrect = a.IsCorrect
					userAnswers = append(userAnswers, models.UserAnswer{
						QuestionID: q.ID,
						AnswerID:   a.ID,
					})
					break
				}
			}
		}

		if detail.IsCorrect {
			correctCount++
		}
		details = append(details, detail)
	}

	total := len(quiz.Questions)
	percentage := 0.0
	if total > 0 {
		percentage = utils.Round2(float64(correctCount) / float64(total) * 100)
	}

	result := models.QuizResult{
		UserID:         studentID,
		QuizID:         quiz.ID,
		Score:          correctCount,
		TotalQuestions: total,
		Percentage:     percentage,
		CompletedAt:    time.Now(),
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	if err := tx.Create(&result).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if len(userAnswers) > 0 {
		for i := range userAnswers {
			userAnswers[i].QuizResultID = result.ID
		}
		if err := tx.Create(&userAnswers).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &SubmissionResult{
		ResultID:       result.ID,
		QuizID:         quiz.ID,
		TotalQuestions: total,
		CorrectCount:   correctCount,
		Percentage:     percentage,
		CompletedAt:    result.CompletedAt,
		Details:        details,
	}, nil
}

// LoadResult rebuilds the per-question breakdown for a stored result
func LoadResult(db *gorm.DB, studentID, resultID uint) (*SubmissionResult, error) {
	var result models.QuizResult
	if err := db.Preload("UserAnswers").Where("id = ?", resultID).First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if result.UserID != studentID {
		return nil, apperrors.ErrForbidden
	}

	var quiz models.Quiz
	if err := db.Preload("Questions.Answers").Where("id = ?", result.QuizID).First(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	chosen := make(map[uint]uint, len(result.UserAnswers))
	for _, ua := range result.UserAnswers {
		chosen[ua.QuestionID] = ua.AnswerID
	}

	details := make([]QuestionDetail, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		detail := QuestionDetail{
			QuestionID:        q.ID,
			QuestionContent:   q.Content,
			UserAnswerContent: NotAnswered,
		}
		for _, a := range q.Answers {
			if a.IsCorrect {
				detail.CorrectAnswerContent = a.Content
			}
			if answerID, ok := chosen[q.ID]; ok && a.ID == answerID {
				detail.UserAnswerContent = a.Content
				detail.IsCorrect = a.IsCorrect
			}
		}
		details = append(details, detail)
	}

	return &SubmissionResult{
		ResultID:       result.ID,
		QuizID:         result.QuizID,
		TotalQuestions: result.TotalQuestions,
		CorrectCount:   result.Score,
		Percentage:     result.Percentage,
		CompletedAt:    result.CompletedAt,
		Details:        details,
	}, nil
}

// LoadStatistics aggregates a student's attempts at one quiz
func LoadStatistics(db *gorm.DB, studentID, quizID uint) (*QuizStatistics, error) {
	stats := &QuizStatistics{QuizID: quizID}

	var results []models.QuizResult
	if err := db.
		Where("user_id = ? AND quiz_id = ?", studentID, quizID).
		Order("completed_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	stats.Attempts = int64(len(results))
	if stats.Attempts == 0 {
		return stats, nil
	}

	sum := 0.0
	for _, r := range results {
		if r.Score > stats.BestScore {
			stats.BestScore = r.Score
		}
		if r.Percentage > stats.BestPercentage {
			stats.BestPercentage = r.Percentage
		}
		sum += r.Percentage
	}
	stats.AveragePercentage = utils.Round2(sum / float64(len(results)))

	last := results[len(results)-1].CompletedAt
	stats.LastAttempt = &last

	return stats, nil
}

// SubmitQuiz handles POST /api/student/quiz/submit
func SubmitQuiz(c *fiber.Ctx) error {
	studentID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedSubmitQuiz").(*studentQuizValidator.SubmitQuizRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := GradeSubmission(database.Database.Db, studentID, reqData)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
		}
		log.Printf("Error grading submission: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted!", result)
}

// GetResult handles GET /api/student/quiz/result/:resultId
func GetResult(c *fiber.Ctx) error {
	studentID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	resultID, err := c.ParamsInt("resultId")
	if err != nil || resultID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid result ID!", nil)
	}

	result, err := LoadResult(database.Database.Db, studentID, uint(resultID))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Result not found!", nil)
		case errors.Is(err, apperrors.ErrForbidden):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This result belongs to another student!", nil)
		default:
			log.Printf("Error loading result: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch result!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Result fetched!", result)
}

// GetHistory handles GET /api/student/quiz/history
func GetHistory(c *fiber.Ctx) error {
	studentID, ok := c.Locals("userId").(uint)
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
	db.Model(&models.QuizResult{}).Where("user_id = ?", studentID).Count(&total)

	var results []models.QuizResult
	if err := db.
		Where("user_id = ?", studentID).
		Order("completed_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&results).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch history!", nil)
	}

	// attach quiz titles without N queries
	quizIDs := make([]uint, 0, len(results))
	for _, r := range results {
		quizIDs = append(quizIDs, r.QuizID)
	}
	titles := make(map[uint]string, len(quizIDs))
	if len(quizIDs) > 0 {
		var quizzes []models.Quiz
		db.Where("id IN ?", quizIDs).Find(&quizzes)
		for _, q := range quizzes {
			titles[q.ID] = q.Title
		}
	}

	type historyEntry struct {
		models.QuizResult
		QuizTitle string `json:"quizTitle"`
	}
	entries := make([]historyEntry, 0, len(results))
	for _, r := range results {
		entries = append(entries, historyEntry{QuizResult: r, QuizTitle: titles[r.QuizID]})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "History fetched!", fiber.Map{
		"results": entries,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetStatistics handles GET /api/student/quiz/:quizId/statistics
func GetStatistics(c *fiber.Ctx) error {
	studentID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID, err := c.ParamsInt("quizId")
	if err != nil || quizID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz ID!", nil)
	}

	stats, err := LoadStatistics(database.Database.Db, studentID, uint(quizID))
	if err != nil {
		log.Printf("Error loading statistics: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch statistics!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Statistics fetched!", stats)
}
