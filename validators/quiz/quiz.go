package quizValidator

import (
	"fmt"
	"strings"

	"planpractice/middleware"

	"github.com/gofiber/fiber/v2"
)

// AnswerInput is one answer option inside a question
type AnswerInput struct {
	Content   string `json:"content"`
	IsCorrect bool   `json:"isCorrect"`
}

// QuestionInput is one question with its answer options
type QuestionInput struct {
	Content string        `json:"content"`
	Answers []AnswerInput `json:"answers"`
}

// CreateQuizRequest is the validated nested quiz payload
type CreateQuizRequest struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	LessonPlannerID *uint           `json:"lessonPlannerId"`
	Questions       []QuestionInput `json:"questions"`
}

// UpdateQuizRequest updates quiz metadata only
type UpdateQuizRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Create validates quiz creation. Every question must have at least two
// answers with exactly one marked correct.
func Create() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateQuizRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}

		for i, q := range reqData.Questions {
			key := fmt.Sprintf("questions[%d]", i)
			if strings.TrimSpace(q.Content) == "" {
				errors[key] = "Question content is required!"
				continue
			}
			if len(q.Answers) < 2 {
				errors[key] = "Each question needs at least two answers!"
				continue
			}
			correct := 0
			for _, a := range q.Answers {
				if strings.TrimSpace(a.Content) == "" {
					errors[key] = "Answer content is required!"
				}
				if a.IsCorrect {
					correct++
				}
			}
			if correct != 1 {
				errors[key] = "Each question must have exactly one correct answer!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCreateQuiz", reqData)
		return c.Next()
	}
}

// Update validates quiz metadata updates
func Update() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateQuizRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if strings.TrimSpace(reqData.Title) == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"title": "Title is required!",
			})
		}

		c.Locals("validatedUpdateQuiz", reqData)
		return c.Next()
	}
}
