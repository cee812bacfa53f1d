package studentQuizValidator

import (
	"fmt"

	"planpractice/middleware"

	"github.com/gofiber/fiber/v2"
)

// SubmittedAnswer is one (question, answer) choice
type SubmittedAnswer struct {
	QuestionID uint `json:"questionId"`
	AnswerID   uint `json:"answerId"`
}

// SubmitQuizRequest is the validated quiz submission payload
type SubmitQuizRequest struct {
	QuizID  uint              `json:"quizId"`
	Answers []SubmittedAnswer `json:"answers"`
}

// Submit validates quiz submissions. An empty answers list is allowed:
// unanswered questions are graded as wrong, not rejected.
func Submit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubmitQuizRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.QuizID == 0 {
			errors["quizId"] = "Quiz ID is required!"
		}
		for i, a := range reqData.Answers {
			if a.QuestionID == 0 || a.AnswerID == 0 {
				errors[fmt.Sprintf("answers[%d]", i)] = "Question ID and answer ID are required!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSubmitQuiz", reqData)
		return c.Next()
	}
}
