package lessonPlannerValidator

import (
	"encoding/json"
	"strings"

	"planpractice/middleware"

	"github.com/gofiber/fiber/v2"
)

// ActivityEntry is one step of the planned lesson sequence
type ActivityEntry struct {
	ActivityTemplateID   uint `json:"activityTemplateId"`
	InteractionPatternID uint `json:"interactionPatternId"`
	DurationMinutes      int  `json:"durationMinutes"`
}

// SaveLessonPlannerRequest is the validated planner payload (create and update)
type SaveLessonPlannerRequest struct {
	Title            string          `json:"title"`
	GradeLevelID     *uint           `json:"gradeLevelId"`
	ClassID          *uint           `json:"classId"`
	TeachingMethodID *uint           `json:"teachingMethodId"`
	Objectives       string          `json:"objectives"`
	Skills           string          `json:"skills"`
	Attitudes        string          `json:"attitudes"`
	Activities       []ActivityEntry `json:"activities"`
}

// ActivitiesJSON marshals the activity sequence for the JSON column
func (r *SaveLessonPlannerRequest) ActivitiesJSON() ([]byte, error) {
	if r.Activities == nil {
		return json.Marshal([]ActivityEntry{})
	}
	return json.Marshal(r.Activities)
}

// Save validates planner create/update requests
func Save() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SaveLessonPlannerRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		for _, a := range reqData.Activities {
			if a.DurationMinutes < 0 {
				errors["activities"] = "Activity durations cannot be negative!"
				break
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSavePlanner", reqData)
		return c.Next()
	}
}
