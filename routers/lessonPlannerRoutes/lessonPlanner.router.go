package lessonPlannerRoutes

import (
	lessonPlannerController "planpractice/controllers/lessonplanner"
	"planpractice/middleware"
	lessonPlannerValidator "planpractice/validators/lessonplanner"

	"github.com/gofiber/fiber/v2"
)

func SetupLessonPlannerRoutes(app *fiber.App) {
	group := app.Group("/api/lesson-planners", middleware.JWTMiddleware, middleware.RequireRoles("TEACHER", "ADMIN"))

	group.Post("/", lessonPlannerValidator.Save(), lessonPlannerController.CreateLessonPlanner)
	group.Get("/", lessonPlannerController.GetMyLessonPlanners)
	group.Get("/:id", lessonPlannerController.GetLessonPlanner)
	group.Put("/:id", lessonPlannerValidator.Save(), lessonPlannerController.UpdateLessonPlanner)
	group.Delete("/:id", lessonPlannerController.DeleteLessonPlanner)
}
