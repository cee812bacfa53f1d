package templateRoutes

import (
	templateController "planpractice/controllers/template"
	"planpractice/middleware"
	"planpractice/models"

	"github.com/gofiber/fiber/v2"
)

// SetupTemplateRoutes mounts the generic CRUD controller once per
// curriculum taxonomy
func SetupTemplateRoutes(app *fiber.App) {
	mount := func(path string, register func(fiber.Router)) {
		group := app.Group(path, middleware.JWTMiddleware, middleware.RequireRoles("TEACHER", "ADMIN"))
		register(group)
	}

	mount("/api/grade-levels", templateController.RegisterCRUD[models.GradeLevel, *models.GradeLevel])
	mount("/api/classes", templateController.RegisterCRUD[models.Class, *models.Class])
	mount("/api/objectives", templateController.RegisterCRUD[models.Objective, *models.Objective])
	mount("/api/skills", templateController.RegisterCRUD[models.Skill, *models.Skill])
	mount("/api/attitudes", templateController.RegisterCRUD[models.Attitude, *models.Attitude])
	mount("/api/preparation-types", templateController.RegisterCRUD[models.PreparationType, *models.PreparationType])
	mount("/api/language-focus-types", templateController.RegisterCRUD[models.LanguageFocusType, *models.LanguageFocusType])
	mount("/api/teaching-methods", templateController.RegisterCRUD[models.TeachingMethod, *models.TeachingMethod])
	mount("/api/activity-templates", templateController.RegisterCRUD[models.ActivityTemplate, *models.ActivityTemplate])
	mount("/api/interaction-patterns", templateController.RegisterCRUD[models.InteractionPattern, *models.InteractionPattern])
}
