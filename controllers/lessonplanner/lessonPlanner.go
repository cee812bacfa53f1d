package lessonPlannerController

import (
	"log"

	"planpractice/database"
	"planpractice/middleware"
	"planpractice/models"
	lessonPlannerValidator "planpractice/validators/lessonplanner"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// checkReferences verifies that every taxonomy reference in the payload
// belongs to the calling teacher. Returns a field->message map.
func checkReferences(db *gorm.DB, teacherID uint, req *lessonPlannerValidator.SaveLessonPlannerRequest) map[string]string {
	errors := make(map[string]string)

	if req.GradeLevelID != nil {
		var gl models.GradeLevel
		if err := db.Where("id = ? AND user_id = ? AND is_deleted = false", *req.GradeLevelID, teacherID).First(&gl).Error; err != nil {
			errors["gradeLevelId"] = "Grade level not found!"
		}
	}
	if req.ClassID != nil {
		var cl models.Class
		if err := db.Where("id = ? AND user_id = ? AND is_deleted = false", *req.ClassID, teacherID).First(&cl).Error; err != nil {
			errors["classId"] = "Class not found!"
		}
	}
	if req.TeachingMethodID != nil {
		var tm models.TeachingMethod
		if err := db.Where("id = ? AND user_id = ? AND is_deleted = false", *req.TeachingMethodID, teacherID).First(&tm).Error; err != nil {
			errors["teachingMethodId"] = "Teaching method not found!"
		}
	}

	if len(errors) == 0 {
		return nil
	}
	return errors
}

// CreateLessonPlanner handles POST /api/lesson-planners
func CreateLessonPlanner(c *fiber.Ctx) error {
	teacherID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedSavePlanner").(*lessonPlannerValidator.SaveLessonPlannerRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if errs := checkReferences(db, teacherID, reqData); errs != nil {
		return middleware.ValidationErrorResponse(c, errs)
	}

	activities, err := reqData.ActivitiesJSON()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid activity sequence!", nil)
	}

	planner := models.LessonPlanner{
		UserID:           teacherID,
		Title:            reqData.Title,
		GradeLevelID:     reqData.GradeLevelID,
		ClassID:          reqData.ClassID,
		TeachingMethodID: reqData.TeachingMethodID,
		Objectives:       reqData.Objectives,
		Skills:           reqData.Skills,
		Attitudes:        reqData.Attitudes,
		Activities:       activities,
	}

	if err := db.Create(&planner).Error; err != nil {
		log.Printf("Error creating lesson planner: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson planner!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson planner created!", planner)
}

// GetMyLessonPlanners handles GET /api/lesson-planners
func GetMyLessonPlanners(c *fiber.Ctx) error {
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
	db.Model(&models.LessonPlanner{}).Where("user_id = ? AND is_deleted = false", teacherID).Count(&total)

	var planners []models.LessonPlanner
	if err := db.
		Where("user_id = ? AND is_deleted = false", teacherID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&planners).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lesson planners!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson planners fetched!", fiber.Map{
		"planners": planners,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetLessonPlanner handles GET /api/lesson-planners/:id
func GetLessonPlanner(c *fiber.Ctx) error {
	planner, errResp := ownedPlanner(c)
	if planner == nil {
		return errResp
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson planner fetched!", planner)
}

// UpdateLessonPlanner handles PUT /api/lesson-planners/:id
func UpdateLessonPlanner(c *fiber.Ctx) error {
	planner, errResp := ownedPlanner(c)
	if planner == nil {
		return errResp
	}

	teacherID := c.Locals("userId").(uint)
	reqData, ok := c.Locals("validatedSavePlanner").(*lessonPlannerValidator.SaveLessonPlannerRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if errs := checkReferences(db, teacherID, reqData); errs != nil {
		return middleware.ValidationErrorResponse(c, errs)
	}

	activities, err := reqData.ActivitiesJSON()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid activity sequence!", nil)
	}

	planner.Title = reqData.Title
	planner.GradeLevelID = reqData.GradeLevelID
	planner.ClassID = reqData.ClassID
	planner.TeachingMethodID = reqData.TeachingMethodID
	planner.Objectives = reqData.Objectives
	planner.Skills = reqData.Skills
	planner.Attitudes = reqData.Attitudes
	planner.Activities = activities

	if err := db.Save(planner).Error; err != nil {
		log.Printf("Error updating lesson planner: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson planner!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson planner updated!", planner)
}

// DeleteLessonPlanner handles DELETE /api/lesson-planners/:id. Soft
// delete; quizzes and their results stay untouched.
func DeleteLessonPlanner(c *fiber.Ctx) error {
	planner, errResp := ownedPlanner(c)
	if planner == nil {
		return errResp
	}

	if err := database.Database.Db.Model(planner).Update("is_deleted", true).Error; err != nil {
		log.Printf("Error deleting lesson planner: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lesson planner!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson planner deleted!", nil)
}

func ownedPlanner(c *fiber.Ctx) (*models.LessonPlanner, error) {
	teacherID, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid ID!", nil)
	}

	var planner models.LessonPlanner
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = false", id).
		First(&planner).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson planner not found!", nil)
	}
	if planner.UserID != teacherID {
		return nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this lesson planner!", nil)
	}

	return &planner, nil
}
