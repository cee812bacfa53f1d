// Package templateController provides one generic CRUD controller for all
// curriculum taxonomy entities. Every taxonomy shares the same shape and
// the same owner-scoping rules, so a single parameterized implementation
// replaces a per-entity controller.
package templateController

import (
	"log"

	"planpractice/database"
	"planpractice/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ownedEntity is implemented by *models.TemplateBase through embedding
type ownedEntity interface {
	SetOwner(id uint)
	Owner() uint
	Apply(name, description string)
}

// entityPtr ties the value type to its pointer so handlers can allocate T
// and still reach the TemplateBase methods
type entityPtr[T any] interface {
	*T
	ownedEntity
}

type templateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

var validate = validator.New()

func parseTemplateRequest(c *fiber.Ctx) (*templateRequest, map[string]string) {
	reqData := new(templateRequest)
	if err := c.BodyParser(reqData); err != nil {
		return nil, map[string]string{"body": "Invalid request body!"}
	}
	if err := validate.Struct(reqData); err != nil {
		errors := make(map[string]string)
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				errors[fe.Field()] = "Failed validation: " + fe.Tag()
			}
		} else {
			errors["body"] = "Validation failed!"
		}
		return nil, errors
	}
	return reqData, nil
}

// Create handles POST /
func Create[T any, PT entityPtr[T]](c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, errs := parseTemplateRequest(c)
	if errs != nil {
		return middleware.ValidationErrorResponse(c, errs)
	}

	var entity T
	pt := PT(&entity)
	pt.Apply(reqData.Name, reqData.Description)
	pt.SetOwner(userID)

	if err := database.Database.Db.Create(&entity).Error; err != nil {
		log.Printf("Error creating template entity: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Created!", entity)
}

// List handles GET /
func List[T any, PT entityPtr[T]](c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.Database.Db

	var total int64
	db.Model(new(T)).Where("user_id = ? AND is_deleted = false", userID).Count(&total)

	var items []T
	if err := db.
		Where("user_id = ? AND is_deleted = false", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Fetched!", fiber.Map{
		"items": items,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// Get handles GET /:id
func Get[T any, PT entityPtr[T]](c *fiber.Ctx) error {
	entity, errResp := ownedByCaller[T, PT](c)
	if entity == nil {
		return errResp
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Fetched!", entity)
}

// Update handles PUT /:id
func Update[T any, PT entityPtr[T]](c *fiber.Ctx) error {
	entity, errResp := ownedByCaller[T, PT](c)
	if entity == nil {
		return errResp
	}

	reqData, errs := parseTemplateRequest(c)
	if errs != nil {
		return middleware.ValidationErrorResponse(c, errs)
	}

	pt := PT(entity)
	pt.Apply(reqData.Name, reqData.Description)

	if err := database.Database.Db.Save(entity).Error; err != nil {
		log.Printf("Error updating template entity: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Updated!", entity)
}

// Delete handles DELETE /:id (soft delete)
func Delete[T any, PT entityPtr[T]](c *fiber.Ctx) error {
	entity, errResp := ownedByCaller[T, PT](c)
	if entity == nil {
		return errResp
	}

	if err := database.Database.Db.Model(entity).Update("is_deleted", true).Error; err != nil {
		log.Printf("Error deleting template entity: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Deleted!", nil)
}

// ownedByCaller loads :id and enforces the ownership check. On failure the
// second return value is the already-written error response.
func ownedByCaller[T any, PT entityPtr[T]](c *fiber.Ctx) (*T, error) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid ID!", nil)
	}

	var entity T
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = false", id).
		First(&entity).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Not found!", nil)
	}

	if PT(&entity).Owner() != userID {
		return nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this resource!", nil)
	}

	return &entity, nil
}

// RegisterCRUD mounts the five CRUD routes for one taxonomy entity
func RegisterCRUD[T any, PT entityPtr[T]](group fiber.Router) {
	group.Post("/", Create[T, PT])
	group.Get("/", List[T, PT])
	group.Get("/:id", Get[T, PT])
	group.Put("/:id", Update[T, PT])
	group.Delete("/:id", Delete[T, PT])
}
