package templateController

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"planpractice/database"
	"planpractice/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// setupApp wires the generic CRUD routes for one taxonomy behind a stub
// auth middleware that trusts the X-User-Id header.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	group := app.Group("/api/grade-levels", func(c *fiber.Ctx) error {
		if id, err := strconv.Atoi(c.Get("X-User-Id")); err == nil {
			c.Locals("userId", uint(id))
		}
		return c.Next()
	})
	RegisterCRUD[models.GradeLevel, *models.GradeLevel](group)

	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path string, userID uint, body interface{}) (*http.Response, *envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		req.Header.Set("X-User-Id", strconv.Itoa(int(userID)))
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	env := new(envelope)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(env))
	return resp, env
}

func createGradeLevel(t *testing.T, app *fiber.App, userID uint, name string) models.GradeLevel {
	t.Helper()

	resp, env := doRequest(t, app, fiber.MethodPost, "/api/grade-levels/", userID, fiber.Map{
		"name":        name,
		"description": "for " + name,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created models.GradeLevel
	require.NoError(t, json.Unmarshal(env.Data, &created))
	return created
}

func TestCreateAndGet(t *testing.T) {
	app := setupApp(t)

	created := createGradeLevel(t, app, 1, "Grade 6")
	assert.Equal(t, "Grade 6", created.Name)
	assert.Equal(t, uint(1), created.UserID)

	resp, env := doRequest(t, app, fiber.MethodGet, "/api/grade-levels/"+strconv.Itoa(int(created.ID)), 1, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var fetched models.GradeLevel
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "for Grade 6", fetched.Description)
}

func TestCreateRejectsEmptyName(t *testing.T) {
	app := setupApp(t)

	resp, env := doRequest(t, app, fiber.MethodPost, "/api/grade-levels/", 1, fiber.Map{"name": ""})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestListScopedToOwner(t *testing.T) {
	app := setupApp(t)

	createGradeLevel(t, app, 1, "Grade 6")
	createGradeLevel(t, app, 1, "Grade 7")
	createGradeLevel(t, app, 2, "Grade 8")

	resp, env := doRequest(t, app, fiber.MethodGet, "/api/grade-levels/", 1, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var data struct {
		Items []models.GradeLevel `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Items, 2)
	for _, item := range data.Items {
		assert.Equal(t, uint(1), item.UserID)
	}
}

func TestGetForbiddenForOtherOwner(t *testing.T) {
	app := setupApp(t)

	created := createGradeLevel(t, app, 1, "Grade 6")

	resp, _ := doRequest(t, app, fiber.MethodGet, "/api/grade-levels/"+strconv.Itoa(int(created.ID)), 2, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestUpdate(t *testing.T) {
	app := setupApp(t)

	created := createGradeLevel(t, app, 1, "Grade 6")

	resp, env := doRequest(t, app, fiber.MethodPut, "/api/grade-levels/"+strconv.Itoa(int(created.ID)), 1, fiber.Map{
		"name":        "Grade 6 (revised)",
		"description": "updated",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated models.GradeLevel
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Grade 6 (revised)", updated.Name)
	assert.Equal(t, "updated", updated.Description)
}

func TestDeleteHidesEntity(t *testing.T) {
	app := setupApp(t)

	created := createGradeLevel(t, app, 1, "Grade 6")
	path := "/api/grade-levels/" + strconv.Itoa(int(created.ID))

	resp, _ := doRequest(t, app, fiber.MethodDelete, path, 1, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, app, fiber.MethodGet, path, 1, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, env := doRequest(t, app, fiber.MethodGet, "/api/grade-levels/", 1, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var data struct {
		Items []models.GradeLevel `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Empty(t, data.Items)
}

func TestUnauthorizedWithoutUser(t *testing.T) {
	app := setupApp(t)

	resp, _ := doRequest(t, app, fiber.MethodGet, "/api/grade-levels/", 0, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
