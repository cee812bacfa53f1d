package main

import (
	"log"

	"planpractice/config"
	"planpractice/database"
	authRoutes "planpractice/routers/authRoutes"
	lessonPlannerRoutes "planpractice/routers/lessonPlannerRoutes"
	paymentRoutes "planpractice/routers/paymentRoutes"
	quizOtpRoutes "planpractice/routers/quizOtpRoutes"
	quizRoutes "planpractice/routers/quizRoutes"
	studentQuizRoutes "planpractice/routers/studentQuizRoutes"
	templateRoutes "planpractice/routers/templateRoutes"
	"planpractice/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	utils.InitializeOTPCleanupScheduler()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	templateRoutes.SetupTemplateRoutes(app)
	lessonPlannerRoutes.SetupLessonPlannerRoutes(app)
	quizRoutes.SetupQuizRoutes(app)
	quizOtpRoutes.SetupQuizOTPRoutes(app)
	studentQuizRoutes.SetupStudentQuizRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
