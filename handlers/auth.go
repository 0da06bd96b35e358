package handlers

import (
	"camera-logistics-system/middleware"
	"camera-logistics-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService) {
	app.Post("/auth/login", authService.Login)

	// 🔐 Authenticated routes
	secured := app.Group("/auth", middleware.RequireAuth(authService))
	secured.Get("/me", authService.Me)
}
