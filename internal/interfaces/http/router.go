package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/enplural/konyx-api/internal/application/auth"
	"github.com/enplural/konyx-api/internal/application/exporting"
	"github.com/enplural/konyx-api/internal/application/ports"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ExportUC    *exporting.ExportUseCase
	SheetReader ports.SheetReader
	ExportDir   string
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (login público; el resto requiere token)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/change-password", AuthMiddleware(deps.JWTSecret), authHandler.ChangePassword)
	authGroup.Post("/apis", AuthMiddleware(deps.JWTSecret), authHandler.UpdateAPIKeys)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Validación previa de archivos
	convertHandler := NewConvertHandler(deps.SheetReader)
	protected.Post("/convert/procesar", convertHandler.Process)

	// Exportación
	exportGroup := protected.Group("/export")
	exportHandler := NewExportHandler(deps.ExportUC, deps.ExportDir)
	exportGroup.Post("/start", exportHandler.Start)
	exportGroup.Get("/progress", exportHandler.Progress)
	exportGroup.Get("/download/:filename", exportHandler.Download)
}
