package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/enplural/konyx-api/internal/application/auth"
	"github.com/enplural/konyx-api/internal/application/exporting"
	"github.com/enplural/konyx-api/internal/application/ports"
	infraai "github.com/enplural/konyx-api/internal/infrastructure/ai"
	"github.com/enplural/konyx-api/internal/infrastructure/holded"
	"github.com/enplural/konyx-api/internal/infrastructure/spreadsheet"
	"github.com/enplural/konyx-api/internal/infrastructure/store"
	httpRouter "github.com/enplural/konyx-api/internal/interfaces/http"
	"github.com/enplural/konyx-api/pkg/config"
	"github.com/enplural/konyx-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	settingsStore := store.NewJSONStore(cfg.Store.DataFile, cfg.Store.DefaultPassword)
	if _, err := settingsStore.Load(); err != nil {
		log.Fatal().Err(err).Msg("inicializar el almacén de estado")
	}

	llmTimeout := time.Duration(cfg.LLM.Timeout) * time.Second
	var llm ports.LLMService
	switch cfg.LLM.Provider {
	case "anthropic":
		llm = infraai.NewAnthropicService(cfg.LLM.AnthropicKey, cfg.LLM.Model, llmTimeout)
	case "gemini":
		llm = infraai.NewGeminiService(cfg.LLM.GeminiKey, cfg.LLM.Model, llmTimeout)
	default:
		// La clave de Groq se gestiona desde el panel; el adaptador la lee
		// del almacén en cada llamada.
		llm = infraai.NewGroqService(func() string {
			settings, err := settingsStore.Load()
			if err != nil {
				return ""
			}
			return settings.APIGroq
		}, cfg.LLM.Model, llmTimeout)
	}
	platform := holded.NewClient(15 * time.Second)
	reader := spreadsheet.NewReader()

	enricher := exporting.NewEnricher(llm, llmTimeout)
	reporter := exporting.NewReporter()
	exportUC := exporting.NewExportUseCase(reader, settingsStore, enricher, platform, reporter, log, exporting.Config{
		ExportDir:      cfg.Export.Dir,
		TimestampFiles: cfg.Export.TimestampFiles,
	})

	authUC := auth.NewAuthUseCase(settingsStore, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
		// Subidas de hasta ~20 MB; los libros de sesiones reales rondan 1 MB
		BodyLimit:   20 * 1024 * 1024,
		ReadTimeout: time.Second * 30,
		IdleTimeout: time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ExportUC:    exportUC,
		SheetReader: reader,
		ExportDir:   cfg.Export.Dir,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
